package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLane_UnmarshalJSON_RulesConfig(t *testing.T) {
	data := []byte(`{
		"id": "lane-1",
		"name": "Scoring",
		"type": "rules",
		"role": "executor",
		"enabled": true,
		"node_ids": ["n1", "n2"],
		"config": {"execution_mode": "parallel", "on_error": "continue", "timeout_ms": 5000}
	}`)

	var lane Lane
	require.NoError(t, json.Unmarshal(data, &lane))

	assert.Equal(t, LaneTypeRules, lane.Type)
	assert.Equal(t, LaneRoleExecutor, lane.Role)

	rules, ok := lane.Config.(*RulesConfig)
	require.True(t, ok, "rules lane must carry a RulesConfig")
	assert.Equal(t, ExecutionModeParallel, rules.ExecutionMode)
	assert.Equal(t, ErrorPolicyContinue, rules.OnError)
	assert.Equal(t, int64(5000), rules.TimeoutMs)
}

func TestLane_UnmarshalJSON_LLMConfig(t *testing.T) {
	data := []byte(`{
		"id": "lane-2",
		"name": "Reasoning",
		"type": "llm",
		"role": "reasoning",
		"enabled": true,
		"config": {"provider": "openai", "model": "gpt-4o", "temperature": 0.2}
	}`)

	var lane Lane
	require.NoError(t, json.Unmarshal(data, &lane))

	llm, ok := lane.Config.(*LLMConfig)
	require.True(t, ok)
	assert.Equal(t, "openai", llm.Provider)
	assert.Equal(t, "gpt-4o", llm.Model)
	assert.InDelta(t, 0.2, llm.Temperature, 1e-9)
}

func TestLane_UnmarshalJSON_DefaultsUnknownEnums(t *testing.T) {
	data := []byte(`{"id": "lane-3", "name": "Mystery", "type": "quantum", "role": "wizard"}`)

	var lane Lane
	require.NoError(t, json.Unmarshal(data, &lane))

	assert.Equal(t, LaneTypeRules, lane.Type)
	assert.Equal(t, LaneRoleExecutor, lane.Role)

	rules, ok := lane.Config.(*RulesConfig)
	require.True(t, ok)
	assert.Equal(t, ExecutionModeSequential, rules.ExecutionMode)
	assert.Equal(t, ErrorPolicyStop, rules.OnError)
}

func TestLane_MarshalJSON_RoundTrip(t *testing.T) {
	lane := &Lane{
		ID:      "lane-4",
		Name:    "Storage",
		Type:    LaneTypeDatabase,
		Role:    LaneRoleLogger,
		Enabled: true,
		NodeIDs: []string{"writer-1"},
		Config:  &DatabaseConfig{Collection: "documents", Operation: "insert", Upsert: true},
	}

	data, err := json.Marshal(lane)
	require.NoError(t, err)

	var decoded Lane
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, lane.ID, decoded.ID)
	assert.Equal(t, lane.NodeIDs, decoded.NodeIDs)

	db, ok := decoded.Config.(*DatabaseConfig)
	require.True(t, ok)
	assert.Equal(t, "documents", db.Collection)
	assert.True(t, db.Upsert)
}

func TestLane_ContainsNode(t *testing.T) {
	lane := &Lane{ID: "lane-5", Name: "L", NodeIDs: []string{"a", "b"}}

	assert.True(t, lane.ContainsNode("a"))
	assert.False(t, lane.ContainsNode("c"))
}

func TestLane_Clone_IsIndependent(t *testing.T) {
	lane := &Lane{ID: "lane-6", Name: "L", NodeIDs: []string{"a"}}

	clone := lane.Clone()
	clone.NodeIDs[0] = "mutated"
	clone.Name = "Other"

	assert.Equal(t, "a", lane.NodeIDs[0])
	assert.Equal(t, "L", lane.Name)
}

func TestDefaultLaneConfig_PerType(t *testing.T) {
	_, ok := DefaultLaneConfig(LaneTypeRules).(*RulesConfig)
	assert.True(t, ok)

	_, ok = DefaultLaneConfig(LaneTypeLLM).(*LLMConfig)
	assert.True(t, ok)

	_, ok = DefaultLaneConfig(LaneTypePassthrough).(*PassthroughConfig)
	assert.True(t, ok)

	_, ok = DefaultLaneConfig(LaneTypeDatabase).(*DatabaseConfig)
	assert.True(t, ok)
}
