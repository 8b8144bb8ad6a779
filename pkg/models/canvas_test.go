package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestCanvas wires source -> sink in a single rules lane.
func buildTestCanvas() *Canvas {
	source := &Node{
		ID:         "source",
		TemplateID: "manual-input",
		Name:       "Source",
		Category:   NodeCategoryData,
		Enabled:    true,
		OutputPorts: []*Port{
			{ID: "source_out_value", Key: "value", Direction: PortDirectionOutput, DataType: PortDataTypeAny},
		},
	}
	sink := &Node{
		ID:         "sink",
		TemplateID: "passthrough",
		Name:       "Sink",
		Category:   NodeCategoryLogic,
		Enabled:    true,
		InputPorts: []*Port{
			{ID: "sink_in_value", Key: "value", Direction: PortDirectionInput, DataType: PortDataTypeAny},
		},
		OutputPorts: []*Port{
			{ID: "sink_out_value", Key: "value", Direction: PortDirectionOutput, DataType: PortDataTypeAny},
		},
	}

	return &Canvas{
		ID:   "canvas-1",
		Name: "Test Canvas",
		Lanes: []*Lane{
			{
				ID:      "lane-1",
				Name:    "Main",
				Enabled: true,
				Type:    LaneTypeRules,
				Role:    LaneRoleExecutor,
				NodeIDs: []string{"source", "sink"},
				Config:  DefaultLaneConfig(LaneTypeRules),
			},
		},
		Nodes: map[string]*Node{"source": source, "sink": sink},
		Wires: []*Wire{
			{
				ID:           "wire-1",
				SourceNodeID: "source",
				SourcePortID: "source_out_value",
				TargetNodeID: "sink",
				TargetPortID: "sink_in_value",
			},
		},
		Metadata: CanvasMetadata{Version: "0.1.0"},
	}
}

func TestCanvas_Lookups(t *testing.T) {
	c := buildTestCanvas()

	node, ok := c.Node("source")
	require.True(t, ok)
	assert.Equal(t, "Source", node.Name)

	_, ok = c.Node("ghost")
	assert.False(t, ok)

	lane, ok := c.Lane("lane-1")
	require.True(t, ok)
	assert.Equal(t, "Main", lane.Name)

	owner, ok := c.LaneOf("sink")
	require.True(t, ok)
	assert.Equal(t, "lane-1", owner.ID)

	wire, ok := c.Wire("wire-1")
	require.True(t, ok)
	assert.Equal(t, "source", wire.SourceNodeID)
}

func TestCanvas_WireQueries(t *testing.T) {
	c := buildTestCanvas()

	assert.Len(t, c.WiresInto("sink"), 1)
	assert.Empty(t, c.WiresInto("source"))
	assert.Len(t, c.WiresOutOf("source"), 1)
	assert.Len(t, c.WiresTouching("source"), 1)
	assert.Len(t, c.WiresTouching("sink"), 1)
}

func TestCanvas_Clone_IsDeep(t *testing.T) {
	c := buildTestCanvas()

	clone := c.Clone()
	clone.Nodes["source"].Name = "Mutated"
	clone.Lanes[0].NodeIDs[0] = "mutated"
	clone.Wires[0].TargetNodeID = "mutated"

	assert.Equal(t, "Source", c.Nodes["source"].Name)
	assert.Equal(t, "source", c.Lanes[0].NodeIDs[0])
	assert.Equal(t, "sink", c.Wires[0].TargetNodeID)
}

func TestCanvas_JSONRoundTrip(t *testing.T) {
	c := buildTestCanvas()
	c.Wires[0].Condition = &WireCondition{
		Field:    "score",
		Operator: OperatorGte,
		Value:    NumberValue(0.5),
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Canvas
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, c.ID, decoded.ID)
	assert.Equal(t, c.Name, decoded.Name)
	require.Len(t, decoded.Lanes, 1)
	assert.Equal(t, []string{"source", "sink"}, decoded.Lanes[0].NodeIDs)

	_, ok := decoded.Lanes[0].Config.(*RulesConfig)
	assert.True(t, ok, "lane config variant must survive the round trip")

	require.Len(t, decoded.Wires, 1)
	require.NotNil(t, decoded.Wires[0].Condition)
	assert.True(t, decoded.Wires[0].Condition.Value.Equal(NumberValue(0.5)))

	sink, ok := decoded.Node("sink")
	require.True(t, ok)
	require.Len(t, sink.InputPorts, 1)
	assert.Equal(t, PortDataTypeAny, sink.InputPorts[0].DataType)
}
