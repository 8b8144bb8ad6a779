package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ExecutionStatusPending.CanTransitionTo(ExecutionStatusRunning))
	assert.True(t, ExecutionStatusPending.CanTransitionTo(ExecutionStatusCancelled))
	assert.False(t, ExecutionStatusPending.CanTransitionTo(ExecutionStatusCompleted))
	assert.False(t, ExecutionStatusPending.CanTransitionTo(ExecutionStatusFailed))

	assert.True(t, ExecutionStatusRunning.CanTransitionTo(ExecutionStatusRunning))
	assert.True(t, ExecutionStatusRunning.CanTransitionTo(ExecutionStatusCompleted))
	assert.True(t, ExecutionStatusRunning.CanTransitionTo(ExecutionStatusFailed))
	assert.True(t, ExecutionStatusRunning.CanTransitionTo(ExecutionStatusCancelled))
}

func TestExecutionStatus_TerminalStatesAdmitNothing(t *testing.T) {
	for _, terminal := range []ExecutionStatus{ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled} {
		assert.True(t, terminal.IsTerminal())

		for _, next := range []ExecutionStatus{ExecutionStatusPending, ExecutionStatusRunning, ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s must be rejected", terminal, next)
		}
	}
}

func TestParseExecutionStatus_UnknownDefaultsToPending(t *testing.T) {
	assert.Equal(t, ExecutionStatusPending, ParseExecutionStatus("paused"))
	assert.Equal(t, ExecutionStatusRunning, ParseExecutionStatus("running"))
}

func TestExecutionContext_DataContext_OutputsShadowGlobals(t *testing.T) {
	now := time.Now()

	ec := &ExecutionContext{
		ID:       "exec-1",
		CanvasID: "canvas-1",
		GlobalVariables: map[string]Value{
			"score": NumberValue(0),
			"env":   StringValue("prod"),
		},
		ExecutionPath: []string{"n1"},
		NodeResults: map[string]*NodeExecutionResult{
			"n1": {
				NodeID:      "n1",
				StartedAt:   now,
				CompletedAt: &now,
				Success:     true,
				Outputs:     map[string]Value{"score": NumberValue(42)},
			},
		},
	}

	data := ec.DataContext()

	score, ok := data["score"].AsNumber()
	require.True(t, ok)
	assert.InDelta(t, 42, score, 1e-9)

	env, ok := data["env"].AsString()
	require.True(t, ok)
	assert.Equal(t, "prod", env)
}

func TestExecutionContext_DataContext_SkipsInFlightNodes(t *testing.T) {
	ec := &ExecutionContext{
		ID:            "exec-2",
		CanvasID:      "canvas-1",
		ExecutionPath: []string{"n1"},
		NodeResults: map[string]*NodeExecutionResult{
			// Still running: CompletedAt is nil, outputs must not leak.
			"n1": {
				NodeID:  "n1",
				Outputs: map[string]Value{"partial": NumberValue(1)},
			},
		},
	}

	data := ec.DataContext()
	_, ok := data["partial"]
	assert.False(t, ok)
}
