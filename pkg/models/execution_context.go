// Package models defines the execution-state records tracked per canvas run.
package models

import (
	"encoding/json"
	"time"
)

// ExecutionStatus is the lifecycle state of one canvas execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine admits the move.
// pending → running → {completed, failed, cancelled}; pending may also be
// cancelled directly; running → running covers repeated node dispatch.
func (s ExecutionStatus) CanTransitionTo(next ExecutionStatus) bool {
	if s.IsTerminal() {
		return false
	}

	switch s {
	case ExecutionStatusPending:
		return next == ExecutionStatusRunning || next == ExecutionStatusCancelled
	case ExecutionStatusRunning:
		return next == ExecutionStatusRunning || next.IsTerminal()
	default:
		return false
	}
}

// ParseExecutionStatus maps a serialized status to its enum value,
// defaulting to pending.
func ParseExecutionStatus(s string) ExecutionStatus {
	switch ExecutionStatus(s) {
	case ExecutionStatusPending, ExecutionStatusRunning, ExecutionStatusCompleted,
		ExecutionStatusFailed, ExecutionStatusCancelled:
		return ExecutionStatus(s)
	default:
		return ExecutionStatusPending
	}
}

// NodeExecutionResult is one node's outcome within an execution.
type NodeExecutionResult struct {
	NodeID       string           `json:"node_id" validate:"required"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	Success      bool             `json:"success"`
	Outputs      map[string]Value `json:"outputs,omitempty"` // Keyed by the node's output port keys
	ErrorMessage string           `json:"error_message,omitempty"`
	ElapsedMs    int64            `json:"elapsed_ms,omitempty"`
}

// ExecutionContext records one run of a canvas: status, the path actually
// taken, and per-node results. It is a data record; the execution tracker
// enforces the state machine around it.
type ExecutionContext struct {
	ID              string                          `json:"id"        validate:"required"`
	CanvasID        string                          `json:"canvas_id" validate:"required"`
	StartedAt       time.Time                       `json:"started_at"`
	NodeResults     map[string]*NodeExecutionResult `json:"node_results"`
	GlobalVariables map[string]Value                `json:"global_variables,omitempty"`
	Status          ExecutionStatus                 `json:"status"`
	CurrentNodeID   string                          `json:"current_node_id,omitempty"`
	ExecutionPath   []string                        `json:"execution_path"`
}

// UnmarshalJSON normalizes the status enum on load.
func (e *ExecutionContext) UnmarshalJSON(data []byte) error {
	type alias ExecutionContext

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw.Status = ParseExecutionStatus(string(raw.Status))
	*e = ExecutionContext(raw)

	return nil
}

// DataContext builds the field lookup used for wire condition evaluation:
// the outputs of completed nodes merged over the global variables. Node
// outputs shadow globals on key collision.
func (e *ExecutionContext) DataContext() map[string]Value {
	data := make(map[string]Value, len(e.GlobalVariables))

	for k, v := range e.GlobalVariables {
		data[k] = v
	}

	for _, id := range e.ExecutionPath {
		result, ok := e.NodeResults[id]
		if !ok || result.CompletedAt == nil {
			continue
		}

		for k, v := range result.Outputs {
			data[k] = v
		}
	}

	return data
}
