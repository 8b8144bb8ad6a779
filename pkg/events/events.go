// Package events defines event types for canvas execution lifecycle
// notifications.
package events

import (
	"time"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

type EventType string

// Bus topic.
const Topic = "flowcanvas.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Execution lifecycle events.
	ExecutionRequestedEvent EventType = "execution.requested"
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionCancelledEvent EventType = "execution.cancelled"

	// Node-level events.
	NodeDispatchedEvent EventType = "node.dispatched"
	NodeCompletedEvent  EventType = "node.completed"
)

// Event is implemented by every event payload.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	CanvasID  string         `json:"canvas_id"`
	WorkerID  string         `json:"worker_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ExecutionRequested asks a runner to execute a canvas.
type ExecutionRequested struct {
	BaseEvent

	Variables map[string]models.Value `json:"variables,omitempty"`
}

func (e ExecutionRequested) GetType() EventType {
	return ExecutionRequestedEvent
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	Duration    time.Duration `json:"duration"`
	PathLength  int           `json:"path_length"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id,omitempty"`
	Error       string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type ExecutionCancelled struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
}

func (e ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

type NodeDispatched struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id"`
}

func (e NodeDispatched) GetType() EventType {
	return NodeDispatchedEvent
}

type NodeCompleted struct {
	BaseEvent

	ExecutionID string                      `json:"execution_id"`
	NodeID      string                      `json:"node_id"`
	Result      *models.NodeExecutionResult `json:"result,omitempty"`
}

func (e NodeCompleted) GetType() EventType {
	return NodeCompletedEvent
}
