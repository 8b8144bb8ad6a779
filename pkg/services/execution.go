package services

import (
	"context"
	"time"

	"github.com/iamoneai/flowcanvas/pkg/events"
	"github.com/iamoneai/flowcanvas/pkg/eventbus"
	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

// ErrExecutionNotFound is returned when an execution is not found.
var ErrExecutionNotFound = persistence.ErrExecutionNotFound

// Execution exposes execution tracking to the API: runs are requested over
// the event bus and consumed by runner processes; their recorded state is
// read back from the execution repository.
type Execution struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
}

// NewExecution creates a new execution service.
func NewExecution(p persistence.Persistence, bus eventbus.EventBus) *Execution {
	return &Execution{
		persistence: p,
		eventBus:    bus,
	}
}

// Request publishes an execution request for the canvas. The canvas must
// exist and be published.
func (s *Execution) Request(ctx context.Context, canvasID string, variables map[string]models.Value) error {
	c, err := s.persistence.CanvasRepository().GetByID(ctx, canvasID)
	if err != nil {
		return err
	}

	if !c.Metadata.Published {
		return NewValidationError("Request", "CANVAS_NOT_PUBLISHED", "canvas must be published before execution", ErrInvalidRequest)
	}

	return s.eventBus.Publish(ctx, canvasID, events.ExecutionRequested{
		BaseEvent: events.BaseEvent{
			ID:        s.eventBus.GenerateID(),
			Type:      events.ExecutionRequestedEvent,
			Timestamp: time.Now().UTC(),
			CanvasID:  canvasID,
		},
		Variables: variables,
	})
}

// Cancel publishes a cancellation signal for a running execution. The
// runner holding the execution cancels it cooperatively; cancelling twice
// is harmless.
func (s *Execution) Cancel(ctx context.Context, canvasID, executionID string) error {
	return s.eventBus.Publish(ctx, executionID, events.ExecutionCancelled{
		BaseEvent: events.BaseEvent{
			ID:        s.eventBus.GenerateID(),
			Type:      events.ExecutionCancelledEvent,
			Timestamp: time.Now().UTC(),
			CanvasID:  canvasID,
		},
		ExecutionID: executionID,
	})
}

// FetchByID retrieves a recorded execution context.
func (s *Execution) FetchByID(ctx context.Context, id string) (*models.ExecutionContext, error) {
	execution, err := s.persistence.ExecutionRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if execution == nil {
		return nil, ErrExecutionNotFound
	}

	return execution, nil
}

// ListByCanvas retrieves all recorded executions of a canvas.
func (s *Execution) ListByCanvas(ctx context.Context, canvasID string) ([]*models.ExecutionContext, error) {
	return s.persistence.ExecutionRepository().ListByCanvas(ctx, canvasID)
}
