// Package persistence provides the data storage abstraction for canvases
// and execution contexts.
package persistence

import (
	"context"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

// CanvasRepository stores canvas documents.
type CanvasRepository interface {
	List(ctx context.Context) ([]*models.Canvas, error)
	GetByID(ctx context.Context, id string) (*models.Canvas, error)
	Save(ctx context.Context, canvas *models.Canvas) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores execution contexts.
type ExecutionRepository interface {
	GetByID(ctx context.Context, id string) (*models.ExecutionContext, error)
	Save(ctx context.Context, execution *models.ExecutionContext) error
	ListByCanvas(ctx context.Context, canvasID string) ([]*models.ExecutionContext, error)
}

// Persistence aggregates the repositories behind one backend.
type Persistence interface {
	CanvasRepository() CanvasRepository
	ExecutionRepository() ExecutionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
