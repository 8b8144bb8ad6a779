package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iamoneai/flowcanvas/pkg/canvas"
	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

// ErrCanvasNotFound is returned when a canvas is not found.
var ErrCanvasNotFound = persistence.ErrCanvasNotFound

// Canvas is the canvas application service. Authoring operations load the
// current document, apply an editor operation and save the result; a
// per-canvas mutex enforces the single-writer discipline the copy-on-write
// editor requires.
type Canvas struct {
	persistence persistence.Persistence
	editor      *canvas.Editor
	validate    *validator.Validate

	locks sync.Map // canvas ID -> *sync.Mutex
}

// NewCanvas creates a new canvas service.
func NewCanvas(p persistence.Persistence, editor *canvas.Editor) *Canvas {
	return &Canvas{
		persistence: p,
		editor:      editor,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Canvas) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := s.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListCanvases retrieves all canvases.
func (s *Canvas) ListCanvases(ctx context.Context) ([]*models.Canvas, error) {
	return s.persistence.CanvasRepository().List(ctx)
}

// FetchByID retrieves a canvas by its ID.
func (s *Canvas) FetchByID(ctx context.Context, id string) (*models.Canvas, error) {
	c, err := s.persistence.CanvasRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, ErrCanvasNotFound
	}

	return c, nil
}

// CreateCanvas validates and stores a new canvas document.
func (s *Canvas) CreateCanvas(ctx context.Context, c *models.Canvas) (*models.Canvas, error) {
	if c == nil {
		return nil, ErrCanvasNil
	}

	if c.ID == "" {
		c.ID = "canvas-" + uuid.New().String()[:8]
	}

	now := time.Now().UTC()
	c.Metadata.CreatedAt = now
	c.Metadata.UpdatedAt = now

	if c.Metadata.Version == "" {
		c.Metadata.Version = "0.1.0"
	}

	if err := s.checkCanvas(c); err != nil {
		return nil, err
	}

	if err := s.persistence.CanvasRepository().Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// UpdateCanvas replaces a canvas document after validation. Published
// canvases are immutable.
func (s *Canvas) UpdateCanvas(ctx context.Context, c *models.Canvas) (*models.Canvas, error) {
	if c == nil {
		return nil, ErrCanvasNil
	}

	unlock := s.lock(c.ID)
	defer unlock()

	current, err := s.FetchByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	if current.Metadata.Published {
		return nil, ErrCannotModifyPublished
	}

	if err := s.checkCanvas(c); err != nil {
		return nil, err
	}

	c.Metadata.CreatedAt = current.Metadata.CreatedAt
	c.Metadata.UpdatedAt = time.Now().UTC()

	if err := s.persistence.CanvasRepository().Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCanvas removes a canvas document.
func (s *Canvas) DeleteCanvas(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	return s.persistence.CanvasRepository().Delete(ctx, id)
}

// PublishCanvas marks the canvas published at its current version.
// Publishing requires a structurally valid canvas with at least one lane.
func (s *Canvas) PublishCanvas(ctx context.Context, id string) (*models.Canvas, error) {
	unlock := s.lock(id)
	defer unlock()

	c, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(c.Lanes) == 0 {
		return nil, ErrLanesRequired
	}

	if err := canvas.Validate(c); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.Metadata.Published = true
	c.Metadata.PublishedVersion = c.Metadata.Version
	c.Metadata.PublishedAt = &now
	c.Metadata.UpdatedAt = now

	if err := s.persistence.CanvasRepository().Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Apply runs an authoring operation against the stored canvas under the
// per-canvas lock and persists the result.
func (s *Canvas) Apply(ctx context.Context, canvasID string, op func(e *canvas.Editor, c *models.Canvas) (*models.Canvas, error)) (*models.Canvas, error) {
	unlock := s.lock(canvasID)
	defer unlock()

	current, err := s.FetchByID(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	if current.Metadata.Published {
		return nil, ErrCannotModifyPublished
	}

	updated, err := op(s.editor, current)
	if err != nil {
		return nil, err
	}

	if err := s.persistence.CanvasRepository().Save(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Canvas) checkCanvas(c *models.Canvas) error {
	if c.Name == "" {
		return ErrCanvasNameRequired
	}

	if err := s.validate.Struct(c); err != nil {
		return NewValidationError("checkCanvas", "INVALID_CANVAS", err.Error(), ErrInvalidRequest)
	}

	return canvas.Validate(c)
}

func (s *Canvas) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mutex, _ := mu.(*sync.Mutex)
	mutex.Lock()

	return mutex.Unlock
}
