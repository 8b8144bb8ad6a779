package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

const dirPerm = 0o750

// CanvasRepository stores one JSON document per canvas under
// {root}/canvases/{id}.json.
type CanvasRepository struct {
	root string
}

func NewCanvasRepository(root string) *CanvasRepository {
	return &CanvasRepository{root: root}
}

func (r *CanvasRepository) dir() string {
	return filepath.Join(r.root, "canvases")
}

func (r *CanvasRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

func (r *CanvasRepository) List(_ context.Context) ([]*models.Canvas, error) {
	entries, err := os.ReadDir(r.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.Canvas{}, nil
		}

		return nil, fmt.Errorf("failed to list canvases: %w", err)
	}

	canvases := make([]*models.Canvas, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		canvas, err := r.read(filepath.Join(r.dir(), entry.Name()))
		if err != nil {
			return nil, err
		}

		canvases = append(canvases, canvas)
	}

	return canvases, nil
}

func (r *CanvasRepository) GetByID(_ context.Context, id string) (*models.Canvas, error) {
	canvas, err := r.read(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrCanvasNotFound
		}

		return nil, err
	}

	return canvas, nil
}

func (r *CanvasRepository) Save(_ context.Context, canvas *models.Canvas) error {
	if err := os.MkdirAll(r.dir(), dirPerm); err != nil {
		return fmt.Errorf("failed to create canvas directory: %w", err)
	}

	data, err := json.MarshalIndent(canvas, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal canvas %s: %w", canvas.ID, err)
	}

	return writeAtomic(r.path(canvas.ID), data)
}

func (r *CanvasRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(r.path(id))
	if os.IsNotExist(err) {
		return persistence.ErrCanvasNotFound
	}

	return err
}

func (r *CanvasRepository) read(path string) (*models.Canvas, error) {
	data, err := os.ReadFile(path) // nolint:gosec // Paths are derived from the configured root
	if err != nil {
		return nil, err
	}

	var canvas models.Canvas
	if err := json.Unmarshal(data, &canvas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal canvas file %s: %w", path, err)
	}

	return &canvas, nil
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partially written document.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	return os.Rename(tmp.Name(), path)
}
