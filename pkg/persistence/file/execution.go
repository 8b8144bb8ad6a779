package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

// ExecutionRepository stores one JSON document per execution under
// {root}/executions/{id}.json.
type ExecutionRepository struct {
	root string
}

func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

func (r *ExecutionRepository) dir() string {
	return filepath.Join(r.root, "executions")
}

func (r *ExecutionRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

func (r *ExecutionRepository) GetByID(_ context.Context, id string) (*models.ExecutionContext, error) {
	data, err := os.ReadFile(r.path(id)) // nolint:gosec // Paths are derived from the configured root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, err
	}

	var execution models.ExecutionContext
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

func (r *ExecutionRepository) Save(_ context.Context, execution *models.ExecutionContext) error {
	if err := os.MkdirAll(r.dir(), dirPerm); err != nil {
		return fmt.Errorf("failed to create execution directory: %w", err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	return writeAtomic(r.path(execution.ID), data)
}

func (r *ExecutionRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*models.ExecutionContext, error) {
	entries, err := os.ReadDir(r.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.ExecutionContext{}, nil
		}

		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	var executions []*models.ExecutionContext

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		execution, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if execution.CanvasID == canvasID {
			executions = append(executions, execution)
		}
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.Before(executions[j].StartedAt)
	})

	return executions, nil
}
