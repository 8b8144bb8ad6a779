package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

type stubCanvasRepository struct{}

func (stubCanvasRepository) List(_ context.Context) ([]*models.Canvas, error) { return nil, nil }

func (stubCanvasRepository) GetByID(_ context.Context, _ string) (*models.Canvas, error) {
	return nil, ErrCanvasNotFound
}
func (stubCanvasRepository) Save(_ context.Context, _ *models.Canvas) error { return nil }

func (stubCanvasRepository) Delete(_ context.Context, _ string) error { return nil }

type stubExecutionRepository struct{}

func (stubExecutionRepository) GetByID(_ context.Context, _ string) (*models.ExecutionContext, error) {
	return nil, ErrExecutionNotFound
}

func (stubExecutionRepository) Save(_ context.Context, _ *models.ExecutionContext) error { return nil }

func (stubExecutionRepository) ListByCanvas(_ context.Context, _ string) ([]*models.ExecutionContext, error) {
	return nil, nil
}

func TestComposite_ExposesRepositories(t *testing.T) {
	canvases := stubCanvasRepository{}
	executions := stubExecutionRepository{}

	composite := NewComposite(canvases, executions)

	assert.Equal(t, canvases, composite.CanvasRepository())
	assert.Equal(t, executions, composite.ExecutionRepository())
}

func TestComposite_HealthCheck_RunsProbesInOrder(t *testing.T) {
	var probed []string

	composite := NewComposite(stubCanvasRepository{}, stubExecutionRepository{}).
		OnHealthCheck(func(_ context.Context) error {
			probed = append(probed, "file")

			return nil
		}).
		OnHealthCheck(func(_ context.Context) error {
			probed = append(probed, "redis")

			return nil
		})

	require.NoError(t, composite.HealthCheck(context.Background()))
	assert.Equal(t, []string{"file", "redis"}, probed)
}

func TestComposite_HealthCheck_ReturnsFirstFailure(t *testing.T) {
	probeErr := errors.New("backend down")
	reachedSecond := false

	composite := NewComposite(stubCanvasRepository{}, stubExecutionRepository{}).
		OnHealthCheck(func(_ context.Context) error { return probeErr }).
		OnHealthCheck(func(_ context.Context) error {
			reachedSecond = true

			return nil
		})

	assert.ErrorIs(t, composite.HealthCheck(context.Background()), probeErr)
	assert.False(t, reachedSecond)
}

func TestComposite_Close_RunsAllClosers(t *testing.T) {
	closeErr := errors.New("close failed")
	closed := 0

	composite := NewComposite(stubCanvasRepository{}, stubExecutionRepository{}).
		OnClose(func(_ context.Context) error {
			closed++

			return closeErr
		}).
		OnClose(func(_ context.Context) error {
			closed++

			return nil
		})

	assert.ErrorIs(t, composite.Close(context.Background()), closeErr)
	assert.Equal(t, 2, closed)
}

func TestComposite_NoProbesOrClosers(t *testing.T) {
	composite := NewComposite(stubCanvasRepository{}, stubExecutionRepository{})

	assert.NoError(t, composite.HealthCheck(context.Background()))
	assert.NoError(t, composite.Close(context.Background()))
}
