package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

func storedCanvas(id string) *models.Canvas {
	return &models.Canvas{
		ID:   id,
		Name: "Canvas " + id,
		Lanes: []*models.Lane{
			{ID: "lane-1", Name: "Main", Enabled: true, Type: models.LaneTypeRules, Config: models.DefaultLaneConfig(models.LaneTypeRules)},
		},
		Nodes:    map[string]*models.Node{},
		Metadata: models.CanvasMetadata{Version: "0.1.0"},
	}
}

func TestFilePersistence_CanvasRoundTrip(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, p.CanvasRepository().Save(ctx, storedCanvas("canvas-1")))

	loaded, err := p.CanvasRepository().GetByID(ctx, "canvas-1")
	require.NoError(t, err)
	assert.Equal(t, "Canvas canvas-1", loaded.Name)
	require.Len(t, loaded.Lanes, 1)

	_, ok := loaded.Lanes[0].Config.(*models.RulesConfig)
	assert.True(t, ok, "lane config variant must survive storage")
}

func TestFilePersistence_CanvasNotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.CanvasRepository().GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, persistence.IsCanvasNotFound(err))
}

func TestFilePersistence_List(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	canvases, err := p.CanvasRepository().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, canvases)

	require.NoError(t, p.CanvasRepository().Save(ctx, storedCanvas("canvas-1")))
	require.NoError(t, p.CanvasRepository().Save(ctx, storedCanvas("canvas-2")))

	canvases, err = p.CanvasRepository().List(ctx)
	require.NoError(t, err)
	assert.Len(t, canvases, 2)
}

func TestFilePersistence_Delete(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, p.CanvasRepository().Save(ctx, storedCanvas("canvas-1")))
	require.NoError(t, p.CanvasRepository().Delete(ctx, "canvas-1"))

	_, err := p.CanvasRepository().GetByID(ctx, "canvas-1")
	assert.True(t, persistence.IsCanvasNotFound(err))

	err = p.CanvasRepository().Delete(ctx, "canvas-1")
	assert.True(t, persistence.IsCanvasNotFound(err))
}

func TestFilePersistence_FileURLPrefix(t *testing.T) {
	dir := t.TempDir()
	p := NewPersistence("file://" + dir)
	ctx := context.Background()

	require.NoError(t, p.CanvasRepository().Save(ctx, storedCanvas("canvas-1")))

	_, err := p.CanvasRepository().GetByID(ctx, "canvas-1")
	require.NoError(t, err)
	require.NoError(t, p.HealthCheck(ctx))
}

func TestFilePersistence_ExecutionRoundTrip(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	execution := &models.ExecutionContext{
		ID:            "exec-1",
		CanvasID:      "canvas-1",
		StartedAt:     now,
		Status:        models.ExecutionStatusCompleted,
		ExecutionPath: []string{"a", "b"},
		NodeResults: map[string]*models.NodeExecutionResult{
			"a": {NodeID: "a", StartedAt: now, Success: true, Outputs: map[string]models.Value{"value": models.NumberValue(1)}},
		},
	}

	require.NoError(t, p.ExecutionRepository().Save(ctx, execution))

	loaded, err := p.ExecutionRepository().GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, loaded.Status)
	assert.Equal(t, []string{"a", "b"}, loaded.ExecutionPath)
	assert.True(t, loaded.NodeResults["a"].Outputs["value"].Equal(models.NumberValue(1)))
}

func TestFilePersistence_ExecutionNotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.ExecutionRepository().GetByID(context.Background(), "ghost")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestFilePersistence_ListByCanvas_SortedByStart(t *testing.T) {
	p := NewPersistence(t.TempDir())
	ctx := context.Background()

	base := time.Now().UTC()

	for i, id := range []string{"exec-b", "exec-a", "exec-other"} {
		canvasID := "canvas-1"
		if id == "exec-other" {
			canvasID = "canvas-2"
		}

		require.NoError(t, p.ExecutionRepository().Save(ctx, &models.ExecutionContext{
			ID:        id,
			CanvasID:  canvasID,
			StartedAt: base.Add(time.Duration(-i) * time.Minute),
			Status:    models.ExecutionStatusCompleted,
		}))
	}

	executions, err := p.ExecutionRepository().ListByCanvas(ctx, "canvas-1")
	require.NoError(t, err)
	require.Len(t, executions, 2)

	// exec-a started before exec-b.
	assert.Equal(t, "exec-a", executions[0].ID)
	assert.Equal(t, "exec-b", executions[1].ID)
}
