package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

func testRepository(t *testing.T) (*ExecutionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	return NewExecutionRepositoryWithClient(client, time.Hour), mr
}

func testExecution(id, canvasID string) *models.ExecutionContext {
	return &models.ExecutionContext{
		ID:            id,
		CanvasID:      canvasID,
		StartedAt:     time.Now().UTC(),
		Status:        models.ExecutionStatusRunning,
		ExecutionPath: []string{"a"},
		NodeResults: map[string]*models.NodeExecutionResult{
			"a": {NodeID: "a", Success: true, Outputs: map[string]models.Value{"value": models.StringValue("ok")}},
		},
	}
}

func TestExecutionRepository_SaveAndGet(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testExecution("exec-1", "canvas-1")))

	loaded, err := repo.GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, "canvas-1", loaded.CanvasID)
	assert.Equal(t, models.ExecutionStatusRunning, loaded.Status)
	assert.True(t, loaded.NodeResults["a"].Outputs["value"].Equal(models.StringValue("ok")))
}

func TestExecutionRepository_GetMissing(t *testing.T) {
	repo, _ := testRepository(t)

	_, err := repo.GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionRepository_SaveSetsTTL(t *testing.T) {
	repo, mr := testRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testExecution("exec-1", "canvas-1")))

	assert.Positive(t, mr.TTL(executionKeyPrefix+"exec-1"))
	assert.Positive(t, mr.TTL(canvasIndexPrefix+"canvas-1"))
}

func TestExecutionRepository_ListByCanvas(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testExecution("exec-1", "canvas-1")))
	require.NoError(t, repo.Save(ctx, testExecution("exec-2", "canvas-1")))
	require.NoError(t, repo.Save(ctx, testExecution("exec-3", "canvas-2")))

	executions, err := repo.ListByCanvas(ctx, "canvas-1")
	require.NoError(t, err)
	assert.Len(t, executions, 2)
}

func TestExecutionRepository_ListByCanvas_SkipsExpiredEntries(t *testing.T) {
	repo, mr := testRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testExecution("exec-1", "canvas-1")))
	require.NoError(t, repo.Save(ctx, testExecution("exec-2", "canvas-1")))

	// Simulate the execution key expiring while the index entry lives on.
	mr.Del(executionKeyPrefix + "exec-1")

	executions, err := repo.ListByCanvas(ctx, "canvas-1")
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, "exec-2", executions[0].ID)
}

func TestExecutionRepository_UpdateOverwrites(t *testing.T) {
	repo, _ := testRepository(t)
	ctx := context.Background()

	execution := testExecution("exec-1", "canvas-1")
	require.NoError(t, repo.Save(ctx, execution))

	execution.Status = models.ExecutionStatusCompleted
	require.NoError(t, repo.Save(ctx, execution))

	loaded, err := repo.GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, loaded.Status)
}

func TestExecutionRepository_HealthCheck(t *testing.T) {
	repo, mr := testRepository(t)

	require.NoError(t, repo.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, repo.HealthCheck(context.Background()))
}

func TestNewExecutionRepository_InvalidURL(t *testing.T) {
	_, err := NewExecutionRepository("not-a-url", time.Hour)
	assert.Error(t, err)
}
