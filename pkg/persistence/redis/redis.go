// Package redis provides a Redis-backed execution context store. Execution
// documents are hot, short-lived records polled by UIs, so they live in
// Redis with a TTL while canvas documents stay in the document store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
)

const (
	executionKeyPrefix = "flowcanvas:execution:"
	canvasIndexPrefix  = "flowcanvas:canvas-executions:"

	// DefaultTTL keeps finished executions around for a day.
	DefaultTTL = 24 * time.Hour
)

// ExecutionRepository implements persistence.ExecutionRepository on Redis.
type ExecutionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewExecutionRepository creates a repository from a Redis URL
// (redis://host:port/db).
func NewExecutionRepository(url string, ttl time.Duration) (*ExecutionRepository, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &ExecutionRepository{
		client: goredis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// NewExecutionRepositoryWithClient wraps an existing client, for tests.
func NewExecutionRepositoryWithClient(client *goredis.Client, ttl time.Duration) *ExecutionRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &ExecutionRepository{client: client, ttl: ttl}
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.ExecutionContext, error) {
	data, err := r.client.Get(ctx, executionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to get execution %s: %w", id, err)
	}

	var execution models.ExecutionContext
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

func (r *ExecutionRepository) Save(ctx context.Context, execution *models.ExecutionContext) error {
	data, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, executionKeyPrefix+execution.ID, data, r.ttl)
	pipe.SAdd(ctx, canvasIndexPrefix+execution.CanvasID, execution.ID)
	pipe.Expire(ctx, canvasIndexPrefix+execution.CanvasID, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) ListByCanvas(ctx context.Context, canvasID string) ([]*models.ExecutionContext, error) {
	ids, err := r.client.SMembers(ctx, canvasIndexPrefix+canvasID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for canvas %s: %w", canvasID, err)
	}

	executions := make([]*models.ExecutionContext, 0, len(ids))

	for _, id := range ids {
		execution, err := r.GetByID(ctx, id)
		if err != nil {
			// Index entries can outlive expired execution keys.
			if persistence.IsExecutionNotFound(err) {
				continue
			}

			return nil, err
		}

		executions = append(executions, execution)
	}

	return executions, nil
}

// HealthCheck pings the Redis server.
func (r *ExecutionRepository) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *ExecutionRepository) Close() error {
	return r.client.Close()
}
