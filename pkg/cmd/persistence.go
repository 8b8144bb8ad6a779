// Package cmd provides shared wiring helpers for the flowcanvas binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iamoneai/flowcanvas/pkg/persistence"
	"github.com/iamoneai/flowcanvas/pkg/persistence/file"
	"github.com/iamoneai/flowcanvas/pkg/persistence/redis"
)

// NewPersistence builds the persistence layer from the storage URL. Canvas
// documents always live in the file store; when a Redis URL is given,
// execution contexts move to Redis so runners and the API share hot
// execution state.
func NewPersistence(ctx context.Context, logger *slog.Logger, storageURL, redisURL string) persistence.Persistence {
	root := strings.TrimPrefix(storageURL, "file://")
	fileStore := file.NewPersistence(root)

	if redisURL == "" {
		logger.InfoContext(ctx, "Using file persistence", "root", root)

		return fileStore
	}

	executions, err := redis.NewExecutionRepository(redisURL, redis.DefaultTTL)
	if err != nil {
		panic("failed to create redis execution repository: " + err.Error())
	}

	logger.InfoContext(ctx, "Using file persistence with redis execution store", "root", root)

	return persistence.NewComposite(fileStore.CanvasRepository(), executions).
		OnHealthCheck(fileStore.HealthCheck).
		OnHealthCheck(executions.HealthCheck).
		OnClose(fileStore.Close).
		OnClose(func(context.Context) error { return executions.Close() })
}
