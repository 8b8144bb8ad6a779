package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/iamoneai/flowcanvas/pkg/cmd"
	"github.com/iamoneai/flowcanvas/pkg/execution"
	"github.com/iamoneai/flowcanvas/pkg/log"
	"github.com/iamoneai/flowcanvas/pkg/otelhelper"
)

func main() {
	command := &cli.Command{
		Name:                  "flowcanvas-runner",
		Usage:                 "Start runners to execute published canvases",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "runner-id",
				Aliases: []string{"id"},
				Usage:   "Custom runner ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("RUNNER_ID"),
			},
			&cli.StringFlag{
				Name:    "storage-url",
				Usage:   "Canvas document store URL (file://<path>)",
				Value:   "file://./data",
				Sources: cli.EnvVars("STORAGE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the execution context store (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			runnerID := command.String("runner-id")
			if runnerID == "" {
				runnerID = "runner-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("flowcanvas-runner").With("runner_id", runnerID)

			logger.InfoContext(ctx, "Initializing FlowCanvas Runner")

			registry := cmd.NewRegistry(ctx, logger)

			eventBus := cmd.NewEventBus(command.String("event-bus"), "flowcanvas-runner", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("storage-url"), command.String("redis-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			var engineOpts []execution.EngineOption

			if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
				tracer, err := otelhelper.NewTracer(ctx, "flowcanvas-runner")
				if err != nil {
					logger.ErrorContext(ctx, "Failed to initialize tracer", "error", err)

					return err
				}

				engineOpts = append(engineOpts, execution.WithTracer(tracer))
			}

			runner := NewRunner(runnerID, persistence, eventBus, logger, registry, engineOpts...)

			if err := runner.Start(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to start runner", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
