// Package main provides the FlowCanvas runner: an event-driven worker that
// executes published canvases requested over the event bus.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/iamoneai/flowcanvas/pkg/eventbus"
	"github.com/iamoneai/flowcanvas/pkg/events"
	"github.com/iamoneai/flowcanvas/pkg/execution"
	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/persistence"
	"github.com/iamoneai/flowcanvas/pkg/protocol"
	"github.com/iamoneai/flowcanvas/pkg/registry"
	"github.com/iamoneai/flowcanvas/pkg/runners/passthrough"
)

// Runner consumes execution requests and drives the traversal engine.
// In-flight executions are tracked by ID so cancellation events can reach
// them; cancelling an execution this runner does not hold is a no-op.
type Runner struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	factory     protocol.RunnerFactory
	engineOpts  []execution.EngineOption

	mu   sync.Mutex
	runs map[string]context.CancelFunc
}

func NewRunner(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	registry *registry.Registry,
	engineOpts ...execution.EngineOption,
) *Runner {
	return &Runner{
		id:          id,
		logger:      logger.With("module", "flowcanvas-runner", "runner_id", id),
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		factory:     passthrough.NewFactory(),
		engineOpts:  engineOpts,
		runs:        make(map[string]context.CancelFunc),
	}
}

func (r *Runner) Start(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Starting runner", "runner_id", r.id)

	r.eventBus.Handle(events.ExecutionRequestedEvent, r.handleExecutionRequested)
	r.eventBus.Handle(events.ExecutionCancelledEvent, r.handleExecutionCancelled)

	if err := r.eventBus.Subscribe(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	r.logger.InfoContext(ctx, "Runner started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	r.logger.InfoContext(ctx, "Shutting down runner...")
	r.cancelAll()

	return nil
}

func (r *Runner) handleExecutionRequested(ctx context.Context, event any) error {
	requested, ok := event.(*events.ExecutionRequested)
	if !ok {
		r.logger.ErrorContext(ctx, "Invalid event type for ExecutionRequested")

		return nil
	}

	logger := r.logger.With("canvas_id", requested.CanvasID, "event_id", requested.ID)
	logger.InfoContext(ctx, "Processing execution request")

	canvas, err := r.persistence.CanvasRepository().GetByID(ctx, requested.CanvasID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch canvas", "error", err)

		return err
	}

	if canvas == nil || !canvas.Metadata.Published {
		logger.WarnContext(ctx, "Dropping request for missing or unpublished canvas")

		return nil
	}

	// Pre-flight: surface nodes whose properties drifted from their
	// template schema since the canvas was published. Drift does not block
	// the run; templates are advisory at execution time.
	for _, node := range canvas.Nodes {
		if node.TemplateID == "" {
			continue
		}

		if _, terr := r.registry.Template(node.TemplateID); terr != nil {
			continue
		}

		if verr := r.registry.ValidateProperties(node); verr != nil {
			logger.WarnContext(ctx, "Node properties do not match template schema",
				"node_id", node.ID, "template_id", node.TemplateID, "error", verr)
		}
	}

	tracker := execution.NewTracker(canvas.ID, requested.Variables)
	logger = logger.With("execution_id", tracker.ID())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.register(tracker.ID(), cancel)
	defer r.deregister(tracker.ID())

	r.publish(runCtx, tracker.ID(), events.ExecutionStarted{
		BaseEvent:   r.baseEvent(events.ExecutionStartedEvent, canvas.ID),
		ExecutionID: tracker.ID(),
	})

	opts := append([]execution.EngineOption{}, r.engineOpts...)
	opts = append(opts, execution.WithHooks(execution.Hooks{
		OnDispatch: func(executionID string, node *models.Node) {
			r.publish(runCtx, executionID, events.NodeDispatched{
				BaseEvent:   r.baseEvent(events.NodeDispatchedEvent, canvas.ID),
				ExecutionID: executionID,
				NodeID:      node.ID,
			})
		},
		OnCompletion: func(executionID string, node *models.Node, result *models.NodeExecutionResult) {
			r.publish(runCtx, executionID, events.NodeCompleted{
				BaseEvent:   r.baseEvent(events.NodeCompletedEvent, canvas.ID),
				ExecutionID: executionID,
				NodeID:      node.ID,
				Result:      result,
			})
			r.saveSnapshot(runCtx, logger, tracker)
		},
	}))

	engine := execution.NewEngine(logger, r.factory, opts...)

	execErr := engine.Execute(runCtx, canvas, tracker)

	snapshot := tracker.Snapshot()
	r.saveSnapshot(ctx, logger, tracker)

	switch snapshot.Status {
	case models.ExecutionStatusCompleted:
		r.publish(ctx, tracker.ID(), events.ExecutionCompleted{
			BaseEvent:   r.baseEvent(events.ExecutionCompletedEvent, canvas.ID),
			ExecutionID: tracker.ID(),
			Duration:    time.Since(snapshot.StartedAt),
			PathLength:  len(snapshot.ExecutionPath),
		})
		logger.InfoContext(ctx, "Execution completed", "path_length", len(snapshot.ExecutionPath))
	case models.ExecutionStatusFailed:
		failedNodeID, failure := failureDetails(execErr, snapshot)
		r.publish(ctx, tracker.ID(), events.ExecutionFailed{
			BaseEvent:   r.baseEvent(events.ExecutionFailedEvent, canvas.ID),
			ExecutionID: tracker.ID(),
			NodeID:      failedNodeID,
			Error:       failure,
		})
		logger.WarnContext(ctx, "Execution failed", "node_id", failedNodeID, "error", failure)
	case models.ExecutionStatusCancelled:
		r.publish(ctx, tracker.ID(), events.ExecutionCancelled{
			BaseEvent:   r.baseEvent(events.ExecutionCancelledEvent, canvas.ID),
			ExecutionID: tracker.ID(),
		})
		logger.InfoContext(ctx, "Execution cancelled")
	default:
		// Structural rejection (invalid or cyclic canvas) leaves the
		// execution pending; the saved context records the attempt.
		if execErr != nil {
			logger.ErrorContext(ctx, "Execution rejected", "error", execErr)
		}
	}

	return nil
}

func (r *Runner) handleExecutionCancelled(ctx context.Context, event any) error {
	cancelled, ok := event.(*events.ExecutionCancelled)
	if !ok {
		r.logger.ErrorContext(ctx, "Invalid event type for ExecutionCancelled")

		return nil
	}

	r.mu.Lock()
	cancel, running := r.runs[cancelled.ExecutionID]
	r.mu.Unlock()

	if !running {
		return nil
	}

	r.logger.InfoContext(ctx, "Cancelling execution", "execution_id", cancelled.ExecutionID)
	cancel()

	return nil
}

func (r *Runner) register(executionID string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[executionID] = cancel
}

func (r *Runner) deregister(executionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.runs, executionID)
}

func (r *Runner) cancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cancel := range r.runs {
		cancel()
	}
}

func (r *Runner) saveSnapshot(ctx context.Context, logger *slog.Logger, tracker *execution.Tracker) {
	if err := r.persistence.ExecutionRepository().Save(ctx, tracker.Snapshot()); err != nil {
		logger.ErrorContext(ctx, "Failed to save execution context", "error", err)
	}
}

func (r *Runner) publish(ctx context.Context, key string, event events.Event) {
	if err := r.eventBus.Publish(ctx, key, event); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish event", "error", err, "event_type", event.GetType())
	}
}

func (r *Runner) baseEvent(eventType events.EventType, canvasID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        r.eventBus.GenerateID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		CanvasID:  canvasID,
		WorkerID:  r.id,
	}
}

// failureDetails locates the node behind a failed execution. The tracker
// clears CurrentNodeID once a node settles, so the failed result is found
// by walking the execution path backwards.
func failureDetails(execErr error, snapshot *models.ExecutionContext) (string, string) {
	for i := len(snapshot.ExecutionPath) - 1; i >= 0; i-- {
		nodeID := snapshot.ExecutionPath[i]

		if result, ok := snapshot.NodeResults[nodeID]; ok && !result.Success && result.ErrorMessage != "" {
			return nodeID, result.ErrorMessage
		}
	}

	if execErr != nil {
		return snapshot.CurrentNodeID, execErr.Error()
	}

	return snapshot.CurrentNodeID, "execution failed"
}
