package execution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/iamoneai/flowcanvas/pkg/canvas"
	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/otelhelper"
	"github.com/iamoneai/flowcanvas/pkg/protocol"
)

// Hooks receive one-way notifications around node dispatch so callers can
// refresh NodeState caches and publish lifecycle events. They are called
// from the engine's collector loop; implementations must not block.
type Hooks struct {
	OnDispatch   func(executionID string, node *models.Node)
	OnCompletion func(executionID string, node *models.Node, result *models.NodeExecutionResult)
}

// Engine traverses a read-only canvas and drives external node runners,
// recording progress into a Tracker.
//
// Ordering: nodes with no live incoming wires are roots; every other node
// waits until all of its live incoming wires' sources have completed (join
// semantics). Within a lane, nodes run in NodeIDs order unless the lane is
// a rules lane with parallel execution mode. Wire conditions are evaluated
// against the union of completed node outputs and global variables.
type Engine struct {
	logger  *slog.Logger
	factory protocol.RunnerFactory
	tracer  trace.Tracer
	hooks   Hooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHooks installs dispatch/completion callbacks.
func WithHooks(hooks Hooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithTracer enables span emission around executions and node dispatches.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

func NewEngine(logger *slog.Logger, factory protocol.RunnerFactory, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:  logger,
		factory: factory,
		tracer:  noop.NewTracerProvider().Tracer("execution"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// outcome is the settled state of one node within a run.
type outcome struct {
	success bool
	skipped bool
}

type nodeDone struct {
	nodeID  string
	outputs map[string]models.Value
	err     error
}

// Execute runs one pass over the canvas. Node failures are recorded in the
// tracker (status failed under the stop policy) and do not surface as
// returned errors; only structural problems do: an invalid canvas, a cyclic
// graph, an illegal state transition, or external cancellation.
func (e *Engine) Execute(ctx context.Context, c *models.Canvas, tracker *Tracker) error {
	logger := e.logger.With("canvas_id", c.ID, "execution_id", tracker.ID())

	if err := canvas.Validate(c); err != nil {
		return fmt.Errorf("refusing to execute invalid canvas %s: %w", c.ID, err)
	}

	if err := checkAcyclic(c); err != nil {
		return err
	}

	if len(c.Nodes) == 0 {
		logger.Info("Canvas has no nodes to execute")

		return nil
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "execution.run",
		attribute.String(otelhelper.CanvasIDKey, c.ID),
		attribute.String(otelhelper.ExecutionIDKey, tracker.ID()),
	)
	defer span.End()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := &engineRun{
		engine:   e,
		logger:   logger,
		canvas:   c,
		tracker:  tracker,
		settled:  make(map[string]outcome, len(c.Nodes)),
		running:  make(map[string]bool),
		incoming: make(map[string][]*models.Wire, len(c.Nodes)),
		results:  make(chan nodeDone, len(c.Nodes)),
	}

	for _, w := range c.Wires {
		run.incoming[w.TargetNodeID] = append(run.incoming[w.TargetNodeID], w)
	}

	err := run.loop(runCtx, cancel)
	if err != nil {
		otelhelper.SetError(span, err)
	}

	return err
}

type engineRun struct {
	engine   *Engine
	logger   *slog.Logger
	canvas   *models.Canvas
	tracker  *Tracker
	settled  map[string]outcome
	running  map[string]bool
	incoming map[string][]*models.Wire
	results  chan nodeDone
}

func (r *engineRun) loop(ctx context.Context, cancel context.CancelFunc) error {
	for {
		dispatched, err := r.dispatchEligible(ctx)
		if err != nil {
			cancel()
			r.drain()

			return err
		}

		if len(r.running) == 0 {
			if len(r.settled) == len(r.canvas.Nodes) {
				return r.complete()
			}

			if !dispatched {
				// Acyclic graph with no runnable work left: the remaining
				// nodes hang off skipped or failed sources.
				r.skipRemaining()

				continue
			}

			continue
		}

		select {
		case <-ctx.Done():
			return r.cancelRun(ctx, cancel)
		case done := <-r.results:
			if err := r.collect(done); err != nil {
				cancel()
				r.drain()

				return err
			}

			if stopped, err := r.applyFailurePolicy(done); err != nil || stopped {
				cancel()
				r.drain()

				return err
			}
		}
	}
}

// dispatchEligible settles skippable nodes and starts every node whose
// dependencies are satisfied, repeating until a fixpoint. Returns whether
// any node was dispatched or settled.
func (r *engineRun) dispatchEligible(ctx context.Context) (bool, error) {
	progressed := false

	for {
		changed := false

		for _, lane := range r.canvas.Lanes {
			for idx, nodeID := range lane.NodeIDs {
				if _, done := r.settled[nodeID]; done || r.running[nodeID] {
					continue
				}

				node, _ := r.canvas.Node(nodeID)

				if !lane.Enabled || !node.Enabled {
					r.settled[nodeID] = outcome{skipped: true}
					changed = true

					continue
				}

				if !r.dependenciesSettled(nodeID) {
					continue
				}

				if !r.laneOrderSatisfied(lane, idx) {
					continue
				}

				live := r.liveIncoming(nodeID)
				if len(r.incoming[nodeID]) > 0 && len(live) == 0 {
					// All sources settled but no live wire reaches this
					// node: conditional branching routed around it.
					r.settled[nodeID] = outcome{skipped: true}
					changed = true

					continue
				}

				if err := r.dispatch(ctx, lane, node, live); err != nil {
					return progressed, err
				}

				changed = true
			}
		}

		progressed = progressed || changed

		if !changed {
			return progressed, nil
		}
	}
}

// dependenciesSettled reports whether every incoming wire's source node has
// settled, successfully or not.
func (r *engineRun) dependenciesSettled(nodeID string) bool {
	for _, w := range r.incoming[nodeID] {
		if _, ok := r.settled[w.SourceNodeID]; !ok {
			return false
		}
	}

	return true
}

// laneOrderSatisfied enforces intra-lane sequencing. Rules lanes in
// parallel mode impose no ordering; every other lane runs its members in
// NodeIDs order, one at a time.
func (r *engineRun) laneOrderSatisfied(lane *models.Lane, idx int) bool {
	if rules, ok := lane.Config.(*models.RulesConfig); ok && rules.ExecutionMode == models.ExecutionModeParallel {
		return true
	}

	for _, earlier := range lane.NodeIDs[:idx] {
		if _, done := r.settled[earlier]; !done {
			return false
		}
	}

	for _, member := range lane.NodeIDs {
		if r.running[member] {
			return false
		}
	}

	return true
}

// liveIncoming returns the incoming wires whose source completed
// successfully and whose condition holds against the current data context.
func (r *engineRun) liveIncoming(nodeID string) []*models.Wire {
	wires := r.incoming[nodeID]
	if len(wires) == 0 {
		return nil
	}

	data := r.tracker.DataContext()

	var live []*models.Wire

	for _, w := range wires {
		settled, ok := r.settled[w.SourceNodeID]
		if !ok || !settled.success {
			continue
		}

		if models.EvaluateCondition(w.Condition, data) {
			live = append(live, w)
		}
	}

	return live
}

func (r *engineRun) dispatch(ctx context.Context, lane *models.Lane, node *models.Node, live []*models.Wire) error {
	runner, err := r.engine.factory.RunnerFor(node)
	if err != nil {
		return fmt.Errorf("no runner for node %s (template %s): %w", node.ID, node.TemplateID, err)
	}

	if err := r.tracker.BeginNode(node.ID); err != nil {
		return err
	}

	r.running[node.ID] = true
	inputs := r.resolveInputs(node, live)

	r.logger.Info("Dispatching node", "node_id", node.ID, "lane_id", lane.ID)

	if r.engine.hooks.OnDispatch != nil {
		r.engine.hooks.OnDispatch(r.tracker.ID(), node)
	}

	timeout := laneTimeout(lane)

	go func() {
		nodeCtx := ctx

		var cancel context.CancelFunc

		if timeout > 0 {
			nodeCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		_, span := otelhelper.StartSpan(nodeCtx, r.engine.tracer, "execution.node",
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.TemplateIDKey, node.TemplateID),
		)
		defer span.End()

		done := make(chan nodeDone, 1)

		go func() {
			outputs, runErr := runner.Run(nodeCtx, node, inputs)
			done <- nodeDone{nodeID: node.ID, outputs: outputs, err: runErr}
		}()

		select {
		case result := <-done:
			if result.err != nil {
				otelhelper.SetError(span, result.err)
			}

			r.results <- result
		case <-nodeCtx.Done():
			// The runner overran its timeout or the execution was cancelled;
			// record a failed result instead of hanging the context.
			err := fmt.Errorf("node %s did not finish: %w", node.ID, nodeCtx.Err())
			otelhelper.SetError(span, err)
			r.results <- nodeDone{nodeID: node.ID, err: err}
		}
	}()

	return nil
}

// resolveInputs gathers input values for a node from its live incoming
// wires, keyed by input port key. Ports with no wired value fall back to
// their declared default.
func (r *engineRun) resolveInputs(node *models.Node, live []*models.Wire) map[string]models.Value {
	inputs := make(map[string]models.Value, len(node.InputPorts))

	for _, port := range node.InputPorts {
		if !port.DefaultValue.IsNull() {
			inputs[port.Key] = port.DefaultValue
		}
	}

	snapshot := r.tracker.Snapshot()

	for _, w := range live {
		targetPort, ok := node.FindPort(w.TargetPortID)
		if !ok {
			continue
		}

		source, ok := r.canvas.Node(w.SourceNodeID)
		if !ok {
			continue
		}

		sourcePort, ok := source.FindPort(w.SourcePortID)
		if !ok {
			continue
		}

		result, ok := snapshot.NodeResults[w.SourceNodeID]
		if !ok {
			continue
		}

		if v, ok := result.Outputs[sourcePort.Key]; ok {
			inputs[targetPort.Key] = v
		}
	}

	return inputs
}

func (r *engineRun) collect(done nodeDone) error {
	delete(r.running, done.nodeID)

	result, err := r.tracker.FinishNode(done.nodeID, done.outputs, done.err)
	if err != nil {
		return err
	}

	r.settled[done.nodeID] = outcome{success: done.err == nil}

	if done.err != nil {
		r.logger.Warn("Node failed", "node_id", done.nodeID, "error", done.err)
	} else {
		r.logger.Info("Node completed", "node_id", done.nodeID, "elapsed_ms", result.ElapsedMs)
	}

	if r.engine.hooks.OnCompletion != nil {
		if node, ok := r.canvas.Node(done.nodeID); ok {
			r.engine.hooks.OnCompletion(r.tracker.ID(), node, result)
		}
	}

	return nil
}

// skipRemaining settles every node that can no longer run. Reached when the
// wire graph is acyclic but wire dependencies and intra-lane ordering
// deadlock each other, e.g. a wire flowing against its lane's declared
// order.
func (r *engineRun) skipRemaining() {
	for id := range r.canvas.Nodes {
		if _, done := r.settled[id]; !done && !r.running[id] {
			r.settled[id] = outcome{skipped: true}
			r.logger.Warn("Skipping unreachable node", "node_id", id)
		}
	}
}

// applyFailurePolicy stops the run when a node failed and its lane policy
// is stop. Returns stopped=true after marking the execution failed.
func (r *engineRun) applyFailurePolicy(done nodeDone) (bool, error) {
	if done.err == nil {
		return false, nil
	}

	lane, ok := r.canvas.LaneOf(done.nodeID)
	if ok {
		if rules, isRules := lane.Config.(*models.RulesConfig); isRules && rules.OnError == models.ErrorPolicyContinue {
			return false, nil
		}
	}

	if err := r.tracker.Fail(); err != nil {
		return true, err
	}

	r.logger.Warn("Execution failed", "node_id", done.nodeID)

	return true, nil
}

func (r *engineRun) complete() error {
	if r.tracker.Status() != models.ExecutionStatusRunning {
		// Every node was skipped; nothing ever dispatched.
		return nil
	}

	return r.tracker.Complete()
}

func (r *engineRun) cancelRun(ctx context.Context, cancel context.CancelFunc) error {
	cancel()

	if err := r.tracker.Cancel(); err != nil {
		return err
	}

	r.drain()
	r.logger.Info("Execution cancelled")

	return ctx.Err()
}

// drain waits for in-flight workers so no goroutine outlives the run. Their
// results are discarded; the tracker is already terminal.
func (r *engineRun) drain() {
	for nodeID := range r.running {
		<-r.results

		delete(r.running, nodeID)
	}
}

func laneTimeout(lane *models.Lane) time.Duration {
	rules, ok := lane.Config.(*models.RulesConfig)
	if !ok || rules.TimeoutMs <= 0 {
		return 0
	}

	return time.Duration(rules.TimeoutMs) * time.Millisecond
}

// checkAcyclic runs Kahn's algorithm over the wire graph. Conditions are
// ignored: a cycle is an authoring mistake even if gating would break it at
// run time.
func checkAcyclic(c *models.Canvas) error {
	indegree := make(map[string]int, len(c.Nodes))
	for id := range c.Nodes {
		indegree[id] = 0
	}

	for _, w := range c.Wires {
		indegree[w.TargetNodeID]++
	}

	queue := make([]string, 0, len(indegree))

	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++

		for _, w := range c.Wires {
			if w.SourceNodeID != id {
				continue
			}

			indegree[w.TargetNodeID]--
			if indegree[w.TargetNodeID] == 0 {
				queue = append(queue, w.TargetNodeID)
			}
		}
	}

	if visited == len(c.Nodes) {
		return nil
	}

	var remaining []string

	for id, d := range indegree {
		if d > 0 {
			remaining = append(remaining, id)
		}
	}

	return &CyclicGraphError{CanvasID: c.ID, NodeIDs: remaining}
}
