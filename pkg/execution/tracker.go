package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamoneai/flowcanvas/pkg/models"
)

// Tracker enforces the execution state machine over an ExecutionContext
// and serializes all writes to it. An engine running lane nodes in parallel
// funnels every result through the tracker, so NodeResults and
// ExecutionPath stay consistent under concurrent node workers.
//
// A tracker is single-use: once a terminal status is reached, further
// transitions fail with InvalidTransitionError (Cancel excepted, which is
// an idempotent no-op while already cancelled).
type Tracker struct {
	mu  sync.Mutex
	ctx models.ExecutionContext
	now func() time.Time
}

// NewTracker creates a pending execution for the given canvas.
func NewTracker(canvasID string, globals map[string]models.Value) *Tracker {
	t := &Tracker{now: time.Now}

	t.ctx = models.ExecutionContext{
		ID:              generateExecutionID(),
		CanvasID:        canvasID,
		StartedAt:       t.now().UTC(),
		NodeResults:     make(map[string]*models.NodeExecutionResult),
		GlobalVariables: globals,
		Status:          models.ExecutionStatusPending,
	}

	return t
}

// Resume wraps an existing execution context, e.g. one loaded from the
// execution repository for inspection.
func Resume(ctx models.ExecutionContext) *Tracker {
	if ctx.NodeResults == nil {
		ctx.NodeResults = make(map[string]*models.NodeExecutionResult)
	}

	return &Tracker{ctx: ctx, now: time.Now}
}

// ID returns the execution identity.
func (t *Tracker) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ctx.ID
}

// Status returns the current lifecycle status.
func (t *Tracker) Status() models.ExecutionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ctx.Status
}

// Snapshot returns a copy of the execution context safe to serialize while
// the execution is still running.
func (t *Tracker) Snapshot() *models.ExecutionContext {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.ctx
	snapshot.ExecutionPath = append([]string(nil), t.ctx.ExecutionPath...)
	snapshot.NodeResults = make(map[string]*models.NodeExecutionResult, len(t.ctx.NodeResults))

	for id, r := range t.ctx.NodeResults {
		result := *r
		snapshot.NodeResults[id] = &result
	}

	return &snapshot
}

// DataContext returns the field lookup for wire condition evaluation.
func (t *Tracker) DataContext() map[string]models.Value {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ctx.DataContext()
}

// BeginNode records a node dispatch: pending moves to running on the first
// dispatch, the node is appended to the execution path and an in-flight
// result is inserted.
func (t *Tracker) BeginNode(nodeID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ctx.Status.CanTransitionTo(models.ExecutionStatusRunning) {
		return &InvalidTransitionError{
			ExecutionID: t.ctx.ID,
			From:        t.ctx.Status,
			To:          models.ExecutionStatusRunning,
		}
	}

	t.ctx.Status = models.ExecutionStatusRunning
	t.ctx.CurrentNodeID = nodeID
	t.ctx.ExecutionPath = append(t.ctx.ExecutionPath, nodeID)
	t.ctx.NodeResults[nodeID] = &models.NodeExecutionResult{
		NodeID:    nodeID,
		StartedAt: t.now().UTC(),
	}

	return nil
}

// FinishNode records a node outcome. A nil runErr marks success with the
// given outputs; otherwise the result is failed with the error message.
func (t *Tracker) FinishNode(nodeID string, outputs map[string]models.Value, runErr error) (*models.NodeExecutionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ctx.Status != models.ExecutionStatusRunning {
		return nil, &InvalidTransitionError{
			ExecutionID: t.ctx.ID,
			From:        t.ctx.Status,
			To:          models.ExecutionStatusRunning,
		}
	}

	result, ok := t.ctx.NodeResults[nodeID]
	if !ok {
		return nil, fmt.Errorf("execution %s: node %s finished without a dispatch record", t.ctx.ID, nodeID)
	}

	completed := t.now().UTC()
	result.CompletedAt = &completed
	result.ElapsedMs = completed.Sub(result.StartedAt).Milliseconds()

	if runErr != nil {
		result.Success = false
		result.ErrorMessage = runErr.Error()
	} else {
		result.Success = true
		result.Outputs = outputs
	}

	if t.ctx.CurrentNodeID == nodeID {
		t.ctx.CurrentNodeID = ""
	}

	snapshot := *result

	return &snapshot, nil
}

// Complete moves a running execution to completed.
func (t *Tracker) Complete() error {
	return t.finish(models.ExecutionStatusCompleted)
}

// Fail moves a running execution to failed.
func (t *Tracker) Fail() error {
	return t.finish(models.ExecutionStatusFailed)
}

func (t *Tracker) finish(status models.ExecutionStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ctx.Status.CanTransitionTo(status) {
		return &InvalidTransitionError{
			ExecutionID: t.ctx.ID,
			From:        t.ctx.Status,
			To:          status,
		}
	}

	t.ctx.Status = status
	t.ctx.CurrentNodeID = ""

	return nil
}

// Cancel moves a non-terminal execution to cancelled and marks the
// in-flight node result, if any, as incomplete rather than dropping it.
// Cancelling an already-cancelled execution is a no-op; cancelling a
// completed or failed one is an InvalidTransitionError.
func (t *Tracker) Cancel() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ctx.Status == models.ExecutionStatusCancelled {
		return nil
	}

	if !t.ctx.Status.CanTransitionTo(models.ExecutionStatusCancelled) {
		return &InvalidTransitionError{
			ExecutionID: t.ctx.ID,
			From:        t.ctx.Status,
			To:          models.ExecutionStatusCancelled,
		}
	}

	if t.ctx.CurrentNodeID != "" {
		if result, ok := t.ctx.NodeResults[t.ctx.CurrentNodeID]; ok && result.CompletedAt == nil {
			completed := t.now().UTC()
			result.CompletedAt = &completed
			result.Success = false
			result.ErrorMessage = "execution cancelled while node was in flight"
			result.ElapsedMs = completed.Sub(result.StartedAt).Milliseconds()
		}
	}

	t.ctx.Status = models.ExecutionStatusCancelled
	t.ctx.CurrentNodeID = ""

	return nil
}

func generateExecutionID() string {
	return "exec-" + uuid.New().String()[:8]
}
