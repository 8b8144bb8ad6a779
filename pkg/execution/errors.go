// Package execution provides the execution-state tracker and the canvas
// traversal engine.
package execution

import (
	"errors"
	"fmt"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

// ErrInvalidTransition is the category for illegal state machine moves.
var ErrInvalidTransition = errors.New("invalid execution state transition")

// InvalidTransitionError reports an illegal execution-state transition.
// This is a programmer error and fatal to the current execution.
type InvalidTransitionError struct {
	ExecutionID string
	From        models.ExecutionStatus
	To          models.ExecutionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("execution %s: illegal transition %s -> %s", e.ExecutionID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ErrCyclicGraph is the category for canvases with no topological order.
var ErrCyclicGraph = errors.New("cyclic graph")

// CyclicGraphError reports that traversal found no topological order. The
// listed nodes participate in (or depend on) a cycle.
type CyclicGraphError struct {
	CanvasID string
	NodeIDs  []string
}

func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("canvas %s: no topological order, cycle involves nodes %v", e.CanvasID, e.NodeIDs)
}

func (e *CyclicGraphError) Unwrap() error {
	return ErrCyclicGraph
}

// IsCyclicGraphError reports whether err is a cycle detection failure.
func IsCyclicGraphError(err error) bool {
	return errors.Is(err, ErrCyclicGraph)
}

// IsInvalidTransition reports whether err is an illegal state transition.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
