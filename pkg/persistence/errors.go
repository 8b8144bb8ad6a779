package persistence

import "errors"

var (
	// ErrCanvasNotFound is returned when a canvas does not exist.
	ErrCanvasNotFound = errors.New("canvas not found")

	// ErrExecutionNotFound is returned when an execution context does not exist.
	ErrExecutionNotFound = errors.New("execution not found")
)

// IsCanvasNotFound reports whether err indicates a missing canvas.
func IsCanvasNotFound(err error) bool {
	return errors.Is(err, ErrCanvasNotFound)
}

// IsExecutionNotFound reports whether err indicates a missing execution.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}
