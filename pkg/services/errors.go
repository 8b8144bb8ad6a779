// Package services provides the application service layer over the canvas
// model and its persistence.
package services

import (
	"errors"
	"fmt"

	"github.com/iamoneai/flowcanvas/pkg/canvas"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrCanvasNil             = errors.New("canvas cannot be nil")
	ErrCanvasNameRequired    = errors.New("canvas name is required")
	ErrLanesRequired         = errors.New("canvas must have at least one lane")
	ErrCannotModifyPublished = errors.New("cannot modify published canvas")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrCanvasNil) ||
		errors.Is(err, ErrCanvasNameRequired) ||
		errors.Is(err, ErrLanesRequired) ||
		canvas.IsGraphIntegrityError(err)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrCannotModifyPublished)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
