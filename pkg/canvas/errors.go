// Package canvas provides copy-on-write authoring operations and integrity
// validation for pipeline canvases.
package canvas

import (
	"errors"
	"fmt"
	"strings"
)

// Integrity violation categories.
var (
	ErrDanglingReference     = errors.New("dangling reference")
	ErrDirectionMismatch     = errors.New("port direction mismatch")
	ErrMultiplicityViolation = errors.New("port multiplicity violation")
	ErrDuplicateElement      = errors.New("duplicate element")
	ErrElementNotFound       = errors.New("element not found")
	ErrWiresAttached         = errors.New("wires still attached")
)

// GraphIntegrityError reports an authoring-time violation with enough
// element IDs to locate the offender in a large graph.
type GraphIntegrityError struct {
	Op      string // Operation that failed (e.g. "AddWire")
	Message string
	Err     error // Violation category

	LaneID string
	NodeID string
	PortID string
	WireID string
}

func (e *GraphIntegrityError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s", e.Op, e.Message)

	if e.LaneID != "" {
		fmt.Fprintf(&sb, " (lane %s)", e.LaneID)
	}

	if e.NodeID != "" {
		fmt.Fprintf(&sb, " (node %s)", e.NodeID)
	}

	if e.PortID != "" {
		fmt.Fprintf(&sb, " (port %s)", e.PortID)
	}

	if e.WireID != "" {
		fmt.Fprintf(&sb, " (wire %s)", e.WireID)
	}

	return sb.String()
}

func (e *GraphIntegrityError) Unwrap() error {
	return e.Err
}

// IsGraphIntegrityError reports whether err is an authoring-time integrity
// violation of any category.
func IsGraphIntegrityError(err error) bool {
	var target *GraphIntegrityError

	return errors.As(err, &target)
}
