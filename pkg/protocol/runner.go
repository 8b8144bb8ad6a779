// Package protocol defines the interfaces between the traversal engine and
// external node implementations.
package protocol

import (
	"context"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

// NodeRunner executes the business logic of one node. Implementations live
// outside the graph model; the engine only routes data to them and records
// their results.
//
// Run receives the node being executed and its resolved inputs (keyed by
// input port key) and returns outputs keyed by the node's output port keys.
// Runners must honor ctx cancellation: the engine cancels it on execution
// cancellation and on per-node timeout.
type NodeRunner interface {
	Run(ctx context.Context, node *models.Node, inputs map[string]models.Value) (map[string]models.Value, error)
}

// RunnerFactory resolves the runner for a node, typically by template ID.
type RunnerFactory interface {
	RunnerFor(node *models.Node) (NodeRunner, error)
}

// RunnerFunc adapts a function to the NodeRunner interface.
type RunnerFunc func(ctx context.Context, node *models.Node, inputs map[string]models.Value) (map[string]models.Value, error)

func (f RunnerFunc) Run(ctx context.Context, node *models.Node, inputs map[string]models.Value) (map[string]models.Value, error) {
	return f(ctx, node, inputs)
}
