// Package passthrough provides the default node runner: inputs are copied
// to the node's output ports unchanged.
package passthrough

import (
	"context"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/iamoneai/flowcanvas/pkg/protocol"
)

// Runner echoes each input value to the output port with the same key.
// Output ports without a matching input emit their default value.
type Runner struct{}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Run(_ context.Context, node *models.Node, inputs map[string]models.Value) (map[string]models.Value, error) {
	outputs := make(map[string]models.Value, len(node.OutputPorts))

	for _, port := range node.OutputPorts {
		if v, ok := inputs[port.Key]; ok {
			outputs[port.Key] = v

			continue
		}

		outputs[port.Key] = port.DefaultValue
	}

	return outputs, nil
}

// Factory resolves every node to the passthrough runner. Useful as a
// fallback and in tests.
type Factory struct {
	runner *Runner
}

func NewFactory() *Factory {
	return &Factory{runner: NewRunner()}
}

func (f *Factory) RunnerFor(_ *models.Node) (protocol.NodeRunner, error) {
	return f.runner, nil
}
