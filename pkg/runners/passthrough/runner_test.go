package passthrough

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

func TestRunner_Run_EchoesInputs(t *testing.T) {
	node := &models.Node{
		ID: "echo",
		OutputPorts: []*models.Port{
			{ID: "echo_out_value", Key: "value", DataType: models.PortDataTypeAny},
		},
	}

	outputs, err := NewRunner().Run(context.Background(), node, map[string]models.Value{
		"value": models.StringValue("hello"),
	})
	require.NoError(t, err)
	assert.True(t, outputs["value"].Equal(models.StringValue("hello")))
}

func TestRunner_Run_FallsBackToPortDefault(t *testing.T) {
	node := &models.Node{
		ID: "echo",
		OutputPorts: []*models.Port{
			{ID: "echo_out_value", Key: "value", DataType: models.PortDataTypeNumber, DefaultValue: models.NumberValue(7)},
			{ID: "echo_out_label", Key: "label", DataType: models.PortDataTypeString},
		},
	}

	outputs, err := NewRunner().Run(context.Background(), node, nil)
	require.NoError(t, err)
	assert.True(t, outputs["value"].Equal(models.NumberValue(7)))
	assert.True(t, outputs["label"].IsNull())
}

func TestFactory_RunnerFor_SharesRunner(t *testing.T) {
	factory := NewFactory()

	a, err := factory.RunnerFor(&models.Node{ID: "a"})
	require.NoError(t, err)

	b, err := factory.RunnerFor(&models.Node{ID: "b"})
	require.NoError(t, err)

	assert.Same(t, a, b)
}
