package registry

import "github.com/iamoneai/flowcanvas/pkg/models"

// RegisterBuiltins installs the node templates every deployment ships with.
func RegisterBuiltins(r *Registry) error {
	for _, template := range builtinTemplates() {
		if err := r.Register(template); err != nil {
			return err
		}
	}

	return nil
}

func builtinTemplates() []*models.NodeTemplate {
	return []*models.NodeTemplate{
		{
			ID:          "manual-input",
			Name:        "Manual Input",
			Description: "Emits a configured value into the pipeline",
			Icon:        "keyboard",
			Category:    models.NodeCategoryData,
			Outputs: []models.PortTemplate{
				{Key: "value", Label: "Value", DataType: models.PortDataTypeAny},
			},
			Properties: []models.PropertyDefinition{
				{Key: "value", Label: "Value", Type: models.PropertyTypeCode},
			},
			DefaultSize: models.NodeSize{Width: 180, Height: 80},
		},
		{
			ID:          "passthrough",
			Name:        "Passthrough",
			Description: "Forwards its input unchanged",
			Icon:        "arrow-right",
			Category:    models.NodeCategoryLogic,
			Inputs: []models.PortTemplate{
				{Key: "value", Label: "Value", DataType: models.PortDataTypeAny, Required: true},
			},
			Outputs: []models.PortTemplate{
				{Key: "value", Label: "Value", DataType: models.PortDataTypeAny},
			},
			DefaultSize: models.NodeSize{Width: 160, Height: 80},
		},
		{
			ID:          "text-normalizer",
			Name:        "Text Normalizer",
			Description: "Trims and lowercases incoming text",
			Icon:        "type",
			Category:    models.NodeCategoryLogic,
			Inputs: []models.PortTemplate{
				{Key: "text", Label: "Text", DataType: models.PortDataTypeString, Required: true},
			},
			Outputs: []models.PortTemplate{
				{Key: "normalized_text", Label: "Normalized Text", DataType: models.PortDataTypeString},
			},
			Properties: []models.PropertyDefinition{
				{Key: "lowercase", Label: "Lowercase", Type: models.PropertyTypeBoolean, DefaultValue: models.BoolValue(true)},
				{Key: "trim", Label: "Trim Whitespace", Type: models.PropertyTypeBoolean, DefaultValue: models.BoolValue(true)},
			},
			DefaultSize: models.NodeSize{Width: 200, Height: 100},
		},
		{
			ID:          "llm-completion",
			Name:        "LLM Completion",
			Description: "Sends a prompt to the lane's configured model",
			Icon:        "sparkles",
			Category:    models.NodeCategoryAI,
			Inputs: []models.PortTemplate{
				{Key: "prompt", Label: "Prompt", DataType: models.PortDataTypeString, Required: true},
			},
			Outputs: []models.PortTemplate{
				{Key: "completion", Label: "Completion", DataType: models.PortDataTypeString},
			},
			Properties: []models.PropertyDefinition{
				{Key: "model", Label: "Model", Type: models.PropertyTypeSelect, DefaultValue: models.StringValue("gpt-4o-mini"), Options: []string{"gpt-4o-mini", "gpt-4o", "claude-3-haiku"}},
				{Key: "temperature", Label: "Temperature", Type: models.PropertyTypeSlider, DefaultValue: models.NumberValue(0.7), Min: f(0), Max: f(2), Step: f(0.1)},
			},
			DefaultSize: models.NodeSize{Width: 220, Height: 120},
		},
		{
			ID:          "database-writer",
			Name:        "Database Writer",
			Description: "Persists the incoming document to a collection",
			Icon:        "database",
			Category:    models.NodeCategoryData,
			Inputs: []models.PortTemplate{
				{Key: "document", Label: "Document", DataType: models.PortDataTypeObject, Required: true},
			},
			Outputs: []models.PortTemplate{
				{Key: "document_id", Label: "Document ID", DataType: models.PortDataTypeString},
			},
			Properties: []models.PropertyDefinition{
				{Key: "collection", Label: "Collection", Type: models.PropertyTypeString, ValidationRegex: "^[a-z][a-z0-9_-]*$"},
			},
			DefaultSize: models.NodeSize{Width: 200, Height: 100},
		},
	}
}

func f(v float64) *float64 {
	return &v
}
