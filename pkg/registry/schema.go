package registry

import (
	"fmt"

	"github.com/iamoneai/flowcanvas/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// PropertySchema derives a JSON Schema from a template's property
// definitions. The schema mirrors what the form renderer enforces:
// primitive types, select options as enums, numeric bounds and string
// patterns.
func PropertySchema(template *models.NodeTemplate) map[string]any {
	properties := make(map[string]any, len(template.Properties))

	for _, def := range template.Properties {
		properties[def.Key] = propertyToSchema(def)
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func propertyToSchema(def models.PropertyDefinition) map[string]any {
	schema := make(map[string]any)

	switch def.Type {
	case models.PropertyTypeNumber, models.PropertyTypeSlider:
		schema["type"] = "number"

		if def.Min != nil {
			schema["minimum"] = *def.Min
		}

		if def.Max != nil {
			schema["maximum"] = *def.Max
		}

		if def.Step != nil {
			schema["multipleOf"] = *def.Step
		}
	case models.PropertyTypeBoolean:
		schema["type"] = "boolean"
	case models.PropertyTypeSelect:
		schema["type"] = "string"

		if len(def.Options) > 0 {
			options := make([]any, len(def.Options))
			for i, o := range def.Options {
				options[i] = o
			}

			schema["enum"] = options
		}
	case models.PropertyTypeString, models.PropertyTypeColor, models.PropertyTypeCode:
		schema["type"] = "string"

		if def.ValidationRegex != "" {
			schema["pattern"] = def.ValidationRegex
		}
	default:
		schema["type"] = "string"
	}

	if def.Description != "" {
		schema["description"] = def.Description
	}

	return schema
}

// ValidateProperties checks a node's configured properties against the
// schema derived from its template. Used at the API boundary before a node
// is saved; the model itself never enforces property schemas.
func (r *Registry) ValidateProperties(node *models.Node) error {
	template, err := r.Template(node.TemplateID)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewGoLoader(PropertySchema(template))

	document := make(map[string]any, len(node.Properties))

	for k, v := range node.Properties {
		// A null property is unset; the form renderer treats it as absent.
		if v.IsNull() {
			continue
		}

		document[k] = v.ToAny()
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate properties for node %s: %w", node.ID, err)
	}

	if !result.Valid() {
		message := "invalid properties for node " + node.ID + ":"
		for _, desc := range result.Errors() {
			message += " " + desc.String() + ";"
		}

		return fmt.Errorf("%s", message)
	}

	return nil
}
