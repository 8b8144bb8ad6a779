// Package models defines the template registry schema nodes are stamped from.
package models

import "encoding/json"

// PropertyType tags a PropertyDefinition for the form renderer.
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeSelect  PropertyType = "select"
	PropertyTypeSlider  PropertyType = "slider"
	PropertyTypeColor   PropertyType = "color"
	PropertyTypeCode    PropertyType = "code"
)

// PropertyDefinition is the schema for one configurable node property.
// The validation metadata (options, min/max/step, regex) is consumed by
// form renderers and by the registry's schema validation; the model itself
// does not enforce it.
type PropertyDefinition struct {
	Key             string       `json:"key"  validate:"required"`
	Label           string       `json:"label"`
	Type            PropertyType `json:"type" validate:"required"`
	DefaultValue    Value        `json:"default_value,omitempty"`
	Options         []string     `json:"options,omitempty"`
	Min             *float64     `json:"min,omitempty"`
	Max             *float64     `json:"max,omitempty"`
	Step            *float64     `json:"step,omitempty"`
	ValidationRegex string       `json:"validation_regex,omitempty"`
	Description     string       `json:"description,omitempty"`
}

// PortTemplate declares a port on a NodeTemplate. Direction comes from list
// membership (Inputs vs Outputs), not from the template itself.
type PortTemplate struct {
	Key           string       `json:"key" validate:"required"`
	Label         string       `json:"label"`
	DataType      PortDataType `json:"data_type"`
	Required      bool         `json:"required"`
	DefaultValue  Value        `json:"default_value,omitempty"`
	AllowMultiple bool         `json:"allow_multiple"`
}

// UnmarshalJSON applies the port data type default.
func (pt *PortTemplate) UnmarshalJSON(data []byte) error {
	type alias PortTemplate

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw.DataType = ParsePortDataType(string(raw.DataType))
	*pt = PortTemplate(raw)

	return nil
}

// NodeTemplate is the reusable schema a Node is created from.
type NodeTemplate struct {
	ID          string               `json:"id"   validate:"required"`
	Name        string               `json:"name" validate:"required,min=1"`
	Description string               `json:"description"`
	Icon        string               `json:"icon,omitempty"`
	Category    NodeCategory         `json:"category"`
	Inputs      []PortTemplate       `json:"inputs"`
	Outputs     []PortTemplate       `json:"outputs"`
	Properties  []PropertyDefinition `json:"properties"`
	DefaultSize NodeSize             `json:"default_size"`
}

// CreateNode stamps a new Node from the template. The function is pure and
// deterministic: the same template and node ID always produce a structurally
// identical node. Port IDs compose as "{nodeID}_in_{key}" / "{nodeID}_out_{key}"
// and properties are seeded from definition defaults; when two definitions
// share a key the last one wins.
func (t *NodeTemplate) CreateNode(nodeID string, position NodePosition) *Node {
	inputs := make([]*Port, 0, len(t.Inputs))
	for _, pt := range t.Inputs {
		inputs = append(inputs, pt.instantiate(nodeID, PortDirectionInput))
	}

	outputs := make([]*Port, 0, len(t.Outputs))
	for _, pt := range t.Outputs {
		outputs = append(outputs, pt.instantiate(nodeID, PortDirectionOutput))
	}

	properties := make(map[string]Value, len(t.Properties))
	for _, def := range t.Properties {
		properties[def.Key] = def.DefaultValue
	}

	return &Node{
		ID:          nodeID,
		TemplateID:  t.ID,
		Name:        t.Name,
		Description: t.Description,
		Icon:        t.Icon,
		Category:    ParseNodeCategory(string(t.Category)),
		Position:    position,
		Size:        t.DefaultSize,
		Enabled:     true,
		InputPorts:  inputs,
		OutputPorts: outputs,
		Properties:  properties,
	}
}

func (pt PortTemplate) instantiate(nodeID string, direction PortDirection) *Port {
	return &Port{
		ID:            MakePortID(nodeID, direction, pt.Key),
		Key:           pt.Key,
		Label:         pt.Label,
		Direction:     direction,
		DataType:      ParsePortDataType(string(pt.DataType)),
		Required:      pt.Required,
		DefaultValue:  pt.DefaultValue,
		AllowMultiple: pt.AllowMultiple,
	}
}
