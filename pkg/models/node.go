package models

import "encoding/json"

// NodeCategory represents the category of a node.
type NodeCategory string

const (
	NodeCategoryLogic  NodeCategory = "logic"
	NodeCategoryAI     NodeCategory = "ai"
	NodeCategoryRouter NodeCategory = "router"
	NodeCategoryData   NodeCategory = "data"
	NodeCategoryCustom NodeCategory = "custom"
)

// ParseNodeCategory maps a serialized category to its enum value, falling
// back to "custom" for unknown strings.
func ParseNodeCategory(s string) NodeCategory {
	switch NodeCategory(s) {
	case NodeCategoryLogic, NodeCategoryAI, NodeCategoryRouter, NodeCategoryData, NodeCategoryCustom:
		return NodeCategory(s)
	default:
		return NodeCategoryCustom
	}
}

// NodePosition is a node's location on the canvas.
type NodePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeSize is a node's rendered dimensions.
type NodeSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeState caches the most recent execution outcome for visual feedback.
// It mirrors the last NodeExecutionResult and is not authoritative history.
type NodeState struct {
	IsRunning       bool   `json:"is_running"`
	HasError        bool   `json:"has_error"`
	IsComplete      bool   `json:"is_complete"`
	ErrorMessage    string `json:"error_message,omitempty"`
	ExecutionTimeMs int64  `json:"execution_time_ms,omitempty"`
	LastOutput      *Value `json:"last_output,omitempty"`
}

// Node is a processing unit instantiated from a NodeTemplate. The template
// is referenced by ID and resolved against an external registry, never
// embedded.
type Node struct {
	ID          string           `json:"id"          validate:"required"`
	TemplateID  string           `json:"template_id" validate:"required"`
	Name        string           `json:"name"        validate:"required,min=1"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Category    NodeCategory     `json:"category"`
	Position    NodePosition     `json:"position"`
	Size        NodeSize         `json:"size"`
	Enabled     bool             `json:"enabled"`
	Locked      bool             `json:"locked"`
	InputPorts  []*Port          `json:"input_ports"`
	OutputPorts []*Port          `json:"output_ports"`
	Properties  map[string]Value `json:"properties"`
	State       NodeState        `json:"state"`
}

// UnmarshalJSON normalizes the category enum on load.
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias Node

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw.Category = ParseNodeCategory(string(raw.Category))
	*n = Node(raw)

	return nil
}

// FindPort looks up a port by ID across both directions.
func (n *Node) FindPort(portID string) (*Port, bool) {
	for _, p := range n.InputPorts {
		if p.ID == portID {
			return p, true
		}
	}

	for _, p := range n.OutputPorts {
		if p.ID == portID {
			return p, true
		}
	}

	return nil, false
}

// OutputPortByKey resolves an output port by its key.
func (n *Node) OutputPortByKey(key string) (*Port, bool) {
	for _, p := range n.OutputPorts {
		if p.Key == key {
			return p, true
		}
	}

	return nil, false
}

// Clone returns a deep copy so copy-on-write canvas updates never alias
// port slices or property maps.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	clone := *n
	clone.InputPorts = clonePorts(n.InputPorts)
	clone.OutputPorts = clonePorts(n.OutputPorts)

	if n.Properties != nil {
		clone.Properties = make(map[string]Value, len(n.Properties))
		for k, v := range n.Properties {
			clone.Properties[k] = v
		}
	}

	return &clone
}

func clonePorts(ports []*Port) []*Port {
	if ports == nil {
		return nil
	}

	out := make([]*Port, len(ports))

	for i, p := range ports {
		cp := *p
		out[i] = &cp
	}

	return out
}
