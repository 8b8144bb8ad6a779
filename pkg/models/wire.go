package models

// WireStyle describes how a wire is rendered.
type WireStyle string

const (
	WireStyleSolid  WireStyle = "solid"
	WireStyleDashed WireStyle = "dashed"
	WireStyleDotted WireStyle = "dotted"
)

// ConditionOperator is the comparison applied by a wire condition.
type ConditionOperator string

const (
	OperatorEq       ConditionOperator = "eq"
	OperatorNeq      ConditionOperator = "neq"
	OperatorGt       ConditionOperator = "gt"
	OperatorLt       ConditionOperator = "lt"
	OperatorGte      ConditionOperator = "gte"
	OperatorLte      ConditionOperator = "lte"
	OperatorContains ConditionOperator = "contains"
	OperatorMatches  ConditionOperator = "matches"
)

// WireCondition gates a wire on a field of the execution data context.
type WireCondition struct {
	Field    string            `json:"field"    validate:"required"`
	Operator ConditionOperator `json:"operator" validate:"required,oneof=eq neq gt lt gte lte contains matches"`
	Value    Value             `json:"value"`
}

// Wire is a directed edge from an output port to an input port. A wire with
// a condition is only live when the condition evaluates true against the
// current execution data; an unconditioned wire is always live.
type Wire struct {
	ID           string         `json:"id"             validate:"required"`
	SourceNodeID string         `json:"source_node_id" validate:"required"`
	SourcePortID string         `json:"source_port_id" validate:"required"`
	TargetNodeID string         `json:"target_node_id" validate:"required"`
	TargetPortID string         `json:"target_port_id" validate:"required"`
	Style        WireStyle      `json:"style,omitempty"`
	Animated     bool           `json:"animated,omitempty"`
	Condition    *WireCondition `json:"condition,omitempty"`
}

// Clone returns a deep copy for copy-on-write updates.
func (w *Wire) Clone() *Wire {
	if w == nil {
		return nil
	}

	clone := *w

	if w.Condition != nil {
		cond := *w.Condition
		clone.Condition = &cond
	}

	return &clone
}
