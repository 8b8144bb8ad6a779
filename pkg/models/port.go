// Package models defines port models for node connection points.
package models

import (
	"encoding/json"
	"strings"
)

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// PortDataType constrains the data flowing through a port.
type PortDataType string

const (
	PortDataTypeString  PortDataType = "string"
	PortDataTypeNumber  PortDataType = "number"
	PortDataTypeBoolean PortDataType = "boolean"
	PortDataTypeArray   PortDataType = "array"
	PortDataTypeObject  PortDataType = "object"
	PortDataTypeAny     PortDataType = "any"
)

// ParsePortDataType maps a serialized data type to its enum value. Unknown
// strings fall back to "any" so old documents keep loading.
func ParsePortDataType(s string) PortDataType {
	switch PortDataType(s) {
	case PortDataTypeString, PortDataTypeNumber, PortDataTypeBoolean,
		PortDataTypeArray, PortDataTypeObject, PortDataTypeAny:
		return PortDataType(s)
	default:
		return PortDataTypeAny
	}
}

// Port represents a typed connection point on a node.
type Port struct {
	ID            string        `json:"id"            validate:"required"`
	Key           string        `json:"key"           validate:"required"` // Stable field name addressing data on the port
	Label         string        `json:"label"`
	Direction     PortDirection `json:"direction"     validate:"required,oneof=input output"`
	DataType      PortDataType  `json:"data_type"`
	Required      bool          `json:"required"`
	DefaultValue  Value         `json:"default_value,omitempty"`
	AllowMultiple bool          `json:"allow_multiple"` // Whether more than one wire may attach
}

// UnmarshalJSON applies the documented defaulting rules: absent or unknown
// data types become "any".
func (p *Port) UnmarshalJSON(data []byte) error {
	type alias Port

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw.DataType = ParsePortDataType(string(raw.DataType))
	*p = Port(raw)

	return nil
}

const (
	portInputSegment  = "_in_"
	portOutputSegment = "_out_"
)

// MakePortID composes the stable port identity used across the graph:
// "{nodeID}_in_{key}" or "{nodeID}_out_{key}".
func MakePortID(nodeID string, direction PortDirection, key string) string {
	if direction == PortDirectionOutput {
		return nodeID + portOutputSegment + key
	}

	return nodeID + portInputSegment + key
}

// ParsePortID splits a port ID back into node ID, direction and key. The
// node ID may itself contain underscores, so the first direction segment
// wins.
func ParsePortID(portID string) (nodeID string, direction PortDirection, key string, ok bool) {
	in := strings.Index(portID, portInputSegment)
	out := strings.Index(portID, portOutputSegment)

	switch {
	case in >= 0 && (out < 0 || in < out):
		return portID[:in], PortDirectionInput, portID[in+len(portInputSegment):], true
	case out >= 0:
		return portID[:out], PortDirectionOutput, portID[out+len(portOutputSegment):], true
	default:
		return "", "", "", false
	}
}
