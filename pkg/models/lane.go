package models

import "encoding/json"

// LaneType determines which configuration variant a lane carries.
type LaneType string

const (
	LaneTypeRules       LaneType = "rules"
	LaneTypeLLM         LaneType = "llm"
	LaneTypePassthrough LaneType = "passthrough"
	LaneTypeDatabase    LaneType = "database"
)

// ParseLaneType maps a serialized lane type to its enum value. Unknown or
// absent values default to rules.
func ParseLaneType(s string) LaneType {
	switch LaneType(s) {
	case LaneTypeRules, LaneTypeLLM, LaneTypePassthrough, LaneTypeDatabase:
		return LaneType(s)
	default:
		return LaneTypeRules
	}
}

// LaneRole describes a lane's function within the pipeline.
type LaneRole string

const (
	LaneRoleExecutor     LaneRole = "executor"
	LaneRoleOrchestrator LaneRole = "orchestrator"
	LaneRoleRouter       LaneRole = "router"
	LaneRoleReasoning    LaneRole = "reasoning"
	LaneRoleLogger       LaneRole = "logger"
)

// ParseLaneRole maps a serialized lane role to its enum value, defaulting
// to executor.
func ParseLaneRole(s string) LaneRole {
	switch LaneRole(s) {
	case LaneRoleExecutor, LaneRoleOrchestrator, LaneRoleRouter, LaneRoleReasoning, LaneRoleLogger:
		return LaneRole(s)
	default:
		return LaneRoleExecutor
	}
}

// Lane is an ordered, typed swimlane of node references. Nodes are listed
// by ID only; the authoritative Node objects live in the canvas node index.
type Lane struct {
	ID        string     `json:"id"    validate:"required"`
	Name      string     `json:"name"  validate:"required,min=1"`
	Icon      string     `json:"icon"`
	Color     string     `json:"color"`
	Position  int        `json:"position"`
	Height    float64    `json:"height"`
	Enabled   bool       `json:"enabled"`
	Collapsed bool       `json:"collapsed"`
	Type      LaneType   `json:"type"`
	Role      LaneRole   `json:"role"`
	NodeIDs   []string   `json:"node_ids"`
	Config    LaneConfig `json:"-"`
}

// laneJSON is the wire form: the config is flattened under "config" with
// the lane type as discriminator.
type laneJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon,omitempty"`
	Color     string          `json:"color,omitempty"`
	Position  int             `json:"position"`
	Height    float64         `json:"height,omitempty"`
	Enabled   bool            `json:"enabled"`
	Collapsed bool            `json:"collapsed"`
	Type      string          `json:"type"`
	Role      string          `json:"role"`
	NodeIDs   []string        `json:"node_ids"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l *Lane) MarshalJSON() ([]byte, error) {
	var (
		config json.RawMessage
		err    error
	)

	if l.Config != nil {
		config, err = json.Marshal(l.Config)
		if err != nil {
			return nil, err
		}
	}

	return json.Marshal(laneJSON{
		ID:        l.ID,
		Name:      l.Name,
		Icon:      l.Icon,
		Color:     l.Color,
		Position:  l.Position,
		Height:    l.Height,
		Enabled:   l.Enabled,
		Collapsed: l.Collapsed,
		Type:      string(l.Type),
		Role:      string(l.Role),
		NodeIDs:   l.NodeIDs,
		Config:    config,
	})
}

// UnmarshalJSON decodes the config variant selected by the lane type and
// applies enum defaulting.
func (l *Lane) UnmarshalJSON(data []byte) error {
	var raw laneJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	laneType := ParseLaneType(raw.Type)

	config, err := decodeLaneConfig(laneType, raw.Config)
	if err != nil {
		return err
	}

	*l = Lane{
		ID:        raw.ID,
		Name:      raw.Name,
		Icon:      raw.Icon,
		Color:     raw.Color,
		Position:  raw.Position,
		Height:    raw.Height,
		Enabled:   raw.Enabled,
		Collapsed: raw.Collapsed,
		Type:      laneType,
		Role:      ParseLaneRole(raw.Role),
		NodeIDs:   raw.NodeIDs,
		Config:    config,
	}

	return nil
}

// ContainsNode reports whether the lane lists the given node ID.
func (l *Lane) ContainsNode(nodeID string) bool {
	for _, id := range l.NodeIDs {
		if id == nodeID {
			return true
		}
	}

	return false
}

// Clone returns a deep copy for copy-on-write updates.
func (l *Lane) Clone() *Lane {
	if l == nil {
		return nil
	}

	clone := *l

	if l.NodeIDs != nil {
		clone.NodeIDs = append([]string(nil), l.NodeIDs...)
	}

	return &clone
}
