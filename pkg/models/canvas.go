package models

import "time"

// CanvasSettings holds viewport and editor preferences.
type CanvasSettings struct {
	Zoom        float64 `json:"zoom"`
	PanX        float64 `json:"pan_x"`
	PanY        float64 `json:"pan_y"`
	GridSize    int     `json:"grid_size,omitempty"`
	SnapToGrid  bool    `json:"snap_to_grid"`
	Theme       string  `json:"theme,omitempty"`
	ShowMinimap bool    `json:"show_minimap"`
}

// CanvasMetadata carries versioning and audit fields.
type CanvasMetadata struct {
	Version          string     `json:"version"` // Semantic version of the canvas document
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CreatedBy        string     `json:"created_by,omitempty"`
	Published        bool       `json:"published"`
	PublishedVersion string     `json:"published_version,omitempty"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

// Canvas is the aggregate root of a pipeline graph: lanes grouping node
// references, the node index itself, and the wires connecting node ports.
//
// Nodes are stored once in the Nodes index; lanes reference them by ID so
// integrity validation is a pure function over IDs.
type Canvas struct {
	ID          string           `json:"id"   validate:"required"`
	Name        string           `json:"name" validate:"required,min=3"`
	Description string           `json:"description"`
	Settings    CanvasSettings   `json:"settings"`
	Lanes       []*Lane          `json:"lanes"`
	Nodes       map[string]*Node `json:"nodes"`
	Wires       []*Wire          `json:"wires"`
	Metadata    CanvasMetadata   `json:"metadata"`
}

// Node resolves a node by ID.
func (c *Canvas) Node(nodeID string) (*Node, bool) {
	n, ok := c.Nodes[nodeID]

	return n, ok
}

// Lane resolves a lane by ID.
func (c *Canvas) Lane(laneID string) (*Lane, bool) {
	for _, l := range c.Lanes {
		if l.ID == laneID {
			return l, true
		}
	}

	return nil, false
}

// LaneOf returns the lane listing the given node, if any. A node belongs to
// exactly one lane in a valid canvas.
func (c *Canvas) LaneOf(nodeID string) (*Lane, bool) {
	for _, l := range c.Lanes {
		if l.ContainsNode(nodeID) {
			return l, true
		}
	}

	return nil, false
}

// Wire resolves a wire by ID.
func (c *Canvas) Wire(wireID string) (*Wire, bool) {
	for _, w := range c.Wires {
		if w.ID == wireID {
			return w, true
		}
	}

	return nil, false
}

// WiresInto returns all wires terminating at the given node.
func (c *Canvas) WiresInto(nodeID string) []*Wire {
	var wires []*Wire

	for _, w := range c.Wires {
		if w.TargetNodeID == nodeID {
			wires = append(wires, w)
		}
	}

	return wires
}

// WiresOutOf returns all wires originating at the given node.
func (c *Canvas) WiresOutOf(nodeID string) []*Wire {
	var wires []*Wire

	for _, w := range c.Wires {
		if w.SourceNodeID == nodeID {
			wires = append(wires, w)
		}
	}

	return wires
}

// WiresTouching returns all wires with either endpoint on the given node.
func (c *Canvas) WiresTouching(nodeID string) []*Wire {
	var wires []*Wire

	for _, w := range c.Wires {
		if w.SourceNodeID == nodeID || w.TargetNodeID == nodeID {
			wires = append(wires, w)
		}
	}

	return wires
}

// Clone returns a deep copy. Authoring operations clone first and mutate
// the copy, leaving the original canvas untouched.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}

	clone := *c

	if c.Lanes != nil {
		clone.Lanes = make([]*Lane, len(c.Lanes))
		for i, l := range c.Lanes {
			clone.Lanes[i] = l.Clone()
		}
	}

	if c.Nodes != nil {
		clone.Nodes = make(map[string]*Node, len(c.Nodes))
		for id, n := range c.Nodes {
			clone.Nodes[id] = n.Clone()
		}
	}

	if c.Wires != nil {
		clone.Wires = make([]*Wire, len(c.Wires))
		for i, w := range c.Wires {
			clone.Wires[i] = w.Clone()
		}
	}

	return &clone
}
