package canvas

import (
	"time"

	"github.com/iamoneai/flowcanvas/pkg/models"
)

// WirePolicy selects what happens to wires attached to a removed node or
// crossing a removed lane's boundary.
type WirePolicy string

const (
	// WirePolicyReject refuses node/lane removal while wires attach.
	WirePolicyReject WirePolicy = "reject"
	// WirePolicyDetach cascade-deletes attached wires on removal.
	WirePolicyDetach WirePolicy = "detach"
)

// Editor applies authoring operations to canvases. Every operation returns
// a new canvas (copy-on-write) and leaves its input untouched; on failure
// the returned canvas is nil and the input is still valid.
//
// The editor is stateless. Mutations against one canvas must be serialized
// by the caller (single-writer discipline), since each operation validates
// against the graph state it was given.
type Editor struct {
	wirePolicy WirePolicy
	now        func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithWirePolicy selects the removal cascade policy.
func WithWirePolicy(policy WirePolicy) Option {
	return func(e *Editor) {
		e.wirePolicy = policy
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// NewEditor creates an editor. The default wire policy is reject.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		wirePolicy: WirePolicyReject,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// AddLane appends a lane to the canvas.
func (e *Editor) AddLane(c *models.Canvas, lane *models.Lane) (*models.Canvas, error) {
	if lane == nil || lane.ID == "" {
		return nil, &GraphIntegrityError{
			Op:      "AddLane",
			Message: "lane must have an ID",
			Err:     ErrElementNotFound,
		}
	}

	if _, exists := c.Lane(lane.ID); exists {
		return nil, &GraphIntegrityError{
			Op:      "AddLane",
			Message: "lane ID already exists",
			Err:     ErrDuplicateElement,
			LaneID:  lane.ID,
		}
	}

	if len(lane.NodeIDs) > 0 {
		return nil, &GraphIntegrityError{
			Op:      "AddLane",
			Message: "new lanes must be empty; add nodes through AddNode",
			Err:     ErrDuplicateElement,
			LaneID:  lane.ID,
			NodeID:  lane.NodeIDs[0],
		}
	}

	updated := c.Clone()
	added := lane.Clone()

	if added.Config == nil {
		added.Config = models.DefaultLaneConfig(added.Type)
	}

	updated.Lanes = append(updated.Lanes, added)
	e.touch(updated)

	return updated, nil
}

// RemoveLane removes a lane and its member nodes. Wires touching member
// nodes are handled per the configured wire policy.
func (e *Editor) RemoveLane(c *models.Canvas, laneID string) (*models.Canvas, error) {
	lane, ok := c.Lane(laneID)
	if !ok {
		return nil, &GraphIntegrityError{
			Op:      "RemoveLane",
			Message: "lane not found",
			Err:     ErrElementNotFound,
			LaneID:  laneID,
		}
	}

	for _, nodeID := range lane.NodeIDs {
		if wires := c.WiresTouching(nodeID); len(wires) > 0 && e.wirePolicy == WirePolicyReject {
			return nil, &GraphIntegrityError{
				Op:      "RemoveLane",
				Message: "lane member still referenced by wires; detach them first",
				Err:     ErrWiresAttached,
				LaneID:  laneID,
				NodeID:  nodeID,
				WireID:  wires[0].ID,
			}
		}
	}

	updated := c.Clone()

	removed := make(map[string]bool, len(lane.NodeIDs))
	for _, nodeID := range lane.NodeIDs {
		removed[nodeID] = true

		delete(updated.Nodes, nodeID)
	}

	updated.Wires = filterWires(updated.Wires, func(w *models.Wire) bool {
		return !removed[w.SourceNodeID] && !removed[w.TargetNodeID]
	})

	lanes := make([]*models.Lane, 0, len(updated.Lanes)-1)

	for _, l := range updated.Lanes {
		if l.ID != laneID {
			lanes = append(lanes, l)
		}
	}

	updated.Lanes = lanes
	e.touch(updated)

	return updated, nil
}

// AddNode places a node into a lane and the canvas node index. A node
// belongs to exactly one lane.
func (e *Editor) AddNode(c *models.Canvas, laneID string, node *models.Node) (*models.Canvas, error) {
	if node == nil || node.ID == "" {
		return nil, &GraphIntegrityError{
			Op:      "AddNode",
			Message: "node must have an ID",
			Err:     ErrElementNotFound,
			LaneID:  laneID,
		}
	}

	if _, ok := c.Lane(laneID); !ok {
		return nil, &GraphIntegrityError{
			Op:      "AddNode",
			Message: "lane not found",
			Err:     ErrElementNotFound,
			LaneID:  laneID,
			NodeID:  node.ID,
		}
	}

	if _, exists := c.Nodes[node.ID]; exists {
		return nil, &GraphIntegrityError{
			Op:      "AddNode",
			Message: "node ID already exists in the canvas",
			Err:     ErrDuplicateElement,
			NodeID:  node.ID,
		}
	}

	if owner, ok := c.LaneOf(node.ID); ok {
		return nil, &GraphIntegrityError{
			Op:      "AddNode",
			Message: "node ID already listed by another lane",
			Err:     ErrDuplicateElement,
			LaneID:  owner.ID,
			NodeID:  node.ID,
		}
	}

	updated := c.Clone()

	if updated.Nodes == nil {
		updated.Nodes = make(map[string]*models.Node)
	}

	updated.Nodes[node.ID] = node.Clone()

	lane, _ := updated.Lane(laneID)
	lane.NodeIDs = append(lane.NodeIDs, node.ID)
	e.touch(updated)

	return updated, nil
}

// RemoveNode removes a node from its lane and the node index. Attached
// wires are handled per the configured wire policy.
func (e *Editor) RemoveNode(c *models.Canvas, nodeID string) (*models.Canvas, error) {
	if _, ok := c.Node(nodeID); !ok {
		return nil, &GraphIntegrityError{
			Op:      "RemoveNode",
			Message: "node not found",
			Err:     ErrElementNotFound,
			NodeID:  nodeID,
		}
	}

	if wires := c.WiresTouching(nodeID); len(wires) > 0 && e.wirePolicy == WirePolicyReject {
		return nil, &GraphIntegrityError{
			Op:      "RemoveNode",
			Message: "node still referenced by wires; detach them first",
			Err:     ErrWiresAttached,
			NodeID:  nodeID,
			WireID:  wires[0].ID,
		}
	}

	updated := c.Clone()
	delete(updated.Nodes, nodeID)

	updated.Wires = filterWires(updated.Wires, func(w *models.Wire) bool {
		return w.SourceNodeID != nodeID && w.TargetNodeID != nodeID
	})

	for _, lane := range updated.Lanes {
		lane.NodeIDs = filterIDs(lane.NodeIDs, nodeID)
	}

	e.touch(updated)

	return updated, nil
}

// AddWire connects an output port to an input port after checking endpoint
// existence, direction and target multiplicity.
func (e *Editor) AddWire(c *models.Canvas, wire *models.Wire) (*models.Canvas, error) {
	if wire == nil || wire.ID == "" {
		return nil, &GraphIntegrityError{
			Op:      "AddWire",
			Message: "wire must have an ID",
			Err:     ErrElementNotFound,
		}
	}

	if _, exists := c.Wire(wire.ID); exists {
		return nil, &GraphIntegrityError{
			Op:      "AddWire",
			Message: "wire ID already exists",
			Err:     ErrDuplicateElement,
			WireID:  wire.ID,
		}
	}

	if err := checkWire(c, wire, "AddWire"); err != nil {
		return nil, err
	}

	updated := c.Clone()
	updated.Wires = append(updated.Wires, wire.Clone())
	e.touch(updated)

	return updated, nil
}

// RemoveWire deletes a wire by ID.
func (e *Editor) RemoveWire(c *models.Canvas, wireID string) (*models.Canvas, error) {
	if _, ok := c.Wire(wireID); !ok {
		return nil, &GraphIntegrityError{
			Op:      "RemoveWire",
			Message: "wire not found",
			Err:     ErrElementNotFound,
			WireID:  wireID,
		}
	}

	updated := c.Clone()
	updated.Wires = filterWires(updated.Wires, func(w *models.Wire) bool {
		return w.ID != wireID
	})
	e.touch(updated)

	return updated, nil
}

func (e *Editor) touch(c *models.Canvas) {
	c.Metadata.UpdatedAt = e.now().UTC()
}

func filterWires(wires []*models.Wire, keep func(*models.Wire) bool) []*models.Wire {
	out := wires[:0:0]

	for _, w := range wires {
		if keep(w) {
			out = append(out, w)
		}
	}

	return out
}

func filterIDs(ids []string, drop string) []string {
	out := ids[:0:0]

	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}

	return out
}
