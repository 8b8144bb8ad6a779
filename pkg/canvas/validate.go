package canvas

import (
	"github.com/iamoneai/flowcanvas/pkg/models"
)

// checkWire verifies one wire against the canvas: both endpoints resolve,
// the source port is an output, the target port is an input, and the target
// port's multiplicity is respected.
func checkWire(c *models.Canvas, wire *models.Wire, op string) error {
	source, ok := c.Node(wire.SourceNodeID)
	if !ok {
		return &GraphIntegrityError{
			Op:      op,
			Message: "source node does not exist",
			Err:     ErrDanglingReference,
			NodeID:  wire.SourceNodeID,
			WireID:  wire.ID,
		}
	}

	target, ok := c.Node(wire.TargetNodeID)
	if !ok {
		return &GraphIntegrityError{
			Op:      op,
			Message: "target node does not exist",
			Err:     ErrDanglingReference,
			NodeID:  wire.TargetNodeID,
			WireID:  wire.ID,
		}
	}

	sourcePort, ok := source.FindPort(wire.SourcePortID)
	if !ok {
		return &GraphIntegrityError{
			Op:      op,
			Message: "source port does not exist on source node",
			Err:     ErrDanglingReference,
			NodeID:  wire.SourceNodeID,
			PortID:  wire.SourcePortID,
			WireID:  wire.ID,
		}
	}

	targetPort, ok := target.FindPort(wire.TargetPortID)
	if !ok {
		return &GraphIntegrityError{
			Op:      op,
			Message: "target port does not exist on target node",
			Err:     ErrDanglingReference,
			NodeID:  wire.TargetNodeID,
			PortID:  wire.TargetPortID,
			WireID:  wire.ID,
		}
	}

	if sourcePort.Direction != models.PortDirectionOutput {
		return &GraphIntegrityError{
			Op:      op,
			Message: "wire source must be an output port",
			Err:     ErrDirectionMismatch,
			NodeID:  wire.SourceNodeID,
			PortID:  wire.SourcePortID,
			WireID:  wire.ID,
		}
	}

	if targetPort.Direction != models.PortDirectionInput {
		return &GraphIntegrityError{
			Op:      op,
			Message: "wire target must be an input port",
			Err:     ErrDirectionMismatch,
			NodeID:  wire.TargetNodeID,
			PortID:  wire.TargetPortID,
			WireID:  wire.ID,
		}
	}

	if !targetPort.AllowMultiple {
		for _, existing := range c.Wires {
			if existing.ID == wire.ID {
				continue
			}

			if existing.TargetNodeID == wire.TargetNodeID && existing.TargetPortID == wire.TargetPortID {
				return &GraphIntegrityError{
					Op:      op,
					Message: "target port already has a wire and does not allow multiple",
					Err:     ErrMultiplicityViolation,
					NodeID:  wire.TargetNodeID,
					PortID:  wire.TargetPortID,
					WireID:  wire.ID,
				}
			}
		}
	}

	return nil
}

// Validate re-checks a whole canvas: lane membership is exclusive and
// resolvable, every indexed node is listed by exactly one lane, and every
// wire satisfies the endpoint, direction and multiplicity invariants. A
// deserialized canvas that passes Validate is equivalent to one built
// through the editor.
func Validate(c *models.Canvas) error {
	seenLanes := make(map[string]bool, len(c.Lanes))
	owner := make(map[string]string, len(c.Nodes))

	for _, lane := range c.Lanes {
		if seenLanes[lane.ID] {
			return &GraphIntegrityError{
				Op:      "Validate",
				Message: "duplicate lane ID",
				Err:     ErrDuplicateElement,
				LaneID:  lane.ID,
			}
		}

		seenLanes[lane.ID] = true

		for _, nodeID := range lane.NodeIDs {
			if prev, ok := owner[nodeID]; ok {
				return &GraphIntegrityError{
					Op:      "Validate",
					Message: "node listed by more than one lane (also in " + prev + ")",
					Err:     ErrDuplicateElement,
					LaneID:  lane.ID,
					NodeID:  nodeID,
				}
			}

			owner[nodeID] = lane.ID

			if _, ok := c.Node(nodeID); !ok {
				return &GraphIntegrityError{
					Op:      "Validate",
					Message: "lane lists a node missing from the canvas index",
					Err:     ErrDanglingReference,
					LaneID:  lane.ID,
					NodeID:  nodeID,
				}
			}
		}
	}

	for nodeID := range c.Nodes {
		if _, ok := owner[nodeID]; !ok {
			return &GraphIntegrityError{
				Op:      "Validate",
				Message: "indexed node not listed by any lane",
				Err:     ErrDanglingReference,
				NodeID:  nodeID,
			}
		}
	}

	seenWires := make(map[string]bool, len(c.Wires))

	for _, wire := range c.Wires {
		if seenWires[wire.ID] {
			return &GraphIntegrityError{
				Op:      "Validate",
				Message: "duplicate wire ID",
				Err:     ErrDuplicateElement,
				WireID:  wire.ID,
			}
		}

		seenWires[wire.ID] = true

		if err := checkWire(c, wire, "Validate"); err != nil {
			return err
		}
	}

	return nil
}
