package triangulation

import (
	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/geom"
)

// SpaceNode is the client-facing handle to a point in the triangulation
// (spec.md C7): identity, position, opaque user object, and the
// insert/remove/move entry points. The geometric bookkeeping (incident
// edges/tetrahedra, dual volume) lives on the wrapped geom.Node; SpaceNode
// adds session membership and the mutating operations that require walking
// and re-triangulating.
type SpaceNode struct {
	session *Session
	node    *geom.Node
}

// ID returns the node's monotonic session-assigned identity.
func (n *SpaceNode) ID() int64 { return n.node.ID }

// Position returns the node's current location.
func (n *SpaceNode) Position() r3.Vector { return n.node.Position }

// UserObject returns the opaque handle supplied at insertion.
func (n *SpaceNode) UserObject() any { return n.node.UserObject }

// DualVolume returns the node's accumulated dual volume: a quarter of the
// volume of each incident finite tetrahedron.
func (n *SpaceNode) DualVolume() float64 { return n.node.DualVolume() }

// Edges returns the node's currently incident edges.
func (n *SpaceNode) Edges() []*geom.Edge { return n.node.Edges() }

// Tetrahedra returns the node's currently incident tetrahedra.
func (n *SpaceNode) Tetrahedra() []*geom.Tetrahedron { return n.node.Tetrahedra() }

// Neighbors returns the other endpoint of each of the node's incident
// edges (spec.md §6 "getNeighbors").
func (n *SpaceNode) Neighbors() []*SpaceNode {
	edges := n.node.Edges()
	out := make([]*SpaceNode, 0, len(edges))
	for _, e := range edges {
		other, err := e.Opposite(n.node)
		if err != nil || other == nil {
			continue
		}
		if sn, ok := n.session.nodes[other.ID]; ok {
			out = append(out, sn)
		}
	}
	return out
}

// GetNewInstance inserts a new node into n's session (spec.md §6
// "node.getNewInstance(pos, user_object)").
func (n *SpaceNode) GetNewInstance(pos r3.Vector, userObject any) (*SpaceNode, error) {
	return n.session.Insert(pos, userObject)
}

// Remove deletes n from the triangulation (spec.md §4.3).
func (n *SpaceNode) Remove() error {
	return n.session.remove(n)
}

// MoveTo relocates n to newPos, restoring the Delaunay property (spec.md
// §4.4).
func (n *SpaceNode) MoveTo(newPos r3.Vector) error {
	return n.session.moveTo(n, newPos)
}

// MoveFrom relocates n by delta (spec.md §6 "node.moveFrom(delta)").
func (n *SpaceNode) MoveFrom(delta r3.Vector) error {
	return n.session.moveTo(n, n.node.Position.Add(delta))
}
