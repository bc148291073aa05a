// Package geom implements the spatial entities of the triangulation
// (spec.md §3, C4-C7): Node, Edge, Triangle and Tetrahedron, plus the
// operations that mutate their adjacency (circumsphere, orientation,
// visibility walk, 2<->3 flips, flat-tetrahedron removal).
//
// Node, Edge, Triangle and Tetrahedron live in one package for the same
// reason core bundles Vertex, Edge and Graph together: the four types
// reference each other directly (a tetrahedron points at its triangles and
// edges; a triangle points back at its incident tetrahedra; an edge points
// back at its incident tetrahedra and its two nodes), so splitting them
// across packages would force either an import cycle or an interface layer
// with no payoff.
//
// This package does not know about sessions, listeners or checking-index
// bookkeeping — those are triangulation's job (C8). geom exposes the
// primitives triangulation orchestrates: constructors, the orientation
// predicate, the visibility walk, and the three flip operations.
package geom

import (
	"errors"

	"github.com/golang/geo/r3"
)

// ErrEdgeNotIncident is returned by Edge.Opposite when the queried node is
// not one of the edge's two endpoints (spec.md §7).
var ErrEdgeNotIncident = errors.New("geom: node is not incident to edge")

// ErrDegenerateTetrahedron is returned when a constructor is asked to build
// a tetrahedron from four coplanar (or otherwise degenerate) points when a
// non-degenerate one was required by the caller.
var ErrDegenerateTetrahedron = errors.New("geom: tetrahedron is degenerate")

// Kind tags which variant of the tetrahedron subtype (spec.md §9
// "Degenerate tetrahedra as a subtype") a Tetrahedron is.
type Kind int

const (
	// KindFinite is an ordinary, non-degenerate tetrahedron with all four
	// nodes present and a well-defined circumsphere.
	KindFinite Kind = iota
	// KindFlat is a degenerate, coplanar tetrahedron: volume identically
	// zero, circumsphere undefined.
	KindFlat
	// KindInfinite is a bookkeeping tetrahedron with the infinity node
	// (ID -1) among its four nodes, representing a face of the convex hull.
	KindInfinite
)

func (k Kind) String() string {
	switch k {
	case KindFinite:
		return "finite"
	case KindFlat:
		return "flat"
	case KindInfinite:
		return "infinite"
	default:
		return "unknown"
	}
}

// Node is a point in R^3 carrying its incident edges and tetrahedra
// (spec.md §3 "Node (SpaceNode)"). The identity-bearing, session-facing
// half of SpaceNode (insert/remove/moveTo orchestration) lives in
// triangulation; Node itself is the geometric/bookkeeping half.
type Node struct {
	ID         int64
	Position   r3.Vector
	UserObject any

	edges       []*Edge
	tetrahedra  []*Tetrahedron
	dualVolume  float64
}

// NewNode constructs a Node with the given identity, position and opaque
// user handle. It starts with no incident geometry; registering it with
// edges/tetrahedra is the constructing tetrahedron's job.
func NewNode(id int64, pos r3.Vector, userObject any) *Node {
	return &Node{ID: id, Position: pos, UserObject: userObject}
}

// Edges returns the node's currently incident edges.
func (n *Node) Edges() []*Edge {
	out := make([]*Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// Tetrahedra returns the node's currently incident tetrahedra.
func (n *Node) Tetrahedra() []*Tetrahedron {
	out := make([]*Tetrahedron, len(n.tetrahedra))
	copy(out, n.tetrahedra)
	return out
}

// DualVolume returns the node's accumulated dual-cell volume.
func (n *Node) DualVolume() float64 {
	return n.dualVolume
}

// AddDualVolume accumulates a contribution to the node's dual-cell volume.
// Called by a tetrahedron on creation; offset on removal.
func (n *Node) AddDualVolume(delta float64) {
	n.dualVolume += delta
}

func (n *Node) addEdge(e *Edge) {
	n.edges = append(n.edges, e)
}

func (n *Node) removeEdge(e *Edge) {
	for i, x := range n.edges {
		if x == e {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			return
		}
	}
}

func (n *Node) addTetrahedron(t *Tetrahedron) {
	n.tetrahedra = append(n.tetrahedra, t)
}

func (n *Node) removeTetrahedron(t *Tetrahedron) {
	for i, x := range n.tetrahedra {
		if x == t {
			n.tetrahedra = append(n.tetrahedra[:i], n.tetrahedra[i+1:]...)
			return
		}
	}
}
