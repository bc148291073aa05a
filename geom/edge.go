package geom

import "fmt"

// Edge is an undirected pair of nodes tracking its incident tetrahedra and
// accumulated cross-section area (spec.md §3 "Edge").
type Edge struct {
	nodes [2]*Node

	tetrahedra       []*Tetrahedron
	crossSectionArea float64
}

// NewEdge builds an edge between a and b and registers itself on both
// endpoints. Tetrahedron construction is the only caller, per spec.md §3's
// "created on demand by a tetrahedron's initialization" lifecycle.
func NewEdge(a, b *Node) *Edge {
	e := &Edge{nodes: [2]*Node{a, b}}
	a.addEdge(e)
	b.addEdge(e)
	return e
}

// Nodes returns the edge's two endpoints.
func (e *Edge) Nodes() (*Node, *Node) {
	return e.nodes[0], e.nodes[1]
}

// Opposite returns the endpoint of e that is not n. Returns
// ErrEdgeNotIncident if n is neither endpoint.
func (e *Edge) Opposite(n *Node) (*Node, error) {
	switch n {
	case e.nodes[0]:
		return e.nodes[1], nil
	case e.nodes[1]:
		return e.nodes[0], nil
	default:
		return nil, fmt.Errorf("edge.Opposite(%v): %w", n, ErrEdgeNotIncident)
	}
}

// HasNode reports whether n is one of the edge's endpoints.
func (e *Edge) HasNode(n *Node) bool {
	return n == e.nodes[0] || n == e.nodes[1]
}

// CrossSectionArea returns the edge's current accumulated cross-section
// area, the sum of its incident tetrahedra's per-edge contributions
// (invariant 6, spec.md §3).
func (e *Edge) CrossSectionArea() float64 {
	return e.crossSectionArea
}

// Tetrahedra returns the edge's currently incident tetrahedra.
func (e *Edge) Tetrahedra() []*Tetrahedron {
	out := make([]*Tetrahedron, len(e.tetrahedra))
	copy(out, e.tetrahedra)
	return out
}

// addTetrahedron registers t as incident and accumulates its cross-section
// contribution for this edge (spec.md §4.1 "Cross-section accounting").
func (e *Edge) addTetrahedron(t *Tetrahedron, contribution float64) {
	e.tetrahedra = append(e.tetrahedra, t)
	e.crossSectionArea += contribution
}

// removeTetrahedron unregisters t and reverses its cross-section
// contribution. If this was the edge's last incident tetrahedron, it
// detaches from both endpoints (spec.md §3: "destroyed when its last
// incident tetrahedron is removed").
func (e *Edge) removeTetrahedron(t *Tetrahedron, contribution float64) {
	for i, x := range e.tetrahedra {
		if x == t {
			e.tetrahedra = append(e.tetrahedra[:i], e.tetrahedra[i+1:]...)
			break
		}
	}
	e.crossSectionArea -= contribution
	if len(e.tetrahedra) == 0 {
		e.nodes[0].removeEdge(e)
		e.nodes[1].removeEdge(e)
	}
}
