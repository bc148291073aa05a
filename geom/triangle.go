package geom

import (
	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/topology"
)

// Triangle is an unordered triple of nodes, incident to up to two
// tetrahedra (the "upper" and "lower" side), with a lazily computed plane
// equation and a checking-index stamp used during Delaunay restoration
// (spec.md §3 "Triangle").
type Triangle struct {
	nodes [3]*Node

	tets [2]*Tetrahedron // slot 0 = "upper", slot 1 = "lower"; nil if open

	normal      r3.Vector
	offset      float64
	planeDirty  bool
	checkingIdx int64
}

// NewTriangle builds a triangle over the given three nodes. It starts with
// no incident tetrahedra; the constructing Tetrahedron attaches itself via
// the unexported attach.
func NewTriangle(a, b, c *Node) *Triangle {
	return &Triangle{nodes: [3]*Node{a, b, c}, planeDirty: true}
}

// Nodes returns the triangle's three vertices in construction order.
func (t *Triangle) Nodes() [3]*Node {
	return t.nodes
}

// TriangleKey satisfies topology.Keyer: the canonical, order-independent
// identity of this triangle.
func (t *Triangle) TriangleKey() topology.Key {
	return topology.NewKey(t.nodes[0].ID, t.nodes[1].ID, t.nodes[2].ID)
}

// IsOpen reports whether the triangle currently has fewer than two
// incident tetrahedra (spec.md §4.6 "open triangle").
func (t *Triangle) IsOpen() bool {
	return t.tets[0] == nil || t.tets[1] == nil
}

// Tetrahedra returns the triangle's up-to-two incident tetrahedra; a nil
// entry means that side is currently open.
func (t *Triangle) Tetrahedra() [2]*Tetrahedron {
	return t.tets
}

// Other returns the triangle's incident tetrahedron on the side opposite
// from, or nil if from is not incident or the opposite side is open.
func (t *Triangle) Other(from *Tetrahedron) *Tetrahedron {
	switch from {
	case t.tets[0]:
		return t.tets[1]
	case t.tets[1]:
		return t.tets[0]
	default:
		return nil
	}
}

// attach records tet as incident to this triangle, in the first free slot.
// Returns false if both slots are already occupied (a kernel bug, since a
// finite triangle may have at most two incident tetrahedra, invariant 2).
func (t *Triangle) attach(tet *Tetrahedron) bool {
	if t.tets[0] == nil {
		t.tets[0] = tet
		return true
	}
	if t.tets[1] == nil {
		t.tets[1] = tet
		return true
	}
	return false
}

// detach removes tet from whichever slot holds it.
func (t *Triangle) detach(tet *Tetrahedron) {
	if t.tets[0] == tet {
		t.tets[0] = nil
	} else if t.tets[1] == tet {
		t.tets[1] = nil
	}
}

// CheckingIndex returns the triangle's last-stamped checking index
// (spec.md §3's "checking index... used to mark already-visited triangles
// within one Delaunay restoration pass").
func (t *Triangle) CheckingIndex() int64 {
	return t.checkingIdx
}

// Stamp marks the triangle as visited at the given pass index. The session
// hands out increasing indices that wrap back to 1 after its wraparound
// limit (invariant 5, spec.md §3).
func (t *Triangle) Stamp(idx int64) {
	t.checkingIdx = idx
}

// StampedAt reports whether the triangle is already stamped with idx
// (i.e. already visited in the current restoration pass).
func (t *Triangle) StampedAt(idx int64) bool {
	return t.checkingIdx == idx
}

// planeEquation lazily computes and caches the triangle's plane normal and
// offset such that for any point p, normal.Dot(p) - offset is positive on
// one side and negative on the other.
func (t *Triangle) planeEquation() (normal r3.Vector, offset float64) {
	if t.planeDirty {
		a, b, c := t.nodes[0].Position, t.nodes[1].Position, t.nodes[2].Position
		t.normal = b.Sub(a).Cross(c.Sub(a))
		t.offset = t.normal.Dot(a)
		t.planeDirty = false
	}
	return t.normal, t.offset
}

// markPlaneDirty forces the next planeEquation call to recompute, used
// after a node incident to this triangle has moved.
func (t *Triangle) markPlaneDirty() {
	t.planeDirty = true
}

// MarkDirty exports markPlaneDirty for triangulation, which must invalidate
// every triangle incident to a node right after updating that node's
// position (spec.md §4.4 "Update position"), before any plane-side test
// (local-validity check, WalkToPoint, flip convexity) runs against it again.
func (t *Triangle) MarkDirty() {
	t.markPlaneDirty()
}

// side returns the signed distance (unnormalized, scaled by |normal|) of p
// from the triangle's plane: positive on the normal's side, negative on
// the other, zero if p lies exactly in the plane.
func (t *Triangle) side(p r3.Vector) float64 {
	n, off := t.planeEquation()
	return n.Dot(p) - off
}

// Side exports side for callers outside geom that need the triangle's
// plane-side test directly (triangulation's hull-extension and
// local-validity checks).
func (t *Triangle) Side(p r3.Vector) float64 {
	return t.side(p)
}
