package triangulation

import "github.com/spatialkit/dtri3d/geom"

// Stats is a point-in-time snapshot of a session's triangulation
// (SPEC_FULL.md's supplemented diagnostics): node and tetrahedron counts
// by kind, total finite volume, and how many triangles are still open
// (a defect if non-zero outside of an in-flight mutation).
type Stats struct {
	NodeCount              int
	FiniteTetrahedronCount int
	FlatTetrahedronCount   int
	InfiniteTetrahedronCount int
	TotalFiniteVolume      float64
	OpenTriangleCount      int
}

// allTetrahedra collects every distinct tetrahedron reachable from the
// node registry. Every tetrahedron has at least one finite vertex, so the
// union of each node's incident tetrahedra covers the whole structure
// without the session needing to maintain a separate master list.
func (s *Session) allTetrahedra() []*geom.Tetrahedron {
	seen := make(map[*geom.Tetrahedron]bool)
	var out []*geom.Tetrahedron
	for _, sn := range s.nodes {
		for _, t := range sn.node.Tetrahedra() {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Stats computes a fresh Stats snapshot in O(V+E) time over the current
// triangulation.
func (s *Session) Stats() Stats {
	var st Stats
	st.NodeCount = len(s.nodes)

	openTriangles := make(map[*geom.Triangle]bool)
	for _, t := range s.allTetrahedra() {
		switch t.Kind() {
		case geom.KindFinite:
			st.FiniteTetrahedronCount++
			st.TotalFiniteVolume += t.Volume()
		case geom.KindFlat:
			st.FlatTetrahedronCount++
		case geom.KindInfinite:
			st.InfiniteTetrahedronCount++
		}
		for _, tri := range t.Triangles() {
			if tri.IsOpen() {
				openTriangles[tri] = true
			}
		}
	}
	st.OpenTriangleCount = len(openTriangles)
	return st
}
