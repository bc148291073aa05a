package geom

import (
	"github.com/spatialkit/dtri3d/predicate"
	"github.com/spatialkit/dtri3d/topology"
)

// CreateInitialTetrahedron seeds a triangulation (spec.md §6
// "insertFirstNode... constructed via createInitialTetrahedron, which
// builds one finite tetrahedron plus four infinite ones"): given four
// non-coplanar nodes, it builds the finite tetrahedron over them plus one
// infinite tetrahedron per hull face, all sharing infinity as their
// point-at-infinity apex. Returns the finite tetrahedron and its four
// infinite neighbors, or ErrDegenerateTetrahedron if the four nodes are
// coplanar.
func CreateInitialTetrahedron(nodes [4]*Node, infinity *Node, org *topology.Organizer) (finite *Tetrahedron, infinites []*Tetrahedron, err error) {
	if predicate.Orient3D(nodes[0].Position, nodes[1].Position, nodes[2].Position, nodes[3].Position) < 0 {
		// Normalize to positive orientation so Orientation's sign
		// convention (and every downstream flip's convexity test) is
		// consistent regardless of the caller's input order.
		nodes[2], nodes[3] = nodes[3], nodes[2]
	}

	var triangles [4]*Triangle
	for i := range triangles {
		idx := triNodeIdx[i]
		triangles[i] = getOrCreateTriangle(nodes[idx[0]], nodes[idx[1]], nodes[idx[2]], org)
	}

	finite = NewFromNodesAndTriangles(nodes, triangles, org)
	if finite.IsFlat() {
		finite.detachAll()
		return nil, nil, ErrDegenerateTetrahedron
	}

	infinites = make([]*Tetrahedron, 4)
	for i, tri := range finite.Triangles() {
		infinites[i] = NewFromTriangleApex(tri, infinity, org)
	}
	return finite, infinites, nil
}
