package triangulation

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/geom"
	"github.com/spatialkit/dtri3d/topology"
)

// Insert adds a new point to the triangulation (spec.md §4.1, §4.2) and
// returns its client-facing handle. The first four accepted points
// bootstrap the initial tetrahedron (spec.md §4.1 insertFirstNode); every
// point after that is located by a visibility walk and inserted by
// star-shaped cavity retriangulation (spec.md §4.2 insertNode).
func (s *Session) Insert(pos r3.Vector, userObject any) (*SpaceNode, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()
	return s.insertLocked(pos, userObject)
}

func (s *Session) insertLocked(pos r3.Vector, userObject any) (*SpaceNode, error) {
	if _, taken := s.positions[pos]; taken {
		return nil, ErrPositionNotAllowed
	}

	n := s.newSpaceNode(pos, userObject)

	if s.hint == nil {
		return s.insertBootstrap(n)
	}
	return n, s.insertSteadyState(n)
}

// insertBootstrap accumulates the first four points with no geometry at
// all, then builds the initial finite tetrahedron plus its four
// surrounding infinite tetrahedra on the fourth (spec.md §4.1). If the
// four points are coplanar, only the fourth (offending) point is rolled
// back; the first three remain pending for a later, non-coplanar fourth
// point.
func (s *Session) insertBootstrap(n *SpaceNode) (*SpaceNode, error) {
	s.bootstrap = append(s.bootstrap, n)
	if len(s.bootstrap) < 4 {
		return n, nil
	}

	var nodes [4]*geom.Node
	for i, sn := range s.bootstrap {
		nodes[i] = sn.node
	}
	org := topology.NewOrganizer()
	finite, infinites, err := geom.CreateInitialTetrahedron(nodes, s.infinity, org)
	if err != nil {
		s.forgetNode(n)
		s.bootstrap = s.bootstrap[:3]
		return nil, fmt.Errorf("triangulation: bootstrap: %w", err)
	}

	s.hint = finite
	_ = infinites
	s.bootstrap = nil
	return n, nil
}

// insertSteadyState locates n's position by visibility walk from
// Session.hint and inserts n by star-shaped cavity retriangulation
// (spec.md §4.2).
func (s *Session) insertSteadyState(n *SpaceNode) error {
	pos := n.node.Position

	containing := s.hint
	if containing.IsInfinite() {
		// spec.md §4.2: "If the starting tetrahedron is infinite, the walk
		// first crosses to its finite neighbor." Triangle index 0 of an
		// infinite tetrahedron is always its one finite-base face
		// (geom.NewFromTriangleApex's construction), so this is a single
		// deterministic hop rather than a walk step.
		if finite := containing.Triangles()[0].Other(containing); finite != nil {
			containing = finite
		}
	}

	for {
		next, found := containing.WalkToPoint(pos, s.walkOrder.Next())
		if found {
			break
		}
		containing = next
	}

	if geom.SamePosition(containing.Nodes()[0].Position, pos) ||
		geom.SamePosition(containing.Nodes()[1].Position, pos) ||
		geom.SamePosition(containing.Nodes()[2].Position, pos) ||
		geom.SamePosition(containing.Nodes()[3].Position, pos) {
		s.forgetNode(n)
		return ErrPositionNotAllowed
	}

	s.notifyNodeAboutToBeAdded(n, containing.Nodes())

	removed, boundary, err := expandRegion([]*geom.Tetrahedron{containing}, acceptsInsertionCavity(pos))
	if err != nil {
		s.forgetNode(n)
		return fmt.Errorf("triangulation: insert: %w", err)
	}

	org := topology.NewOrganizer()
	for _, t := range removed {
		t.DetachAll()
	}
	for _, tri := range boundary {
		if tri.IsOpen() {
			org.Put(tri)
		}
	}

	var last *geom.Tetrahedron
	var created []*geom.Tetrahedron
	for _, tri := range boundary {
		if !tri.IsOpen() {
			continue
		}
		last = geom.NewFromTriangleApex(tri, n.node, org)
		created = append(created, last)
	}

	if last != nil {
		s.hint = last
	}

	cleanupErr := s.cleanUp(created)

	s.notifyNodeAdded(n)
	return cleanupErr
}
