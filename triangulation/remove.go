package triangulation

import (
	"fmt"

	"github.com/spatialkit/dtri3d/geom"
	"github.com/spatialkit/dtri3d/topology"
)

// remove deletes n from the triangulation (spec.md §4.3 removeNode):
// discovers the messed-up region left behind by n's incident tetrahedra,
// tears it down, and retriangulates the resulting cavity by gift-wrap over
// the boundary's candidate nodes.
func (s *Session) remove(n *SpaceNode) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()
	return s.removeLocked(n)
}

func (s *Session) removeLocked(n *SpaceNode) error {
	s.notifyNodeAboutToBeRemoved(n)

	incident := n.node.Tetrahedra()
	if len(incident) == 0 {
		// n never acquired geometry: it is still one of the first three
		// pending bootstrap points (spec.md §4.1). Just drop it.
		s.forgetNode(n)
		for i, sn := range s.bootstrap {
			if sn == n {
				s.bootstrap = append(s.bootstrap[:i], s.bootstrap[i+1:]...)
				break
			}
		}
		s.notifyNodeRemoved(n)
		return nil
	}

	pos := n.node.Position

	removed, boundary, err := expandRegion(incident, acceptsMessedUp(pos))
	if err != nil {
		return fmt.Errorf("triangulation: remove: %w", err)
	}

	candidates := collectCandidateNodes(boundary, n.node)

	hintInvalid := s.hint != nil && tetInSlice(s.hint, removed)

	for _, t := range removed {
		t.DetachAll()
	}

	org := topology.NewOrganizer()
	for _, tri := range boundary {
		if tri.IsOpen() {
			org.Put(tri)
		}
	}

	last, created, err := giftWrap(org, candidates)
	if err != nil {
		return fmt.Errorf("triangulation: remove: %w", err)
	}

	s.forgetNode(n)

	if hintInvalid || s.hint == nil || !s.hint.Valid() {
		if last != nil {
			s.hint = last
		} else {
			s.hint = s.findAnyValidHint()
		}
	}

	cleanupErr := s.cleanUp(created)

	s.notifyNodeRemoved(n)
	return cleanupErr
}

func tetInSlice(t *geom.Tetrahedron, slice []*geom.Tetrahedron) bool {
	for _, s := range slice {
		if s == t {
			return true
		}
	}
	return false
}
