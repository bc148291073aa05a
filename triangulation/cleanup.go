package triangulation

import (
	"fmt"

	"github.com/spatialkit/dtri3d/geom"
	"github.com/spatialkit/dtri3d/topology"
)

// cleanUp sweeps seeds (the tetrahedra touched by the mutation that just
// ran) for removable flat pairs (spec.md §4.1 "Removal of two flat
// tetrahedra") and eliminates them, gift-wrapping the open triangles each
// removal leaves behind. It is bounded by Session.maxCleanupPasses
// (spec.md §9): a production build cannot let a pathological run of
// coplanar points spin forever chasing newly-formed flat pairs, so
// exhausting the budget with flat tetrahedra still outstanding is
// reported, not silently ignored.
func (s *Session) cleanUp(seeds []*geom.Tetrahedron) error {
	pending := append([]*geom.Tetrahedron(nil), seeds...)

	for pass := 0; pass < s.maxCleanupPasses; pass++ {
		t1, t2, rest := findFlatPair(pending)
		if t1 == nil {
			return nil
		}

		formerNeighbors, err := geom.RemoveFlatPair(t1, t2)
		if err != nil {
			return fmt.Errorf("triangulation: cleanUp: %w", err)
		}

		org := topology.NewOrganizer()
		for _, t := range []*geom.Tetrahedron{t1, t2} {
			for _, tri := range t.Triangles() {
				if tri.IsOpen() {
					org.Put(tri)
				}
			}
		}
		candidates := collectCandidateNodes(openTrianglesOf(org), nil)
		if _, _, err := giftWrap(org, candidates); err != nil {
			return fmt.Errorf("triangulation: cleanUp: %w", err)
		}

		pending = append(rest, formerNeighbors...)
	}

	remaining := 0
	for _, t := range pending {
		if t.IsFlat() {
			remaining++
		}
	}
	if remaining == 0 {
		return nil
	}
	if s.logger != nil {
		s.logger.Printf("triangulation: cleanUp exhausted %d passes with %d flat tetrahedra remaining", s.maxCleanupPasses, remaining)
	}
	return fmt.Errorf("triangulation: cleanUp exhausted budget with %d flat tetrahedra remaining: %w", remaining, ErrInvariantViolated)
}

// findFlatPair scans pending for two flat tetrahedra eligible for
// RemoveFlatPair, returning them along with the remaining, unexamined
// slice.
func findFlatPair(pending []*geom.Tetrahedron) (t1, t2 *geom.Tetrahedron, rest []*geom.Tetrahedron) {
	for i, a := range pending {
		if !a.IsFlat() || !a.Valid() {
			continue
		}
		for j := i + 1; j < len(pending); j++ {
			b := pending[j]
			if b.Valid() && geom.CanRemoveFlatPair(a, b) {
				rest = append(rest, pending[:i]...)
				rest = append(rest, pending[i+1:j]...)
				rest = append(rest, pending[j+1:]...)
				return a, b, rest
			}
		}
	}
	return nil, nil, pending
}

// openTrianglesOf drains org's current contents back out as a slice,
// leaving org itself untouched for the caller's own PollAny loop.
func openTrianglesOf(org *topology.Organizer) []*geom.Triangle {
	all := org.All()
	out := make([]*geom.Triangle, 0, len(all))
	for _, k := range all {
		if tri, ok := k.(*geom.Triangle); ok {
			out = append(out, tri)
		}
	}
	return out
}
