package triangulation

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/geom"
	"github.com/spatialkit/dtri3d/topology"
)

// moveTo relocates n to newPos (spec.md §4.4). A local-validity check
// decides whether n's incident tetrahedra can be repaired in place: if
// none of them inverted across their own opposite face, restoreDelaunay
// runs its checking-index-stamped flip cascade (2<->3, 3<->2, flat-pair
// removal) to bring the region back to Delaunay. Otherwise the move is
// too large for local repair and takes the slow path: detach every
// tetrahedron incident to n (and any further tetrahedron the new position
// violates) and re-wrap the resulting cavity with n as the fixed apex,
// the same construction insertSteadyState uses for a brand new point.
func (s *Session) moveTo(n *SpaceNode, newPos r3.Vector) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()
	return s.moveToLocked(n, newPos)
}

func (s *Session) moveToLocked(n *SpaceNode, newPos r3.Vector) error {
	oldPos := n.node.Position
	delta := newPos.Sub(oldPos)

	if other, taken := s.positions[newPos]; taken && other != n {
		return ErrPositionNotAllowed
	}

	// spec.md R2: nodeAboutToMove/nodeMoved fire for every accepted move,
	// even a zero delta, rather than special-casing a no-op move. A move
	// rejected with ErrPositionNotAllowed fires neither.
	s.notifyNodeAboutToMove(n, delta)

	if geom.SamePosition(oldPos, newPos) {
		s.notifyNodeMoved(n)
		return nil
	}

	incident := n.node.Tetrahedra()
	valid := checkLocalValidity(incident, n.node, oldPos, newPos)

	// The slow-path region is found while n still sits at oldPos: an
	// infinite neighbor's hull test measures against the apex of its
	// finite neighbor, which for n's own tetrahedra is n.
	var removed []*geom.Tetrahedron
	var boundary []*geom.Triangle
	if !valid {
		var err error
		removed, boundary, err = expandRegion(incident, acceptsInsertionCavity(newPos))
		if err != nil {
			return err
		}
	}

	delete(s.positions, oldPos)
	n.node.Position = newPos
	s.positions[newPos] = n

	for _, t := range incident {
		for _, tri := range t.Triangles() {
			tri.MarkDirty()
		}
	}
	for _, t := range incident {
		if !t.IsInfinite() {
			t.Recompute()
		}
	}

	if valid {
		if err := s.restoreDelaunay(incident); err != nil {
			return err
		}
		s.notifyNodeMoved(n)
		return nil
	}

	hintInvalid := s.hint != nil && tetInSlice(s.hint, incident)

	for _, t := range removed {
		t.DetachAll()
	}

	org := topology.NewOrganizer()
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
	} else if hintInvalid {
		s.hint = s.findAnyValidHint()
	}

	cleanupErr := s.cleanUp(created)

	s.notifyNodeMoved(n)
	return cleanupErr
}

// checkLocalValidity implements spec.md §4.4 step 1: for every tetrahedron
// incident to the moved node n, either (a) it is non-flat and n stayed on
// the same side of the tetrahedron's own opposite face across the move
// (oldPos and newPos agree in sign against that face's plane), or (b) it
// is infinite and infiniteLocalPatternHolds. If any incident tetrahedron
// fails both, the move is too disruptive for local repair.
func checkLocalValidity(incident []*geom.Tetrahedron, n *geom.Node, oldPos, newPos r3.Vector) bool {
	for _, t := range incident {
		if t.IsInfinite() {
			if !infiniteLocalPatternHolds(t) {
				return false
			}
			continue
		}
		if t.IsFlat() {
			return false
		}
		base := t.TriangleOpposite(n)
		if base == nil {
			return false
		}
		oldSide := base.Side(oldPos)
		newSide := base.Side(newPos)
		if oldSide == 0 || newSide == 0 {
			return false
		}
		if (oldSide > 0) != (newSide > 0) {
			return false
		}
	}
	return true
}

// infiniteLocalPatternHolds is spec.md §4.4 step 1(b): local validity also
// holds across an infinite incident tetrahedron t when t's one finite
// neighbor is itself surrounded entirely by infinite tetrahedra, i.e. n
// sits at the apex of a single-tetrahedron pocket of the hull, too narrow
// for the usual hull-extension test to apply.
func infiniteLocalPatternHolds(t *geom.Tetrahedron) bool {
	inner := t.Triangles()[0].Other(t)
	if inner == nil || inner.IsInfinite() {
		return false
	}
	for _, tri := range inner.Triangles() {
		neighbor := tri.Other(inner)
		if neighbor == nil || !neighbor.IsInfinite() {
			return false
		}
	}
	return true
}

// restoreDelaunay is spec.md §4.4's checking-index-driven restoration
// pass: it walks the active set (seeded from the moved node's incident
// tetrahedra), stamping each triangle with a freshly allocated checking
// index so that no (triangle) pair is examined twice within this pass
// (invariant 5). For every unstamped, closed triangle Fi between active
// tetrahedron Ta and neighbor Tb, it applies, in order: flat-pair removal
// when both sides are flat and removable; a 3->2 flip (preferred, per
// spec.md's tie-break) when Tb's apex truly violates Ta's circumsphere and
// a third mutually-adjacent neighbor exists; otherwise a 2->3 flip. Pairs
// where neither flip applies are deferred to resolveProblemTetrahedra once
// the active set empties.
func (s *Session) restoreDelaunay(seed []*geom.Tetrahedron) error {
	idx := s.nextCheckingIndex()
	org := topology.NewOrganizer()

	var active []*geom.Tetrahedron
	enqueued := make(map[*geom.Tetrahedron]bool, len(seed))
	enqueue := func(t *geom.Tetrahedron) {
		if t == nil || !t.Valid() || enqueued[t] {
			return
		}
		enqueued[t] = true
		active = append(active, t)
	}
	for _, t := range seed {
		enqueue(t)
	}

	var problems []*geom.Tetrahedron

	for len(active) > 0 {
		ta := active[0]
		active = active[1:]
		if !ta.Valid() {
			continue
		}

		for _, fi := range ta.Triangles() {
			if fi.StampedAt(idx) {
				continue
			}
			fi.Stamp(idx)

			tb := fi.Other(ta)
			if tb == nil || !tb.Valid() {
				continue
			}
			if ta.IsInfinite() || tb.IsInfinite() {
				continue
			}

			if ta.IsFlat() && tb.IsFlat() && geom.CanRemoveFlatPair(ta, tb) {
				formerNeighbors, created, err := flipFlatPair(ta, tb, org)
				if err != nil {
					return err
				}
				for _, t := range formerNeighbors {
					enqueue(t)
				}
				for _, t := range created {
					enqueue(t)
				}
				break
			}

			n := tb.ApexOpposite(fi)
			if n == nil {
				continue
			}
			if ta.Orientation(n.Position) != 1 {
				continue
			}

			if flipped, created := tryThreeToTwo(ta, tb, fi, org); flipped {
				for _, t := range created {
					enqueue(t)
				}
				break
			}

			if !ta.IsFlat() && !tb.IsFlat() {
				created, err := geom.TwoToThree(ta, tb, fi, org)
				if err == nil {
					for _, t := range created {
						enqueue(t)
					}
					break
				}
				if err != geom.ErrFlipNotApplicable {
					return fmt.Errorf("triangulation: restoreDelaunay: %w", err)
				}
			}

			problems = append(problems, ta, tb)
		}
	}

	return s.resolveProblemTetrahedra(problems)
}

// flipFlatPair performs spec.md §4.1's flat-pair removal and immediately
// regift-wraps the open triangles it leaves behind, the same sequence
// cleanUp runs for flat pairs discovered outside a motion.
func flipFlatPair(t1, t2 *geom.Tetrahedron, org *topology.Organizer) (formerNeighbors, created []*geom.Tetrahedron, err error) {
	formerNeighbors, err = geom.RemoveFlatPair(t1, t2)
	if err != nil {
		return nil, nil, fmt.Errorf("triangulation: restoreDelaunay: %w", err)
	}
	for _, t := range []*geom.Tetrahedron{t1, t2} {
		for _, tri := range t.Triangles() {
			if tri.IsOpen() {
				org.Put(tri)
			}
		}
	}
	candidates := collectCandidateNodes(openTrianglesOf(org), nil)
	_, created, err = giftWrap(org, candidates)
	if err != nil {
		return nil, nil, fmt.Errorf("triangulation: restoreDelaunay: %w", err)
	}
	return formerNeighbors, created, nil
}

// tryThreeToTwo looks, across each of shared's three edges, for a third
// tetrahedron Tc completing a 3-tetrahedron fan around that edge with ta
// and tb (spec.md §4.4: "a third neighbor Tc sharing an edge with both Ta
// and Tb"), and performs the 3->2 flip on the first edge where one exists
// and the flip's own preconditions hold.
func tryThreeToTwo(ta, tb *geom.Tetrahedron, shared *geom.Triangle, org *topology.Organizer) (bool, []*geom.Tetrahedron) {
	nodes := shared.Nodes()
	edgeEndpoints := [3][2]*geom.Node{
		{nodes[0], nodes[1]},
		{nodes[1], nodes[2]},
		{nodes[2], nodes[0]},
	}

	for _, ends := range edgeEndpoints {
		e := findEdgeBetween(ends[0], ends[1])
		if e == nil {
			continue
		}
		ets := e.Tetrahedra()
		if len(ets) != 3 {
			continue
		}
		var tc *geom.Tetrahedron
		for _, t := range ets {
			if t != ta && t != tb {
				tc = t
			}
		}
		if tc == nil || !tc.Valid() {
			continue
		}

		around := [3]*geom.Tetrahedron{ta, tb, tc}
		result, err := geom.ThreeToTwo(around, e, org)
		if err != nil {
			continue
		}
		return true, result[:]
	}
	return false, nil
}

// findEdgeBetween returns the edge connecting a and b, or nil if they are
// not adjacent.
func findEdgeBetween(a, b *geom.Node) *geom.Edge {
	for _, e := range a.Edges() {
		if e.HasNode(b) {
			return e
		}
	}
	return nil
}

// resolveProblemTetrahedra handles whatever restoreDelaunay's flip cascade
// could not locally repair (spec.md §4.4: "run cleanUp on any remaining
// problem tetrahedra and all flat tetrahedra discovered"): it expands the
// problem set to absorb adjacent flat tetrahedra, tears the whole region
// down, and retriangulates via gift-wrap, the same cavity machinery
// insert/remove use.
func (s *Session) resolveProblemTetrahedra(problems []*geom.Tetrahedron) error {
	var seeds []*geom.Tetrahedron
	seen := make(map[*geom.Tetrahedron]bool)
	for _, t := range problems {
		if t == nil || !t.Valid() || seen[t] {
			continue
		}
		seen[t] = true
		seeds = append(seeds, t)
	}
	if len(seeds) == 0 {
		return nil
	}

	removed, boundary, err := expandRegion(seeds, acceptsStillProblematic)
	if err != nil {
		return fmt.Errorf("triangulation: restoreDelaunay: %w", err)
	}

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
	candidates := collectCandidateNodes(boundary, nil)

	last, created, err := giftWrap(org, candidates)
	if err != nil {
		return fmt.Errorf("triangulation: restoreDelaunay: %w", err)
	}

	if hintInvalid {
		if last != nil {
			s.hint = last
		} else {
			s.hint = s.findAnyValidHint()
		}
	}

	return s.cleanUp(created)
}

// acceptsStillProblematic extends a problem-tetrahedron region to absorb
// any adjacent flat tetrahedron: left untouched, it would just be
// rediscovered as a problem on the very next restoreDelaunay pass.
func acceptsStillProblematic(t *geom.Tetrahedron) bool {
	return t.IsFlat()
}
