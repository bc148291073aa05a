package triangulation

import (
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/bfs"
	"github.com/spatialkit/dtri3d/core"
	"github.com/spatialkit/dtri3d/geom"
	"github.com/spatialkit/dtri3d/topology"
)

// tetID returns a stable per-process identifier for t, used as a
// core.Graph vertex id while a cavity's dual graph is built incrementally.
// The tetrahedron dual graph (vertex = tetrahedron, edge = shared
// triangle) only needs to exist for the lifetime of one cavity expansion,
// so a pointer-derived id avoids maintaining a separate id allocator for
// tetrahedra, which (unlike nodes) have no stable identity of their own.
func tetID(t *geom.Tetrahedron) string {
	return fmt.Sprintf("%p", t)
}

// acceptFunc classifies a tetrahedron reached during cavity expansion as
// belonging to the region being rebuilt (true) or as a boundary neighbor
// outside it (false).
type acceptFunc func(t *geom.Tetrahedron) bool

// acceptsInsertionCavity is the region test for star-shaped cavity
// insertion (spec.md §4.2 step 3): a finite tetrahedron belongs to the
// cavity when point truly lies inside its circumsphere; an infinite
// tetrahedron belongs when point extends the hull across it (spec.md B3).
func acceptsInsertionCavity(point r3.Vector) acceptFunc {
	return func(t *geom.Tetrahedron) bool {
		if t.IsInfinite() {
			return t.ExtendsHull(point)
		}
		return t.Orientation(point) == 1
	}
}

// acceptsMessedUp is the region test for deletion's messed-up-region
// discovery (spec.md §4.3 step 3): a finite tetrahedron belongs when the
// removed point's former position is truly inside its circumsphere.
// Infinite tetrahedra never belong to a messed-up region: removing an
// interior point cannot retract the hull.
func acceptsMessedUp(point r3.Vector) acceptFunc {
	return func(t *geom.Tetrahedron) bool {
		if t.IsInfinite() {
			return false
		}
		return t.Orientation(point) == 1
	}
}

// expandRegion runs a breadth-first search over the tetrahedron dual graph
// starting from seeds (each implicitly accepted, regardless of what accept
// would say about it), classifying every newly-discovered neighbor with
// accept. It returns every tetrahedron pulled into the region and every
// triangle left on its boundary (the face between an accepted tetrahedron
// and a rejected one, or the convex hull).
//
// Multiple disjoint seeds may be supplied in one call (deletion seeds one
// per incident tetrahedron of the removed node); a shared processed set
// guards against reprocessing a tetrahedron reached from more than one
// seed's traversal, and a shared edgeSeen set avoids asking core.Graph to
// register the same dual edge twice.
//
// Building the dual graph incrementally inside OnVisit, rather than
// precomputing it, works because bfs.BFS's walker calls OnVisit before its
// next NeighborIDs lookup (bfs/bfs.go's loop: visit, then
// enqueueNeighbors): a vertex registered during OnVisit is picked up by the
// very next neighbor expansion.
func expandRegion(seeds []*geom.Tetrahedron, accept acceptFunc) (removed []*geom.Tetrahedron, boundary []*geom.Triangle, err error) {
	g := core.NewGraph()
	accepted := make(map[string]bool)
	processed := make(map[string]bool)
	edgeSeen := make(map[[2]string]bool)
	byID := make(map[string]*geom.Tetrahedron)

	for _, seed := range seeds {
		id := tetID(seed)
		if accepted[id] {
			continue
		}
		if err := g.AddVertex(id); err != nil {
			return nil, nil, fmt.Errorf("triangulation: expandRegion seed: %w", err)
		}
		accepted[id] = true
		byID[id] = seed
	}

	onVisit := func(id string, _ int) error {
		if processed[id] {
			return nil
		}
		processed[id] = true
		t := byID[id]
		removed = append(removed, t)

		for _, tri := range t.Triangles() {
			neighbor := tri.Other(t)
			if neighbor == nil {
				boundary = append(boundary, tri)
				continue
			}
			nid := tetID(neighbor)
			if _, known := accepted[nid]; !known {
				accepted[nid] = accept(neighbor)
				byID[nid] = neighbor
				if err := g.AddVertex(nid); err != nil {
					return fmt.Errorf("triangulation: expandRegion vertex: %w", err)
				}
			}
			if accepted[nid] {
				key := edgeKey(id, nid)
				if !edgeSeen[key] {
					edgeSeen[key] = true
					if _, err := g.AddEdge(id, nid, 0); err != nil {
						return fmt.Errorf("triangulation: expandRegion edge: %w", err)
					}
				}
			} else {
				boundary = append(boundary, tri)
			}
		}
		return nil
	}

	filter := func(_, neighbor string) bool {
		return accepted[neighbor]
	}

	for _, seed := range seeds {
		id := tetID(seed)
		if _, err := bfs.BFS(g, id, bfs.WithOnVisit(onVisit), bfs.WithFilterNeighbor(filter)); err != nil {
			return nil, nil, fmt.Errorf("triangulation: expandRegion bfs: %w", err)
		}
	}

	return removed, boundary, nil
}

func edgeKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// collectCandidateNodes gathers the distinct nodes spanning boundary,
// excluding exclude, as the pool of apex candidates gift-wrap scores
// against (spec.md §4.3 step 4, §4.6 "triangulate").
func collectCandidateNodes(boundary []*geom.Triangle, exclude *geom.Node) []*geom.Node {
	seen := make(map[*geom.Node]bool)
	var out []*geom.Node
	for _, tri := range boundary {
		for _, nd := range tri.Nodes() {
			if nd == exclude || seen[nd] {
				continue
			}
			seen[nd] = true
			out = append(out, nd)
		}
	}
	return out
}

// giftWrap retriangulates the cavity tracked by org (spec.md §4.6
// "triangulate"): repeatedly takes any open triangle and pairs it with the
// candidate apex that minimizes circumsphere violations against the
// remaining candidates, until org is empty. Returns every tetrahedron
// created (last is the final one, or nil if org started empty) so the
// caller can feed them into cleanUp.
func giftWrap(org *topology.Organizer, candidates []*geom.Node) (last *geom.Tetrahedron, created []*geom.Tetrahedron, err error) {
	for !org.Empty() {
		raw, ok := org.PollAny()
		if !ok {
			break
		}
		tri := raw.(*geom.Triangle)
		apex, aerr := bestApex(tri, candidates)
		if aerr != nil {
			return nil, created, aerr
		}
		last = geom.NewFromTriangleApex(tri, apex, org)
		created = append(created, last)
	}
	return last, created, nil
}

// bestApex picks, among candidates not already a vertex of tri, the apex
// minimizing violationScore (spec.md §4.6: "the apex node that minimizes
// all circumsphere containments of other cavity nodes").
func bestApex(tri *geom.Triangle, candidates []*geom.Node) (*geom.Node, error) {
	triNodes := tri.Nodes()
	var best *geom.Node
	bestScore := -1
	for _, cand := range candidates {
		if isTriNode(cand, triNodes) {
			continue
		}
		score := violationScore(tri, cand, candidates)
		if best == nil || score < bestScore {
			best = cand
			bestScore = score
		}
	}
	if best == nil {
		return nil, fmt.Errorf("triangulation: no apex candidate for open triangle: %w", ErrInvariantViolated)
	}
	return best, nil
}

// violationScore counts how many of candidates (other than tri's own
// vertices and apex itself) would lie strictly inside the circumsphere of
// the trial tetrahedron (apex, tri.Nodes()...).
func violationScore(tri *geom.Triangle, apex *geom.Node, candidates []*geom.Node) int {
	triNodes := tri.Nodes()
	verts := [4]r3.Vector{apex.Position, triNodes[0].Position, triNodes[1].Position, triNodes[2].Position}
	score := 0
	for _, other := range candidates {
		if other == apex || isTriNode(other, triNodes) {
			continue
		}
		if geom.CircumsphereOrientation(verts, other.Position) > 0 {
			score++
		}
	}
	return score
}

func isTriNode(n *geom.Node, triNodes [3]*geom.Node) bool {
	return n == triNodes[0] || n == triNodes[1] || n == triNodes[2]
}
