package triangulation

import (
	"fmt"

	"github.com/spatialkit/dtri3d/core"
)

// CrossSectionScale fixes the point the cross-section area of an edge is
// scaled by before truncating to an int64 edge weight
// (core/doc.go's "Use within the triangulation kernel" contract). Chosen
// to preserve six decimal digits of the area, the unit the biophysical
// callers (tissue volume in micrometers) work in.
const CrossSectionScale = 1e6

// AdjacencyGraph returns a snapshot of the triangulation's node adjacency
// as a core.Graph: one vertex per node, one undirected edge per pair of
// nodes sharing at least one triangle face. Vertex.Metadata carries the
// key "dual_volume", a string-encoded float64 of the node's accumulated
// dual volume (a quarter of the volume of each incident finite
// tetrahedron); Edge.Weight carries the edge's cross-section area scaled
// by CrossSectionScale and truncated toward zero. The infinity node
// and any face touching it are omitted: they have no physical dual
// volume or cross-section. The returned graph is a snapshot: mutating it
// has no effect on the session.
func (s *Session) AdjacencyGraph() (*core.Graph, error) {
	g := core.NewGraph(core.WithWeighted())

	for id, sn := range s.nodes {
		vid := fmt.Sprintf("%d", id)
		if err := g.AddVertex(vid); err != nil {
			return nil, fmt.Errorf("triangulation: AdjacencyGraph: %w", err)
		}
		g.VerticesMap()[vid].Metadata["dual_volume"] = fmt.Sprintf("%g", sn.DualVolume())
	}

	seen := make(map[[2]int64]bool)
	for id, sn := range s.nodes {
		for _, e := range sn.Edges() {
			a, b := e.Nodes()
			if a.ID == s.infinity.ID || b.ID == s.infinity.ID {
				continue
			}
			if b.ID < a.ID {
				a, b = b, a
			}
			if a.ID != id && b.ID != id {
				continue
			}
			key := [2]int64{a.ID, b.ID}
			if seen[key] {
				continue
			}
			seen[key] = true
			weight := int64(e.CrossSectionArea() * CrossSectionScale)
			if _, err := g.AddEdge(fmt.Sprintf("%d", a.ID), fmt.Sprintf("%d", b.ID), weight); err != nil {
				return nil, fmt.Errorf("triangulation: AdjacencyGraph: %w", err)
			}
		}
	}

	return g, nil
}
