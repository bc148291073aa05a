package triangulation

import (
	"errors"
	"fmt"

	"github.com/spatialkit/dtri3d/geom"
)

// Validate walks the whole triangulation and checks part of spec.md §3's
// structural invariants: every finite tetrahedron has a positive volume
// or is tagged flat, every triangle has at least one attached
// tetrahedron, every finite tetrahedron is locally Delaunay against its
// finite neighbors, and every registered node is keyed by its own id and
// indexed under its current position. Hull consistency is not checked.
// Returns a joined error naming every violation found, or nil.
func (s *Session) Validate() error {
	var errs []error

	for _, t := range s.allTetrahedra() {
		if t.Kind() == geom.KindFinite && t.Volume() <= 0 {
			errs = append(errs, fmt.Errorf("finite tetrahedron %p has non-positive volume %g", t, t.Volume()))
		}
		for _, tri := range t.Triangles() {
			tets := tri.Tetrahedra()
			attached := 0
			for _, tt := range tets {
				if tt != nil {
					attached++
				}
			}
			if attached == 0 {
				errs = append(errs, fmt.Errorf("triangle %p has no attached tetrahedron", tri))
			}
			neighbor := tri.Other(t)
			if neighbor != nil && !neighbor.IsInfinite() && !t.IsInfinite() {
				apex := neighbor.ApexOpposite(tri)
				if apex != nil && t.Orientation(apex.Position) > 0 {
					errs = append(errs, fmt.Errorf("tetrahedron %p is not locally Delaunay against neighbor %p", t, neighbor))
				}
			}
		}
	}

	for id, sn := range s.nodes {
		if sn.node.ID != id {
			errs = append(errs, fmt.Errorf("node registry key %d does not match node id %d", id, sn.node.ID))
		}
		if stored, ok := s.positions[sn.node.Position]; !ok || stored != sn {
			errs = append(errs, fmt.Errorf("node %d position not indexed consistently", id))
		}
	}

	return errors.Join(errs...)
}
