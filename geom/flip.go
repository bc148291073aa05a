package geom

import (
	"errors"

	"github.com/spatialkit/dtri3d/predicate"
	"github.com/spatialkit/dtri3d/topology"
)

// ErrFlipNotApplicable is returned by the flip constructors when their
// geometric preconditions (convex position, mutual adjacency, shared
// flatness) are not satisfied.
var ErrFlipNotApplicable = errors.New("geom: flip preconditions not satisfied")

// IsInConvexPosition reports whether the 2->3 flip across shared triangle
// (a,b,c) with opposite apices p (from one side) and q (from the other) is
// geometrically valid: the segment pq must cross the interior of triangle
// abc: the three tetrahedra (p,q,a,b), (p,q,b,c), (p,q,c,a) have the same,
// non-zero orientation (the line pq passes through abc's interior), and p
// and q lie strictly on opposite sides of abc's plane (spec.md §4.1
// "isInConvexPosition").
func IsInConvexPosition(p, q, a, b, c *Node) bool {
	s1 := predicate.Orient3D(p.Position, q.Position, a.Position, b.Position)
	s2 := predicate.Orient3D(p.Position, q.Position, b.Position, c.Position)
	s3 := predicate.Orient3D(p.Position, q.Position, c.Position, a.Position)
	if s1 == 0 || s2 == 0 || s3 == 0 || s1 != s2 || s2 != s3 {
		return false
	}
	sp := predicate.Orient3D(a.Position, b.Position, c.Position, p.Position)
	sq := predicate.Orient3D(a.Position, b.Position, c.Position, q.Position)
	return sp != 0 && sq != 0 && sp != sq
}

// opposingNode returns the node of t whose opposite triangle is tri, or
// nil if tri is not one of t's four triangles.
func opposingNode(t *Tetrahedron, tri *Triangle) *Node {
	for i, x := range t.triangles {
		if x == tri {
			return t.nodes[i]
		}
	}
	return nil
}

// triangleOpposite returns the triangle of t opposite node n, or nil if n
// is not one of t's four nodes.
func triangleOpposite(t *Tetrahedron, n *Node) *Triangle {
	for i, x := range t.nodes {
		if x == n {
			return t.triangles[i]
		}
	}
	return nil
}

// TwoToThree performs the 2->3 flip from spec.md §4.1: given two
// tetrahedra t1, t2 sharing triangle shared (nodes a,b,c), with p the node
// of t1 opposite shared and q the node of t2 opposite shared, replaces them
// with three new tetrahedra {p,q,a,b}, {p,q,b,c}, {p,q,c,a} around the new
// internal edge pq. Valid only when both inputs are non-flat and
// IsInConvexPosition holds; otherwise returns ErrFlipNotApplicable and
// leaves both tetrahedra untouched.
func TwoToThree(t1, t2 *Tetrahedron, shared *Triangle, org *topology.Organizer) ([3]*Tetrahedron, error) {
	if t1.IsFlat() || t2.IsFlat() || t1.IsInfinite() || t2.IsInfinite() {
		return [3]*Tetrahedron{}, ErrFlipNotApplicable
	}
	abc := shared.Nodes()
	a, b, c := abc[0], abc[1], abc[2]
	p := opposingNode(t1, shared)
	q := opposingNode(t2, shared)
	if p == nil || q == nil {
		return [3]*Tetrahedron{}, ErrFlipNotApplicable
	}
	if !IsInConvexPosition(p, q, a, b, c) {
		return [3]*Tetrahedron{}, ErrFlipNotApplicable
	}

	pab := triangleOpposite(t1, c)
	pbc := triangleOpposite(t1, a)
	pca := triangleOpposite(t1, b)
	qab := triangleOpposite(t2, c)
	qbc := triangleOpposite(t2, a)
	qca := triangleOpposite(t2, b)

	t1.detachAll()
	t2.detachAll()

	pqa := NewTriangle(p, q, a)
	pqb := NewTriangle(p, q, b)
	pqc := NewTriangle(p, q, c)

	tab := NewFromNodesAndTriangles([4]*Node{p, q, a, b}, [4]*Triangle{qab, pab, pqb, pqa}, org)
	tbc := NewFromNodesAndTriangles([4]*Node{p, q, b, c}, [4]*Triangle{qbc, pbc, pqc, pqb}, org)
	tca := NewFromNodesAndTriangles([4]*Node{p, q, c, a}, [4]*Triangle{qca, pca, pqa, pqc}, org)

	return [3]*Tetrahedron{tab, tbc, tca}, nil
}

// otherNodes returns the two nodes of t that are neither p nor q.
func otherNodes(t *Tetrahedron, p, q *Node) [2]*Node {
	var out [2]*Node
	i := 0
	for _, n := range t.nodes {
		if n == p || n == q {
			continue
		}
		if i < 2 {
			out[i] = n
			i++
		}
	}
	return out
}

// commonTriangle returns the triangle shared by t1 and t2, or nil if none.
func commonTriangle(t1, t2 *Tetrahedron) *Triangle {
	for _, x := range t1.triangles {
		for _, y := range t2.triangles {
			if x == y {
				return x
			}
		}
	}
	return nil
}

// thirdNode returns the node of tri that is neither p nor q.
func thirdNode(tri *Triangle, p, q *Node) *Node {
	for _, n := range tri.Nodes() {
		if n != p && n != q {
			return n
		}
	}
	return nil
}

// ThreeToTwo performs the 3->2 flip from spec.md §4.1: given three
// tetrahedra meeting at common edge e and mutually pairwise-adjacent
// (each pair shares one internal triangle containing both endpoints of
// e), replaces them with two new tetrahedra on the triangle opposite e.
// Returns ErrFlipNotApplicable if the three tetrahedra are not in the
// required mutually-adjacent configuration.
func ThreeToTwo(around [3]*Tetrahedron, e *Edge, org *topology.Organizer) ([2]*Tetrahedron, error) {
	for _, t := range around {
		if t.IsInfinite() {
			return [2]*Tetrahedron{}, ErrFlipNotApplicable
		}
	}
	p, q := e.Nodes()

	sharedAB := commonTriangle(around[0], around[1])
	sharedBC := commonTriangle(around[1], around[2])
	sharedCA := commonTriangle(around[2], around[0])
	if sharedAB == nil || sharedBC == nil || sharedCA == nil {
		return [2]*Tetrahedron{}, ErrFlipNotApplicable
	}

	b := thirdNode(sharedAB, p, q)
	c := thirdNode(sharedBC, p, q)
	a := thirdNode(sharedCA, p, q)
	if a == nil || b == nil || c == nil {
		return [2]*Tetrahedron{}, ErrFlipNotApplicable
	}

	tAB := tetraWithOthers(around, p, q, a, b)
	tBC := tetraWithOthers(around, p, q, b, c)
	tCA := tetraWithOthers(around, p, q, c, a)
	if tAB == nil || tBC == nil || tCA == nil {
		return [2]*Tetrahedron{}, ErrFlipNotApplicable
	}

	pab := triangleOpposite(tAB, q)
	qab := triangleOpposite(tAB, p)
	pbc := triangleOpposite(tBC, q)
	qbc := triangleOpposite(tBC, p)
	pca := triangleOpposite(tCA, q)
	qca := triangleOpposite(tCA, p)

	tAB.detachAll()
	tBC.detachAll()
	tCA.detachAll()

	abc := NewTriangle(a, b, c)

	t1 := NewFromNodesAndTriangles([4]*Node{p, a, b, c}, [4]*Triangle{abc, pbc, pca, pab}, org)
	t2 := NewFromNodesAndTriangles([4]*Node{q, a, b, c}, [4]*Triangle{abc, qbc, qca, qab}, org)

	return [2]*Tetrahedron{t1, t2}, nil
}

// tetraWithOthers returns whichever of around has exactly {x,y} as its two
// non-p,q nodes, or nil if none matches.
func tetraWithOthers(around [3]*Tetrahedron, p, q, x, y *Node) *Tetrahedron {
	for _, t := range around {
		others := otherNodes(t, p, q)
		if (others[0] == x && others[1] == y) || (others[0] == y && others[1] == x) {
			return t
		}
	}
	return nil
}

// CanRemoveFlatPair reports whether t1 and t2 are a removable flat pair
// (spec.md §4.1 "Removal of two flat tetrahedra"): both flat, sharing
// exactly two triangles (i.e. four coplanar points in non-convex
// position).
func CanRemoveFlatPair(t1, t2 *Tetrahedron) bool {
	if !t1.IsFlat() || !t2.IsFlat() {
		return false
	}
	shared := 0
	for _, x := range t1.triangles {
		for _, y := range t2.triangles {
			if x == y {
				shared++
			}
		}
	}
	return shared == 2
}

// RemoveFlatPair performs the specialized removal from spec.md §4.1: t1
// and t2, a flat pair sharing two triangles, are both detached. Their two
// shared triangles vanish with the pair; the four non-shared triangles
// (two from each tetrahedron) are left open, each carrying its former
// neighbor on the far side. The former neighbors are returned for
// subsequent Delaunay re-checking; the caller is responsible for
// retriangulating the open triangles this leaves behind (gift-wrap, the
// same as any other cavity boundary).

func RemoveFlatPair(t1, t2 *Tetrahedron) (formerNeighbors []*Tetrahedron, err error) {
	if !CanRemoveFlatPair(t1, t2) {
		return nil, ErrFlipNotApplicable
	}

	isShared := func(tri *Triangle) bool {
		for _, y := range t2.triangles {
			if tri == y {
				return true
			}
		}
		return false
	}

	// The two shared triangles have t1 and t2 on their two sides and
	// vanish with the pair; the remaining two triangles of each
	// tetrahedron carry this pair's only genuine outside neighbors, which
	// the caller must feed back into Delaunay restoration once the
	// resulting open triangles are retriangulated (spec.md §4.1: "Returns
	// the list of former neighbors for subsequent Delaunay re-checking").
	for _, tri := range t1.triangles {
		if isShared(tri) {
			continue
		}
		if n := tri.Other(t1); n != nil {
			formerNeighbors = append(formerNeighbors, n)
		}
	}
	for _, tri := range t2.triangles {
		if isShared(tri) {
			continue
		}
		if n := tri.Other(t2); n != nil {
			formerNeighbors = append(formerNeighbors, n)
		}
	}

	t1.detachAll()
	t2.detachAll()

	return formerNeighbors, nil
}
