// Package predicate implements the circumsphere orientation test: given a
// tetrahedron's circumsphere and a candidate point, decide whether the point
// lies outside, on, or inside that sphere.
//
// The test runs in two tiers, mirroring spec.md §4.1/§4.5: a cheap
// floating-point fast path compares squared distances against a
// per-tetrahedron tolerance envelope; when the result lands inside that
// envelope (float arithmetic cannot be trusted there), an exact predicate
// recomputes the in-sphere determinant with internal/exact's rational
// arithmetic and returns a reliable sign.
//
// The escalation shape — validate the cheap path, fall back to the
// expensive one only on genuine uncertainty — follows the same
// stage-commented structure as matrix/ops.Inverse's "validate, decompose,
// solve" pipeline.
package predicate

import (
	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/internal/exact"
)

// Tolerance configures the width of the floating-point uncertainty envelope
// around a circumsphere surface, in the same functional-option shape as
// other packages in this module (WithEps on a Delaunay triangulation type
// elsewhere in the retrieved corpus).
type Tolerance struct {
	// Eps is an absolute squared-distance slack added on top of the
	// tetrahedron's own accumulated error bound.
	Eps float64
}

// Option configures a Tolerance.
type Option func(*Tolerance)

// DefaultTolerance returns the zero-slack Tolerance: callers rely entirely
// on the tetrahedron's own per-construction error bound.
func DefaultTolerance() Tolerance {
	return Tolerance{Eps: 0}
}

// WithEps adds extra absolute slack to the tolerance envelope, useful for
// tests that want to force (or forbid) escalation to the exact predicate.
func WithEps(eps float64) Option {
	return func(t *Tolerance) {
		t.Eps = eps
	}
}

// NewTolerance builds a Tolerance from options.
func NewTolerance(opts ...Option) Tolerance {
	t := DefaultTolerance()
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Orientation is the floating-point fast path from spec.md §4.1 step 1-2:
// it compares the squared distance from point to center against radiusSq,
// and returns a definite sign only when that difference exceeds the
// tolerance envelope. ok is false when the result falls inside the
// envelope and the caller must escalate to ExactOrientation.
//
// Returns -1 (outside), 0 (on the sphere boundary), or +1 (inside).
func Orientation(center r3.Vector, radiusSq, envelope float64, point r3.Vector, tol Tolerance) (sign int, ok bool) {
	d := point.Sub(center)
	distSq := d.Dot(d)
	diff := distSq - radiusSq
	bound := envelope + tol.Eps
	if diff > bound {
		return -1, true
	}
	if diff < -bound {
		return 1, true
	}
	if diff == 0 {
		return 0, true
	}
	return 0, false
}

// ExactOrientation is the symbolic fallback from spec.md §4.5: it expresses
// the in-sphere determinant for the tetrahedron (a,b,c,d) and test point p
// using exact rational arithmetic and returns its sign, independent of the
// tetrahedron's cached float circumcenter/radius.
//
// verts must be the tetrahedron's four finite vertices in the orientation
// recorded at construction time (the same order used to compute volume);
// the sign of orient3D(verts) is used to normalize the in-sphere
// determinant's sign so that the result is +1 exactly when p lies strictly
// inside the circumsphere, regardless of the input winding.
func ExactOrientation(verts [4]r3.Vector, p r3.Vector) int {
	ori := orient3DSign(verts[0], verts[1], verts[2], verts[3])
	if ori == 0 {
		// Coplanar vertices span no sphere: the result is 0 for every p.
		// geom's flat-tetrahedron orientation relies on this for in-plane
		// points.
		return 0
	}
	raw := inSphereSign(verts[0], verts[1], verts[2], verts[3], p)
	if ori > 0 {
		return -raw
	}
	return raw
}

// Orient3D returns the sign of det[b-a, c-a, d-a]: +1 if d lies on the
// positive side of the plane through (a,b,c) with normal (b-a)x(c-a), -1
// on the negative side, 0 if the four points are coplanar. Exported for
// flip-validity tests (geom's 2<->3 flip convexity check) that need the
// same exact orientation test this package already computes for in-sphere
// normalization.
func Orient3D(a, b, c, d r3.Vector) int {
	return orient3DSign(a, b, c, d)
}

// orient3DSign returns the sign of det[b-a, c-a, d-a], i.e. the orientation
// of the ordered tetrahedron (a,b,c,d): +1 if d lies on the positive side
// of the plane through (a,b,c) with normal (b-a)x(c-a), -1 on the negative
// side, 0 if coplanar.
func orient3DSign(a, b, c, d r3.Vector) int {
	ax := exact.NewFloat(a.X)
	ay := exact.NewFloat(a.Y)
	az := exact.NewFloat(a.Z)

	rows := [3][3]exact.Rational{
		vecMinus(b, a, ax, ay, az),
		vecMinus(c, a, ax, ay, az),
		vecMinus(d, a, ax, ay, az),
	}
	det := det3(rows)
	return det.Sign()
}

// vecMinus returns (v - (ax,ay,az)) as an exact rational triple.
func vecMinus(v r3.Vector, _ r3.Vector, ax, ay, az exact.Rational) [3]exact.Rational {
	return [3]exact.Rational{
		exact.Sub(exact.NewFloat(v.X), ax),
		exact.Sub(exact.NewFloat(v.Y), ay),
		exact.Sub(exact.NewFloat(v.Z), az),
	}
}

// det3 computes the determinant of a 3x3 matrix given as rows, via
// cofactor expansion along the first row.
func det3(m [3][3]exact.Rational) exact.Rational {
	minor00 := exact.Sub(exact.Mul(m[1][1], m[2][2]), exact.Mul(m[1][2], m[2][1]))
	minor01 := exact.Sub(exact.Mul(m[1][0], m[2][2]), exact.Mul(m[1][2], m[2][0]))
	minor02 := exact.Sub(exact.Mul(m[1][0], m[2][1]), exact.Mul(m[1][1], m[2][0]))

	term0 := exact.Mul(m[0][0], minor00)
	term1 := exact.Mul(m[0][1], minor01)
	term2 := exact.Mul(m[0][2], minor02)

	return exact.Sub(exact.Add(term0, term2), term1)
}

// inSphereSign computes the sign of the classic 4x4 lifted-coordinate
// in-sphere determinant for (a,b,c,d) tested against e:
//
//	| ax-ex  ay-ey  az-ez  (ax²+ay²+az²)-(ex²+ey²+ez²) |
//	| bx-ex  by-ey  bz-ez  (bx²+by²+bz²)-(ex²+ey²+ez²) |
//	| cx-ex  cy-ey  cz-ez  (cx²+cy²+cz²)-(ex²+ey²+ez²) |
//	| dx-ex  dy-ey  dz-ez  (dx²+dy²+dz²)-(ex²+ey²+ez²) |
//
// Its sign is +1 exactly when e lies strictly inside the sphere through
// a,b,c,d, for a,b,c,d with orient3DSign(a,b,c,d) < 0; for positive
// orientation the sign is reversed.
func inSphereSign(a, b, c, d, e r3.Vector) int {
	rows := [4][4]exact.Rational{
		liftedRow(a, e),
		liftedRow(b, e),
		liftedRow(c, e),
		liftedRow(d, e),
	}
	det := det4(rows)
	return det.Sign()
}

func liftedRow(v, e r3.Vector) [4]exact.Rational {
	vx := exact.NewFloat(v.X)
	vy := exact.NewFloat(v.Y)
	vz := exact.NewFloat(v.Z)
	ex := exact.NewFloat(e.X)
	ey := exact.NewFloat(e.Y)
	ez := exact.NewFloat(e.Z)

	dx := exact.Sub(vx, ex)
	dy := exact.Sub(vy, ey)
	dz := exact.Sub(vz, ez)

	vSq := exact.Add(exact.Add(exact.Mul(vx, vx), exact.Mul(vy, vy)), exact.Mul(vz, vz))
	eSq := exact.Add(exact.Add(exact.Mul(ex, ex), exact.Mul(ey, ey)), exact.Mul(ez, ez))
	dSq := exact.Sub(vSq, eSq)

	return [4]exact.Rational{dx, dy, dz, dSq}
}

// det4 computes the determinant of a 4x4 matrix given as rows, via
// cofactor expansion along the first row.
func det4(m [4][4]exact.Rational) exact.Rational {
	sign := exact.NewInt(1)
	total := exact.Zero()
	for col := 0; col < 4; col++ {
		if m[0][col].IsZero() {
			sign = exact.Neg(sign)
			continue
		}
		minor := minor4(m, 0, col)
		term := exact.Mul(sign, exact.Mul(m[0][col], det3From4(minor)))
		total = exact.Add(total, term)
		sign = exact.Neg(sign)
	}
	return total
}

// minor4 returns the 3x3 submatrix of m with row r and column c removed.
func minor4(m [4][4]exact.Rational, r, c int) [3][3]exact.Rational {
	var out [3][3]exact.Rational
	oi := 0
	for i := 0; i < 4; i++ {
		if i == r {
			continue
		}
		oj := 0
		for j := 0; j < 4; j++ {
			if j == c {
				continue
			}
			out[oi][oj] = m[i][j]
			oj++
		}
		oi++
	}
	return out
}

func det3From4(m [3][3]exact.Rational) exact.Rational {
	return det3(m)
}
