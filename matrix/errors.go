// Package matrix: sentinel error set reachable from the trimmed solver path.
// All algorithms MUST return these sentinels and tests MUST check them via
// errors.Is. No algorithm panics on caller-triggered conditions.
package matrix

import "errors"

var (
	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. LU/Inverse on a non-square matrix.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrSingular is returned when a zero pivot is encountered during LU
	// decomposition or inversion (no pivoting is performed, by design: the
	// circumcenter systems geom feeds in are never singular for non-flat,
	// non-degenerate tetrahedra, and a singular result is itself diagnostic).
	ErrSingular = errors.New("matrix: singular matrix")
)
