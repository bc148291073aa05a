// Package matrix provides a small, dependency-free dense matrix type and
// the linear-algebra primitives (matrix/ops) built on top of it.
//
// Originally this package carried adjacency/incidence matrix views over
// core.Graph plus Floyd-Warshall, eigen and elementwise operations. The
// triangulation kernel has no use for a matrix view of a graph — it needs
// exactly one thing: a small dense linear solver for the 3x3 circumcenter
// system that geom.Tetrahedron assembles from pairwise coordinate
// differences (see matrix/ops.LU, matrix/ops.Inverse). Everything graph-
// shaped was trimmed; see DESIGN.md for the per-file accounting.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
// Dense is the only implementation the kernel needs, but algorithms in
// matrix/ops are written against this interface so a different storage
// layout could be substituted without touching the solver.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	// Complexity: O(1).
	Rows() int

	// Cols returns the number of columns in the matrix.
	// Complexity: O(1).
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrIndexOutOfBounds if i<0, i>=Rows(), j<0 or j>=Cols().
	// Complexity: O(1).
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrIndexOutOfBounds if indices are invalid.
	// Complexity: O(1).
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}
