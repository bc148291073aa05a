// Package dtri3d is a dynamic 3D Delaunay triangulation kernel for
// biophysical neural-tissue simulation.
//
// What
//
//	A thread-safe, incrementally-maintained Delaunay tetrahedralization
//	over a live point set:
//
//	  - Insert a node and retriangulate only the star-shaped cavity
//	    whose circumsphere the new point violates.
//	  - Move a node (physics-driven) and restore the Delaunay property
//	    via local 2↔3 / 3↔2 flips instead of a full rebuild.
//	  - Remove a node via gift-wrapping cavity retriangulation.
//	  - Export the current tetrahedron adjacency as a plain graph for
//	    downstream diffusion/connectivity code.
//
// Why
//
//	A mechanical or chemical simulation that moves points every tick
//	cannot afford to rebuild the tetrahedralization from scratch at
//	every step; it needs local repair with the same asymptotic cost as
//	the motion itself.
//
// Under the hood, everything is organized under subpackages:
//
//	geom/          — Node, Edge, Triangle, Tetrahedron and the flip/walk
//	                 geometry that operates on them
//	predicate/     — circumsphere orientation test (float fast path,
//	                 exact rational fallback)
//	topology/      — Open-Triangle Organizer, the cavity bookkeeping
//	                 structure shared by insertion, removal and flips
//	walkorder/     — deterministic pseudo-random traversal order used
//	                 when multiple tetrahedra could be visited next
//	triangulation/ — Session: the orchestrator tying the above into
//	                 insert/remove/moveTo/restoreDelaunay/cleanUp
//	core/          — adjacency graph export layer (AdjacencyGraph())
//	bfs/           — breadth-first search, reused for cavity and
//	                 messed-up-region traversal over the dual graph
//	matrix/        — small dense linear solver for the circumcenter
//	                 3x3 system (matrix/ops.LU, matrix/ops.Inverse)
//	internal/exact — exact rational arithmetic backing the predicate's
//	                 fallback path
//
// See SPEC_FULL.md and DESIGN.md in the repository root for the full
// module map and the rationale behind each package boundary.
package dtri3d
