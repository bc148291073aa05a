// Package triangulation implements the top-level session that orchestrates
// insertion, deletion, motion and Delaunay restoration over the spatial
// entities in geom (spec.md C8).
//
// Session owns the node registry and the session-global checking-index
// counter; SpaceNode is the client-facing handle through which insertion,
// removal and motion are requested. All mutating entry points
// (Session.Insert, SpaceNode.Remove, SpaceNode.MoveTo/MoveFrom) take the
// session's re-entrancy guard for their duration: a listener callback that
// calls back into any of them returns ErrReentrantMutation rather than
// deadlocking.
//
// cleanUp (the pass after each mutation that removes flat tetrahedron
// pairs and gift-wraps the open triangles each removal leaves) is bounded
// by WithMaxCleanupPasses, default 64: exhausting the budget with flat
// tetrahedra still among the swept ones returns ErrInvariantViolated
// wrapped with their count instead of looping forever.
package triangulation
