package triangulation

import "errors"

// ErrPositionNotAllowed is returned when a requested position exactly
// matches an existing node's position, whether at insertion or as the
// target of a motion (spec.md §7).
var ErrPositionNotAllowed = errors.New("triangulation: position not allowed")

// ErrInvariantViolated is returned when cleanUp exhausts its iteration
// budget with flat tetrahedra still outstanding (spec.md §7, §9 "cleanUp
// non-termination guard"), and when gift-wrapping finds no apex candidate
// for an open triangle.
var ErrInvariantViolated = errors.New("triangulation: invariant violated")

// ErrReentrantMutation is returned when a mutating method is called while
// another mutation is already in flight on the same session, including a
// listener callback calling back into the session it was invoked from
// (spec.md §5, §9 "listener re-entrancy").
var ErrReentrantMutation = errors.New("triangulation: reentrant mutation")
