package triangulation

import "github.com/spatialkit/dtri3d/walkorder"

// defaultMaxCleanupPasses bounds cleanUp's retriangulation loop (spec.md §9
// "a production implementation should impose a bounded iteration count").
const defaultMaxCleanupPasses = 64

// Option configures a Session at construction, in the same functional-option
// shape as bfs.Option and core.GraphOption.
type Option func(*Session)

// WithWalkOrder overrides the default triangle-order source used by the
// visibility walk that locates an inserted point.
func WithWalkOrder(g walkorder.Generator) Option {
	return func(s *Session) {
		if g != nil {
			s.walkOrder = g
		}
	}
}

// WithLogger installs a Logger to receive a diagnostic line whenever
// cleanUp exhausts its iteration budget.
func WithLogger(l Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMaxCleanupPasses overrides cleanUp's iteration budget. Non-positive
// values are ignored.
func WithMaxCleanupPasses(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxCleanupPasses = n
		}
	}
}

// WithListener registers a Listener to receive the session's movement
// callbacks. May be supplied more than once.
func WithListener(l Listener) Option {
	return func(s *Session) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}
