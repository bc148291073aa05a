package triangulation

// This file collects the package's read-only, non-mutating accessors,
// mirroring core/api.go's policy: the facade holds no algorithmic logic of
// its own, only thin forwarding. The constructor NewSession is in
// session.go. Session.Insert is in insert.go; SpaceNode.Remove and
// SpaceNode.MoveTo/MoveFrom are declared in node.go and forward to the
// algorithms in remove.go and motion.go.

// Listeners returns the listeners currently registered with the session.
// The returned slice is the session's own backing array; callers must not
// modify it.
func (s *Session) Listeners() []Listener {
	return s.listeners
}

// MaxCleanupPasses returns the session's configured cleanUp iteration
// budget.
func (s *Session) MaxCleanupPasses() int {
	return s.maxCleanupPasses
}
