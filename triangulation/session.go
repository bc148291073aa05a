package triangulation

import (
	"sync"

	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/geom"
	"github.com/spatialkit/dtri3d/walkorder"
)

// checkingIndexWrap is the modulus the session-global checking-index
// counter wraps at (spec.md §9 "Checking-index wraparound").
const checkingIndexWrap = 2_000_000_000

// Session is the top-level triangulation state (spec.md C8): the node
// registry, the checking-index counter, and the listener list. All
// mutating entry points funnel through it and are not reentrant (spec.md
// §5).
type Session struct {
	mu sync.Mutex

	infinity *geom.Node

	nodes      map[int64]*SpaceNode
	nextNodeID int64
	positions  map[r3.Vector]*SpaceNode

	bootstrap []*SpaceNode
	hint      *geom.Tetrahedron

	checkingIndex int64

	listeners []Listener
	logger    Logger

	walkOrder        walkorder.Generator
	maxCleanupPasses int
}

// NewSession returns an empty Session, ready to accept its first four
// points via Insert (spec.md §6 "insertFirstNode").
func NewSession(opts ...Option) *Session {
	s := &Session{
		infinity:         geom.NewInfinityNode(),
		nodes:            make(map[int64]*SpaceNode),
		positions:        make(map[r3.Vector]*SpaceNode),
		walkOrder:        walkorder.NewDeterministic(0),
		maxCleanupPasses: defaultMaxCleanupPasses,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// enter acquires the session's re-entrancy guard. It fails with
// ErrReentrantMutation rather than blocking, so a listener that calls back
// into a mutating method gets a reportable error instead of a deadlock.
func (s *Session) enter() error {
	if !s.mu.TryLock() {
		return ErrReentrantMutation
	}
	return nil
}

func (s *Session) exit() {
	s.mu.Unlock()
}

// newSpaceNode allocates the next node identity, registers the node and
// its position, and returns its client-facing handle.
func (s *Session) newSpaceNode(pos r3.Vector, userObject any) *SpaceNode {
	s.nextNodeID++
	id := s.nextNodeID
	gn := geom.NewNode(id, pos, userObject)
	sn := &SpaceNode{session: s, node: gn}
	s.nodes[id] = sn
	s.positions[pos] = sn
	return sn
}

func (s *Session) forgetNode(n *SpaceNode) {
	delete(s.nodes, n.node.ID)
	delete(s.positions, n.node.Position)
}

// nextCheckingIndex allocates a fresh checking-index stamp for one
// restoreDelaunay pass, wrapping per spec.md §9.
func (s *Session) nextCheckingIndex() int64 {
	s.checkingIndex++
	if s.checkingIndex > checkingIndexWrap {
		s.checkingIndex = 1
	}
	return s.checkingIndex
}

// NodeCount returns the number of nodes currently registered with the
// session (bootstrap-phase nodes included).
func (s *Session) NodeCount() int {
	return len(s.nodes)
}

// Node returns the node with the given id, or nil if none is registered.
func (s *Session) Node(id int64) *SpaceNode {
	return s.nodes[id]
}

// findAnyValidHint scans the node registry for any still-valid tetrahedron,
// used to recover Session.hint after the tetrahedron it pointed at is
// invalidated by a removal that produced no replacement (an isolated
// bootstrap-phase node, for instance).
func (s *Session) findAnyValidHint() *geom.Tetrahedron {
	for _, sn := range s.nodes {
		for _, t := range sn.node.Tetrahedra() {
			if t.Valid() {
				return t
			}
		}
	}
	return nil
}
