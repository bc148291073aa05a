package triangulation

import (
	"github.com/golang/geo/r3"

	"github.com/spatialkit/dtri3d/geom"
)

// Listener is the movement-listener contract consumed by the physics layer
// (spec.md §6). All six callbacks are invoked synchronously, inside the
// mutating call that triggered them; a listener must not call back into any
// mutating Session or SpaceNode method (enforced by the re-entrancy guard,
// which returns ErrReentrantMutation instead of deadlocking).
type Listener interface {
	// NodeAboutToMove fires once per motion, before the position update.
	NodeAboutToMove(node *SpaceNode, delta r3.Vector)
	// NodeMoved fires after all flips from a motion's restoreDelaunay pass
	// complete.
	NodeMoved(node *SpaceNode)
	// NodeAboutToBeAdded fires before insertion creates any geometry.
	// adjacentUserObjects holds the user objects of the four vertices of
	// the containing tetrahedron found by the visibility walk; one slot is
	// nil when that vertex is the point at infinity.
	NodeAboutToBeAdded(node *SpaceNode, position r3.Vector, adjacentUserObjects [4]any)
	// NodeAdded fires after the new node's cavity has been retriangulated.
	NodeAdded(node *SpaceNode)
	// NodeAboutToBeRemoved fires before any of the node's incident
	// geometry is torn down.
	NodeAboutToBeRemoved(node *SpaceNode)
	// NodeRemoved fires after the resulting cavity has been
	// retriangulated.
	NodeRemoved(node *SpaceNode)
}

// Logger receives a single diagnostic line when a restoration pass exhausts
// cleanUp's iteration budget (spec.md §7's "logged in production builds"
// clause). Satisfied trivially by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

func (s *Session) notifyNodeAboutToMove(n *SpaceNode, delta r3.Vector) {
	for _, l := range s.listeners {
		l.NodeAboutToMove(n, delta)
	}
}

func (s *Session) notifyNodeMoved(n *SpaceNode) {
	for _, l := range s.listeners {
		l.NodeMoved(n)
	}
}

func (s *Session) notifyNodeAboutToBeAdded(n *SpaceNode, containing [4]*geom.Node) {
	var adjacent [4]any
	for i, nd := range containing {
		if nd != s.infinity {
			adjacent[i] = nd.UserObject
		}
	}
	for _, l := range s.listeners {
		l.NodeAboutToBeAdded(n, n.node.Position, adjacent)
	}
}

func (s *Session) notifyNodeAdded(n *SpaceNode) {
	for _, l := range s.listeners {
		l.NodeAdded(n)
	}
}

func (s *Session) notifyNodeAboutToBeRemoved(n *SpaceNode) {
	for _, l := range s.listeners {
		l.NodeAboutToBeRemoved(n)
	}
}

func (s *Session) notifyNodeRemoved(n *SpaceNode) {
	for _, l := range s.listeners {
		l.NodeRemoved(n)
	}
}
