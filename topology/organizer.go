// Package topology implements the Open-Triangle Organizer: the set of
// currently-unpaired triangles tracked during cavity repair (spec.md §3,
// §4.6).
//
// The organizer is deliberately geometry-blind — it stores anything that
// can report a canonical Key, keyed by the unordered triple of node ids, so
// that geom.Triangle can register and poll itself without topology ever
// importing geom back. The cavity-repair algorithms that actually decide
// *what* to put, remove, or poll (removeAllTetrahedraInSphere, triangulate)
// live in geom and triangulation, which both depend on circumsphere tests
// this package has no business knowing about.
//
// The nested-map-as-set idiom mirrors core.Graph's adjacency bookkeeping
// (adjacencyList[from][to][edgeID] = struct{}{}): here a single flat map
// keyed by the canonical triple takes the place of the two-level nesting,
// since triangle identity has no natural "from" side to nest under.
package topology

import "sort"

// Key is the canonical, order-independent identity of a triangle: its three
// node ids sorted ascending. Two triangles built from the same three nodes
// in any order produce the same Key.
type Key [3]int64

// NewKey builds a Key from three node ids in any order.
func NewKey(a, b, c int64) Key {
	ids := []int64{a, b, c}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return Key{ids[0], ids[1], ids[2]}
}

// Keyer is satisfied by anything the Organizer can track — in practice,
// *geom.Triangle.
type Keyer interface {
	TriangleKey() Key
}

// Organizer is a set of open (currently-unpaired) triangles keyed by Key.
// Not safe for concurrent use: it is always owned by exactly one in-flight
// cavity-repair step on a single triangulation.Session, consistent with
// spec.md §5's single-threaded-per-session model.
type Organizer struct {
	open map[Key]Keyer
}

// NewOrganizer returns an empty Organizer.
func NewOrganizer() *Organizer {
	return &Organizer{open: make(map[Key]Keyer)}
}

// Put registers t as currently open (unpaired).
func (o *Organizer) Put(t Keyer) {
	o.open[t.TriangleKey()] = t
}

// Remove unregisters t, if present. A no-op if t was never open.
func (o *Organizer) Remove(t Keyer) {
	delete(o.open, t.TriangleKey())
}

// Has reports whether a triangle with the given key is currently open.
func (o *Organizer) Has(k Key) bool {
	_, ok := o.open[k]
	return ok
}

// Get returns the open triangle for k, if any.
func (o *Organizer) Get(k Key) (Keyer, bool) {
	t, ok := o.open[k]
	return t, ok
}

// PollAny returns an arbitrary currently-open triangle without removing it,
// or ok=false if the organizer is empty. Map iteration order in Go is
// randomized per-run, which is an acceptable (indeed useful, per spec.md
// §4.6's "repeatedly picks an open triangle") source of nondeterminism for
// gift-wrapping order; deterministic replay of *walk* decisions is handled
// separately by walkorder, which the spec scopes narrowly to visibility-walk
// ties, not to Organizer iteration.
func (o *Organizer) PollAny() (Keyer, bool) {
	for _, t := range o.open {
		return t, true
	}
	return nil, false
}

// Len returns the number of currently-open triangles.
func (o *Organizer) Len() int {
	return len(o.open)
}

// Empty reports whether the organizer currently holds no open triangles —
// the check behind invariant 4 (spec.md §3): "The Open-Triangle Organizer
// is empty outside of an active cavity-repair step."
func (o *Organizer) Empty() bool {
	return len(o.open) == 0
}

// All returns every currently-open triangle, in no particular order.
func (o *Organizer) All() []Keyer {
	out := make([]Keyer, 0, len(o.open))
	for _, t := range o.open {
		out = append(out, t)
	}
	return out
}
