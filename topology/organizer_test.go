package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spatialkit/dtri3d/topology"
)

type fakeTriangle struct {
	a, b, c int64
}

func (f fakeTriangle) TriangleKey() topology.Key {
	return topology.NewKey(f.a, f.b, f.c)
}

func TestKeyIsPermutationInvariant(t *testing.T) {
	require.Equal(t, topology.NewKey(1, 2, 3), topology.NewKey(3, 2, 1))
	require.Equal(t, topology.NewKey(1, 2, 3), topology.NewKey(2, 3, 1))
	require.NotEqual(t, topology.NewKey(1, 2, 3), topology.NewKey(1, 2, 4))
}

func TestOrganizerPutRemovePoll(t *testing.T) {
	o := topology.NewOrganizer()
	require.True(t, o.Empty())

	tri := fakeTriangle{1, 2, 3}
	o.Put(tri)
	require.False(t, o.Empty())
	require.Equal(t, 1, o.Len())
	require.True(t, o.Has(tri.TriangleKey()))

	got, ok := o.PollAny()
	require.True(t, ok)
	require.Equal(t, tri, got)

	o.Remove(tri)
	require.True(t, o.Empty())
	_, ok = o.PollAny()
	require.False(t, ok)
}

func TestOrganizerAllReturnsEverything(t *testing.T) {
	o := topology.NewOrganizer()
	o.Put(fakeTriangle{1, 2, 3})
	o.Put(fakeTriangle{4, 5, 6})
	require.Len(t, o.All(), 2)
}
