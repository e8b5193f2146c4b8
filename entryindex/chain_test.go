package entryindex

import (
	"testing"

	"github.com/mightysai1997/sdjournal/wire"
	"github.com/stretchr/testify/require"
)

func appendEntry(t *testing.T, store *memStore, seqnum, realtime, monotonic uint64) uint64 {
	t.Helper()
	var en wire.Entry
	en.SetItems(nil)
	en.Seqnum = seqnum
	en.Realtime = realtime
	en.Monotonic = monotonic

	off, err := store.Append(en.Bytes())
	require.NoError(t, err)
	return off
}

func TestChain_AppendGrowsGeometrically(t *testing.T) {
	store := newMemStore()
	c := &Chain{}

	var first uint64
	for i := uint64(1); i <= 10; i++ {
		entryOff := appendEntry(t, store, i, i*1000, i)
		f, err := c.Append(store, entryOff)
		require.NoError(t, err)
		first = f
	}

	require.Equal(t, first, c.First)
	require.EqualValues(t, 10, c.Total())
}

func TestChain_OpenChain_Reopens(t *testing.T) {
	store := newMemStore()
	c := &Chain{}

	for i := uint64(1); i <= 20; i++ {
		entryOff := appendEntry(t, store, i, i*1000, i)
		_, err := c.Append(store, entryOff)
		require.NoError(t, err)
	}

	reopened, err := OpenChain(store, c.First)
	require.NoError(t, err)
	require.Equal(t, c.First, reopened.First)
	require.Equal(t, c.total, reopened.total)
	require.Equal(t, c.tail, reopened.tail)
	require.Equal(t, c.tailFill, reopened.tailFill)
}

func TestChain_EmptyChain(t *testing.T) {
	store := newMemStore()
	c, err := OpenChain(store, 0)
	require.NoError(t, err)
	require.Zero(t, c.First)
	require.Zero(t, c.Total())
}
