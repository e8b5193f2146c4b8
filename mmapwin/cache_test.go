package mmapwin

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, size int) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "mmapwin-*.journal")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(size)))
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCache_WriteAndReadBack(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)
	defer c.Close()

	payload := []byte("MESSAGE=hello world")
	require.NoError(t, c.WriteAt(Data, 4096, payload))

	got, err := c.CopyAt(Data, 4096, uint64(len(payload)))
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.False(t, c.Sigbus())
}

func TestCache_WindowReusedWithinRange(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)
	defer c.Close()

	require.NoError(t, c.WriteAt(Entry, 0, []byte("a")))
	w1 := c.windows[Entry].data

	require.NoError(t, c.WriteAt(Entry, 8, []byte("b")))
	w2 := c.windows[Entry].data

	require.Same(t, &w1[0], &w2[0])
}

func TestCache_WindowRemapsOutsideRange(t *testing.T) {
	f := tempFile(t, 4<<20)
	c := New(f, true)
	defer c.Close()

	require.NoError(t, c.WriteAt(EntryArray, 0, []byte("a")))
	first := c.windows[EntryArray].offset

	require.NoError(t, c.WriteAt(EntryArray, 2<<20, []byte("b")))
	second := c.windows[EntryArray].offset

	require.NotEqual(t, first, second)
}

func TestCache_ContextsIndependent(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)
	defer c.Close()

	require.NoError(t, c.WriteAt(Field, 0, []byte("x")))
	require.NoError(t, c.WriteAt(DataHashTable, 4096, []byte("y")))

	gotField, err := c.CopyAt(Field, 0, 1)
	require.NoError(t, err)
	require.Equal(t, []byte("x"), gotField)

	gotTable, err := c.CopyAt(DataHashTable, 4096, 1)
	require.NoError(t, err)
	require.Equal(t, []byte("y"), gotTable)
}

func TestCache_SyncNoActiveWindow(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)
	defer c.Close()

	require.NoError(t, c.Sync(Tag))
	require.NoError(t, c.SyncAll())
}

func TestCache_CloseIdempotent(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)

	require.NoError(t, c.WriteAt(Header, 0, []byte("hdr")))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestCache_ZeroSizeWindowIsNoop(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)
	defer c.Close()

	got, err := c.Window(Data, 0, 0)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCache_ClearSigbus(t *testing.T) {
	f := tempFile(t, 1<<20)
	c := New(f, true)
	defer c.Close()

	c.sigbus.Store(true)
	require.True(t, c.Sigbus())
	c.ClearSigbus()
	require.False(t, c.Sigbus())
}
