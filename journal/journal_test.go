package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mightysai1997/sdjournal/entryindex"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, path string, opts ...Option) *File {
	t.Helper()
	opts = append([]Option{WithCompression(format.CompressionNone)}, opts...)
	f, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestAppendAndReadOneEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.journal")
	f := openTest(t, path)

	off, seqnum, err := f.AppendEntry(Timestamp{Realtime: 100, Monotonic: 1}, []Field{
		[]byte("MESSAGE=hello"),
		[]byte("PRIORITY=6"),
	}, 0)
	require.NoError(t, err)
	require.NotZero(t, off)
	require.EqualValues(t, 1, seqnum)

	r := NewReader(f)
	require.NoError(t, r.SeekHead())
	require.EqualValues(t, 1, r.Seqnum())
	require.Equal(t, 2, r.NumItems())

	item, err := r.ReadItem(0)
	require.NoError(t, err)
	require.Equal(t, "MESSAGE", item.Name)
	require.Equal(t, []byte("hello"), item.Value)
}

func TestAppendDedupsRepeatedField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedup.journal")
	f := openTest(t, path)

	_, _, err := f.AppendEntry(Timestamp{Realtime: 1}, []Field{[]byte("MESSAGE=same")}, 0)
	require.NoError(t, err)
	afterFirst := f.Stats()

	_, _, err = f.AppendEntry(Timestamp{Realtime: 2}, []Field{[]byte("MESSAGE=same")}, 0)
	require.NoError(t, err)
	afterSecond := f.Stats()

	require.EqualValues(t, 2, afterSecond.NEntries)
	require.Equal(t, afterFirst.NData, afterSecond.NData, "second append's identical payload must not create a new Data object")
	require.Equal(t, afterFirst.NFields, afterSecond.NFields, "the field name MESSAGE must not be re-inserted")
}

func TestSeekBySeqnum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.journal")
	f := openTest(t, path)

	for i := 0; i < 5; i++ {
		_, _, err := f.AppendEntry(Timestamp{Realtime: uint64(i) * 10}, []Field{[]byte("N=v")}, 0)
		require.NoError(t, err)
	}

	r := NewReader(f)
	require.NoError(t, r.SeekBySeqnum(3, entryindex.Down))
	require.EqualValues(t, 3, r.Seqnum())

	require.NoError(t, r.Next(entryindex.Down))
	require.EqualValues(t, 4, r.Seqnum())

	require.NoError(t, r.Next(entryindex.Up))
	require.EqualValues(t, 3, r.Seqnum())
}

func TestSeekByRealtimeWithDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.journal")
	f := openTest(t, path)

	realtimes := []uint64{100, 100, 200}
	for _, rt := range realtimes {
		_, _, err := f.AppendEntry(Timestamp{Realtime: rt}, []Field{[]byte("N=v")}, 0)
		require.NoError(t, err)
	}

	r := NewReader(f)
	require.NoError(t, r.SeekByRealtime(100, entryindex.Down))
	require.EqualValues(t, 1, r.Seqnum(), "Down seeks the ceiling: the first entry at or after realtime 100")

	r2 := NewReader(f)
	require.NoError(t, r2.SeekByRealtime(100, entryindex.Up))
	require.EqualValues(t, 2, r2.Seqnum(), "Up seeks the floor: the last entry at or before realtime 100")
}

func TestRotatePreservesSeqnumContinuity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rot.journal")
	f := openTest(t, path)

	_, _, err := f.AppendEntry(Timestamp{Realtime: 1}, []Field{[]byte("A=1")}, 0)
	require.NoError(t, err)
	_, lastSeqnum, err := f.AppendEntry(Timestamp{Realtime: 2}, []Field{[]byte("A=2")}, 0)
	require.NoError(t, err)

	seqnumID := f.SeqnumID()

	next, err := f.Rotate()
	require.NoError(t, err)
	t.Cleanup(func() { _ = next.Close() })

	require.Equal(t, seqnumID, next.SeqnumID(), "rotation must carry seqnum_id forward")

	_, seqnum, err := next.AppendEntry(Timestamp{Realtime: 3}, []Field{[]byte("A=3")}, 0)
	require.NoError(t, err)
	require.Equal(t, lastSeqnum+1, seqnum)

	entries, err := filepath.Glob(filepath.Join(filepath.Dir(path), "rot@*.journal"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "rotation must leave exactly one archived file behind")
}

func TestReaderSkipsCorruptEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.journal")
	f := openTest(t, path)

	_, _, err := f.AppendEntry(Timestamp{Realtime: 1}, []Field{[]byte("A=1")}, 0)
	require.NoError(t, err)
	off2, _, err := f.AppendEntry(Timestamp{Realtime: 2}, []Field{[]byte("A=2")}, 0)
	require.NoError(t, err)
	_, _, err = f.AppendEntry(Timestamp{Realtime: 3}, []Field{[]byte("A=3")}, 0)
	require.NoError(t, err)
	require.NoError(t, f.Flush())

	corruptObjectType(t, path, off2)

	r := NewReader(f)
	require.NoError(t, r.SeekHead())
	require.EqualValues(t, 1, r.Seqnum())

	require.NoError(t, r.Next(entryindex.Down))
	require.EqualValues(t, 3, r.Seqnum(), "the corrupted middle entry must be skipped, landing on seqnum 3")
}

// corruptObjectType overwrites the one-byte type tag of the object at
// offset with format.ObjectUnused, making it fail type validation on the
// next read without otherwise disturbing its recorded size.
func corruptObjectType(t *testing.T, path string, offset uint64) {
	t.Helper()

	fh, err := os.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer fh.Close()

	_, err = fh.WriteAt([]byte{byte(format.ObjectUnused)}, int64(offset))
	require.NoError(t, err)
}
