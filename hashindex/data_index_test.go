package hashindex

import (
	"testing"

	"github.com/mightysai1997/sdjournal/format"
	"github.com/stretchr/testify/require"
)

func TestDataIndex_InsertAndFind(t *testing.T) {
	store := newMemStore()
	idx, err := CreateDataIndex(store, 8)
	require.NoError(t, err)

	off1, created, err := idx.InsertIfAbsent([]byte("MESSAGE=hello world"), format.CompressionNone, 1<<20)
	require.NoError(t, err)
	require.True(t, created)

	off2, created, err := idx.InsertIfAbsent([]byte("MESSAGE=hello world"), format.CompressionNone, 1<<20)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, off1, off2)

	foundOff, obj, found, err := idx.Find([]byte("MESSAGE=hello world"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, off1, foundOff)
	require.Equal(t, []byte("MESSAGE=hello world"), obj.Payload)
}

func TestDataIndex_DistinctPayloadsDistinctOffsets(t *testing.T) {
	store := newMemStore()
	idx, err := CreateDataIndex(store, 4)
	require.NoError(t, err)

	off1, _, err := idx.InsertIfAbsent([]byte("MESSAGE=a"), format.CompressionNone, 1<<20)
	require.NoError(t, err)
	off2, _, err := idx.InsertIfAbsent([]byte("MESSAGE=b"), format.CompressionNone, 1<<20)
	require.NoError(t, err)

	require.NotEqual(t, off1, off2)
}

func TestDataIndex_BucketChainWalk(t *testing.T) {
	store := newMemStore()
	// single bucket forces every insert into the same chain
	idx, err := CreateDataIndex(store, 1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err := idx.InsertIfAbsent([]byte{byte(i)}, format.CompressionNone, 1<<20)
		require.NoError(t, err)
	}

	_, _, found, err := idx.Find([]byte{4})
	require.NoError(t, err)
	require.True(t, found)
	require.Greater(t, idx.Stats().Lookups(), uint64(0))
}

func TestDataIndex_NotFound(t *testing.T) {
	store := newMemStore()
	idx, err := CreateDataIndex(store, 4)
	require.NoError(t, err)

	_, _, found, err := idx.Find([]byte("nope"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestDataIndex_CompressesLargePayload(t *testing.T) {
	store := newMemStore()
	idx, err := CreateDataIndex(store, 4)
	require.NoError(t, err)

	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = 'A'
	}

	off, created, err := idx.InsertIfAbsent(payload, format.CompressionLZ4, 16)
	require.NoError(t, err)
	require.True(t, created)

	foundOff, obj, found, err := idx.Find(payload)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, off, foundOff)
	require.Less(t, len(obj.Payload), len(payload))
	require.Equal(t, format.CompressionLZ4, obj.CompressionKind())
}
