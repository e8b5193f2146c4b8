package hashindex

import (
	"bytes"

	"github.com/mightysai1997/sdjournal/compress"
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/internal/collision"
	"github.com/mightysai1997/sdjournal/internal/hash"
	"github.com/mightysai1997/sdjournal/wire"
)

// DataIndex is the data hash table (spec.md §4.4): deduplicates Data
// object payloads by (hash, size, bytewise-decompressed-payload).
type DataIndex struct {
	table *Table
}

// CreateDataIndex allocates a fresh data hash table with nBuckets
// buckets.
func CreateDataIndex(store Store, nBuckets uint64) (*DataIndex, error) {
	t, err := Create(store, format.ObjectDataHashTable, nBuckets)
	if err != nil {
		return nil, err
	}
	return &DataIndex{table: t}, nil
}

// OpenDataIndex binds a DataIndex to an existing table object.
func OpenDataIndex(store Store, offset uint64) (*DataIndex, error) {
	t, err := Open(store, format.ObjectDataHashTable, offset)
	if err != nil {
		return nil, err
	}
	return &DataIndex{table: t}, nil
}

// Offset returns the table's own object offset.
func (x *DataIndex) Offset() uint64 { return x.table.Offset() }

// Stats returns the chain-walk accumulator.
func (x *DataIndex) Stats() *collision.Stats { return x.table.stats }

// Find walks the bucket chain for payload and returns the matching
// Data object and its offset, or found=false.
func (x *DataIndex) Find(payload []byte) (offset uint64, obj wire.Data, found bool, err error) {
	key := hash.Bytes(payload)
	idx := x.table.bucketIndex(key)

	b, err := x.table.readBucket(idx)
	if err != nil {
		return 0, wire.Data{}, false, err
	}

	steps := 0
	cur := b.HeadHashOffset
	for cur != 0 {
		steps++

		hdr, err := readObjectHeader(x.table.store, cur)
		if err != nil {
			return 0, wire.Data{}, false, err
		}

		raw, err := x.table.store.ReadAt(cur, hdr.Size)
		if err != nil {
			return 0, wire.Data{}, false, err
		}

		var d wire.Data
		if err := d.Parse(raw); err != nil {
			return 0, wire.Data{}, false, err
		}

		if d.Hash == key {
			match, err := payloadEquals(d.Payload, d.CompressionKind(), payload)
			if err != nil {
				return 0, wire.Data{}, false, err
			}
			if match {
				x.table.stats.RecordWalk(steps)
				return cur, d, true, nil
			}
		}

		cur = d.NextHashOffset
	}

	x.table.stats.RecordWalk(max1(steps))

	return 0, wire.Data{}, false, nil
}

// InsertIfAbsent looks up payload; on miss it compresses (if the
// configured codec yields a smaller result) and appends a new Data
// object, linking it into the bucket chain.
func (x *DataIndex) InsertIfAbsent(payload []byte, kind format.CompressionKind, compressMinSize uint64) (offset uint64, created bool, err error) {
	if off, _, found, err := x.Find(payload); err != nil {
		return 0, false, err
	} else if found {
		return off, false, nil
	}

	stored := payload
	usedKind := format.CompressionNone
	if kind != format.CompressionNone && uint64(len(payload)) >= compressMinSize {
		codec, err := compress.GetCodec(kind)
		if err != nil {
			return 0, false, err
		}
		compressed, err := codec.Compress(payload)
		if err == nil && len(compressed) < len(payload) {
			stored = compressed
			usedKind = kind
		}
	}

	var d wire.Data
	d.SetPayload(stored, usedKind)
	d.Hash = hash.Bytes(payload)

	newOffset, err := x.table.store.Append(d.Bytes())
	if err != nil {
		return 0, false, err
	}

	key := d.Hash
	idx := x.table.bucketIndex(key)
	if err := x.table.appendToBucket(idx, newOffset, x.patchNextHashOffset); err != nil {
		return 0, false, err
	}

	return newOffset, true, nil
}

// ReadDataAt decodes the Data object at offset directly, without a hash
// lookup. Used by readers resolving an Entry's item offsets, which
// already know the exact offset and have no payload to hash against.
func ReadDataAt(store Store, offset uint64) (wire.Data, error) {
	hdr, err := readObjectHeader(store, offset)
	if err != nil {
		return wire.Data{}, err
	}

	raw, err := store.ReadAt(offset, hdr.Size)
	if err != nil {
		return wire.Data{}, err
	}

	var d wire.Data
	if err := d.Parse(raw); err != nil {
		return wire.Data{}, err
	}

	return d, nil
}

// patchNextHashOffset writes Data.NextHashOffset (byte 8 after the
// 16-byte object header, i.e. object offset+24) for the object at
// prevNodeOffset.
func (x *DataIndex) patchNextHashOffset(prevNodeOffset, nodeOffset uint64) error {
	raw := make([]byte, 8)
	endian.LittleEndian.PutUint64(raw, nodeOffset)
	return x.table.store.WriteAt(prevNodeOffset+24, raw)
}

func payloadEquals(stored []byte, kind format.CompressionKind, want []byte) (bool, error) {
	if kind == format.CompressionNone {
		return bytes.Equal(stored, want), nil
	}

	codec, err := compress.GetCodec(kind)
	if err != nil {
		return false, err
	}

	decompressed, err := codec.Decompress(stored)
	if err != nil {
		return false, err
	}

	return bytes.Equal(decompressed, want), nil
}

func max1(n int) int {
	if n == 0 {
		return 1
	}
	return n
}
