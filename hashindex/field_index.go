package hashindex

import (
	"bytes"

	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/internal/collision"
	"github.com/mightysai1997/sdjournal/internal/hash"
	"github.com/mightysai1997/sdjournal/wire"
)

// FieldIndex is the field hash table (spec.md §4.4): deduplicates field
// names (the text preceding '=' in an entry item).
type FieldIndex struct {
	table *Table
}

// CreateFieldIndex allocates a fresh field hash table with nBuckets
// buckets.
func CreateFieldIndex(store Store, nBuckets uint64) (*FieldIndex, error) {
	t, err := Create(store, format.ObjectFieldHashTable, nBuckets)
	if err != nil {
		return nil, err
	}
	return &FieldIndex{table: t}, nil
}

// OpenFieldIndex binds a FieldIndex to an existing table object.
func OpenFieldIndex(store Store, offset uint64) (*FieldIndex, error) {
	t, err := Open(store, format.ObjectFieldHashTable, offset)
	if err != nil {
		return nil, err
	}
	return &FieldIndex{table: t}, nil
}

// Offset returns the table's own object offset.
func (x *FieldIndex) Offset() uint64 { return x.table.Offset() }

// Stats returns the chain-walk accumulator.
func (x *FieldIndex) Stats() *collision.Stats { return x.table.stats }

// Find walks the bucket chain for name and returns the matching Field
// object and its offset, or found=false.
func (x *FieldIndex) Find(name []byte) (offset uint64, obj wire.Field, found bool, err error) {
	key := hash.Bytes(name)
	idx := x.table.bucketIndex(key)

	b, err := x.table.readBucket(idx)
	if err != nil {
		return 0, wire.Field{}, false, err
	}

	steps := 0
	cur := b.HeadHashOffset
	for cur != 0 {
		steps++

		hdr, err := readObjectHeader(x.table.store, cur)
		if err != nil {
			return 0, wire.Field{}, false, err
		}

		raw, err := x.table.store.ReadAt(cur, hdr.Size)
		if err != nil {
			return 0, wire.Field{}, false, err
		}

		var f wire.Field
		if err := f.Parse(raw); err != nil {
			return 0, wire.Field{}, false, err
		}

		if f.Hash == key && bytes.Equal(f.Payload, name) {
			x.table.stats.RecordWalk(steps)
			return cur, f, true, nil
		}

		cur = f.NextHashOffset
	}

	x.table.stats.RecordWalk(max1(steps))

	return 0, wire.Field{}, false, nil
}

// InsertIfAbsent looks up name; on miss it appends a new Field object
// and links it into the bucket chain.
func (x *FieldIndex) InsertIfAbsent(name []byte) (offset uint64, created bool, err error) {
	if off, _, found, err := x.Find(name); err != nil {
		return 0, false, err
	} else if found {
		return off, false, nil
	}

	var f wire.Field
	f.SetPayload(name)
	f.Hash = hash.Bytes(name)

	newOffset, err := x.table.store.Append(f.Bytes())
	if err != nil {
		return 0, false, err
	}

	idx := x.table.bucketIndex(f.Hash)
	if err := x.table.appendToBucket(idx, newOffset, x.patchNextHashOffset); err != nil {
		return 0, false, err
	}

	return newOffset, true, nil
}

// patchNextHashOffset writes Field.NextHashOffset (absolute offset+24)
// for the object at prevNodeOffset.
func (x *FieldIndex) patchNextHashOffset(prevNodeOffset, nodeOffset uint64) error {
	raw := make([]byte, 8)
	endian.LittleEndian.PutUint64(raw, nodeOffset)
	return x.table.store.WriteAt(prevNodeOffset+24, raw)
}

// LinkData prepends dataOffset to fieldOffset's per-name Data list: the
// new Data becomes Field.HeadDataOffset, chained to the previous head via
// Data.NextFieldOffset (absolute dataOffset+32).
func (x *FieldIndex) LinkData(fieldOffset, dataOffset uint64) error {
	raw, err := x.table.store.ReadAt(fieldOffset, wire.FieldMinSize)
	if err != nil {
		return err
	}

	// Only the fixed prefix is needed to read HeadDataOffset; avoid a
	// full Parse since the payload tail isn't available in this read.
	prevHead := endian.LittleEndian.Uint64(raw[32:40])

	nextFieldRaw := make([]byte, 8)
	endian.LittleEndian.PutUint64(nextFieldRaw, prevHead)
	if err := x.table.store.WriteAt(dataOffset+32, nextFieldRaw); err != nil {
		return err
	}

	headRaw := make([]byte, 8)
	endian.LittleEndian.PutUint64(headRaw, dataOffset)
	return x.table.store.WriteAt(fieldOffset+32, headRaw)
}
