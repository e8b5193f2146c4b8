package hashindex

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/internal/collision"
	"github.com/mightysai1997/sdjournal/wire"
)

// Table is an open-chaining hash table (DataHashTable or FieldHashTable)
// bound to its on-disk offset and a Store it reads/patches through.
type Table struct {
	store  Store
	offset uint64
	typ    format.ObjectType

	nBuckets uint64
	stats    *collision.Stats
}

// Create allocates a new zeroed hash table with nBuckets buckets via
// store.Append and returns a bound Table.
func Create(store Store, typ format.ObjectType, nBuckets uint64) (*Table, error) {
	tbl := wire.NewHashTable(typ, nBuckets)
	offset, err := store.Append(tbl.Bytes())
	if err != nil {
		return nil, err
	}

	return &Table{
		store:    store,
		offset:   offset,
		typ:      typ,
		nBuckets: nBuckets,
		stats:    collision.NewStats(),
	}, nil
}

// Open binds a Table to an already-existing hash table object at offset,
// reading its bucket count from the object header.
func Open(store Store, typ format.ObjectType, offset uint64) (*Table, error) {
	hdr, err := readObjectHeader(store, offset)
	if err != nil {
		return nil, err
	}

	nBuckets := (hdr.Size - wire.ObjectHeaderSize) / wire.HashBucketSize

	return &Table{
		store:    store,
		offset:   offset,
		typ:      typ,
		nBuckets: nBuckets,
		stats:    collision.NewStats(),
	}, nil
}

// Offset returns the table object's file offset.
func (t *Table) Offset() uint64 { return t.offset }

// Stats returns the chain-walk accumulator for this table.
func (t *Table) Stats() *collision.Stats { return t.stats }

func (t *Table) bucketIndex(key uint64) uint64 {
	return key % t.nBuckets
}

func (t *Table) bucketOffset(idx uint64) uint64 {
	return t.offset + wire.ObjectHeaderSize + idx*wire.HashBucketSize
}

func (t *Table) readBucket(idx uint64) (wire.HashBucket, error) {
	raw, err := t.store.ReadAt(t.bucketOffset(idx), wire.HashBucketSize)
	if err != nil {
		return wire.HashBucket{}, err
	}

	e := endian.LittleEndian
	return wire.HashBucket{
		HeadHashOffset: e.Uint64(raw[0:8]),
		TailHashOffset: e.Uint64(raw[8:16]),
	}, nil
}

func (t *Table) writeBucket(idx uint64, b wire.HashBucket) error {
	raw := make([]byte, wire.HashBucketSize)
	e := endian.LittleEndian
	e.PutUint64(raw[0:8], b.HeadHashOffset)
	e.PutUint64(raw[8:16], b.TailHashOffset)

	return t.store.WriteAt(t.bucketOffset(idx), raw)
}

// appendToBucket links a freshly-allocated object (already at
// nodeOffset) as the new tail of the chain rooted at bucket idx. It
// patches either the previous tail's next-pointer or the bucket head,
// and updates the bucket's tail pointer. patchNext writes the 8-byte
// next-pointer field at the given absolute offset inside the previous
// tail object.
func (t *Table) appendToBucket(idx uint64, nodeOffset uint64, patchNext func(prevNodeOffset, nodeOffset uint64) error) error {
	b, err := t.readBucket(idx)
	if err != nil {
		return err
	}

	if b.HeadHashOffset == 0 {
		b.HeadHashOffset = nodeOffset
	} else if err := patchNext(b.TailHashOffset, nodeOffset); err != nil {
		return err
	}

	b.TailHashOffset = nodeOffset

	return t.writeBucket(idx, b)
}

func readObjectHeader(store Store, offset uint64) (wire.ObjectHeader, error) {
	raw, err := store.ReadAt(offset, wire.ObjectHeaderSize)
	if err != nil {
		return wire.ObjectHeader{}, err
	}

	var hdr wire.ObjectHeader
	if err := hdr.Parse(raw); err != nil {
		return wire.ObjectHeader{}, err
	}

	return hdr, nil
}
