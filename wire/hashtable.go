package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// HashBucketSize is the size of one bucket entry: head and tail offsets
// of the bucket's chain (spec.md §4.4).
const HashBucketSize = 16

// HashBucket is one slot of a DataHashTable or FieldHashTable: the head
// and tail of the intrusive chain threaded through the objects
// themselves, letting append be O(1) via TailHashOffset.
type HashBucket struct {
	HeadHashOffset uint64
	TailHashOffset uint64
}

// HashTable is the shared codec for DataHashTable and FieldHashTable
// objects (spec.md §3.2); the distinct ObjectType tag is what tells a
// reader which one it is looking at.
type HashTable struct {
	ObjectHeader

	Buckets []HashBucket
}

// Parse decodes a HashTable object of the given expected type from data.
func (t *HashTable) Parse(data []byte, want format.ObjectType) error {
	if err := t.ObjectHeader.Parse(data); err != nil {
		return err
	}

	if t.ObjectHeader.Type != want {
		return errs.ErrCorrupt
	}

	bytesLen := t.Size - ObjectHeaderSize
	if bytesLen == 0 || bytesLen%HashBucketSize != 0 || uint64(len(data)) < t.Size {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	n := bytesLen / HashBucketSize
	t.Buckets = make([]HashBucket, n)
	for i := range t.Buckets {
		base := ObjectHeaderSize + i*HashBucketSize
		head := e.Uint64(data[base : base+8])
		tail := e.Uint64(data[base+8 : base+16])

		if !format.IsAligned8(head) || !format.IsAligned8(tail) {
			return errs.ErrCorrupt
		}
		if (head == 0) != (tail == 0) {
			return errs.ErrCorrupt
		}

		t.Buckets[i] = HashBucket{HeadHashOffset: head, TailHashOffset: tail}
	}

	return nil
}

// Bytes encodes t into a fresh Size-byte slice.
func (t *HashTable) Bytes() []byte {
	b := make([]byte, t.Size)
	copy(b[0:ObjectHeaderSize], t.ObjectHeader.Bytes())

	e := endian.LittleEndian
	for i, bucket := range t.Buckets {
		base := ObjectHeaderSize + i*HashBucketSize
		e.PutUint64(b[base:base+8], bucket.HeadHashOffset)
		e.PutUint64(b[base+8:base+16], bucket.TailHashOffset)
	}

	return b
}

// NewHashTable builds a zeroed HashTable with exactly nBuckets buckets
// (spec.md §4.4). The count is taken as given: no sizing against the max
// file size or DefaultRotateFillThreshold is done here or by the journal
// package, whose defaults are fixed bucket counts.
func NewHashTable(typ format.ObjectType, nBuckets uint64) HashTable {
	size := format.Align8(ObjectHeaderSize + nBuckets*HashBucketSize)

	return HashTable{
		ObjectHeader: ObjectHeader{Type: typ, Size: size},
		Buckets:      make([]HashBucket, nBuckets),
	}
}

// DataHashTable decodes a DataHashTable object.
type DataHashTable struct{ HashTable }

func (t *DataHashTable) Parse(data []byte) error {
	return t.HashTable.Parse(data, format.ObjectDataHashTable)
}

// FieldHashTable decodes a FieldHashTable object.
type FieldHashTable struct{ HashTable }

func (t *FieldHashTable) Parse(data []byte) error {
	return t.HashTable.Parse(data, format.ObjectFieldHashTable)
}
