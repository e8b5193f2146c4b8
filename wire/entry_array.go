package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// entryArrayFixedSize is the fixed prefix of an EntryArray object after
// ObjectHeader: next_entry_array_offset.
const entryArrayFixedSize = 8

// EntryArrayMinSize is the minimum valid size of an EntryArray object.
const EntryArrayMinSize = ObjectHeaderSize + entryArrayFixedSize

// EntryArrayItemSize is the size of one Entry-offset slot.
const EntryArrayItemSize = 8

// EntryArray is one link in a chain of geometrically-growing arrays of
// Entry offsets (spec.md §3.2, §4.5). The first array in a chain has 4
// slots; each subsequent array doubles its predecessor's slot count.
type EntryArray struct {
	ObjectHeader

	NextEntryArrayOffset uint64
	Items                []uint64 // Entry offsets; 0 marks an unused trailing slot
}

// Parse decodes an EntryArray object from data.
func (a *EntryArray) Parse(data []byte) error {
	if err := a.ObjectHeader.Parse(data); err != nil {
		return err
	}

	if a.ObjectHeader.Type != format.ObjectEntryArray {
		return errs.ErrCorrupt
	}

	if a.Size < EntryArrayMinSize || uint64(len(data)) < a.Size {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	a.NextEntryArrayOffset = e.Uint64(data[16:24])
	if !format.IsAligned8(a.NextEntryArrayOffset) {
		return errs.ErrCorrupt
	}

	itemsBytes := a.Size - EntryArrayMinSize
	if itemsBytes%EntryArrayItemSize != 0 {
		return errs.ErrCorrupt
	}

	n := itemsBytes / EntryArrayItemSize
	a.Items = make([]uint64, n)
	for i := range a.Items {
		base := EntryArrayMinSize + i*EntryArrayItemSize
		off := e.Uint64(data[base : base+8])
		if off != 0 && !format.IsAligned8(off) {
			return errs.ErrCorrupt
		}
		a.Items[i] = off
	}

	return nil
}

// Bytes encodes a into a fresh Size-byte slice.
func (a *EntryArray) Bytes() []byte {
	b := make([]byte, a.Size)
	copy(b[0:16], a.ObjectHeader.Bytes())

	e := endian.LittleEndian
	e.PutUint64(b[16:24], a.NextEntryArrayOffset)
	for i, off := range a.Items {
		base := EntryArrayMinSize + i*EntryArrayItemSize
		e.PutUint64(b[base:base+8], off)
	}

	return b
}

// NewEntryArray builds a zeroed EntryArray with capacity slots.
func NewEntryArray(capacity uint64) EntryArray {
	size := format.Align8(EntryArrayMinSize + capacity*EntryArrayItemSize)

	return EntryArray{
		ObjectHeader: ObjectHeader{Type: format.ObjectEntryArray, Size: size},
		Items:        make([]uint64, capacity),
	}
}

// FirstArrayCapacity is the slot count of the first array in any chain
// (spec.md §4.5).
const FirstArrayCapacity = 4

// NextArrayCapacity returns the slot count of the array that follows one
// with prevCapacity slots: geometric doubling (spec.md §4.5).
func NextArrayCapacity(prevCapacity uint64) uint64 {
	return prevCapacity * 2
}
