package entryindex

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/wire"
)

// Chain is one chain of geometrically-growing EntryArrays: either the
// global chain rooted at Header.EntryArrayOffset, or a per-Data chain
// rooted at Data.EntryArrayOffset (the Data's first reference lives
// inline in Data.EntryOffset and is not part of this chain).
type Chain struct {
	First uint64 // offset of the first array, 0 if the chain is empty

	tail     uint64 // offset of the current tail array
	tailCap  uint64
	tailFill uint64
	total    uint64
}

// OpenChain reconstructs a Chain's tail position by walking from first.
// Walking is O(number of arrays) = O(log total items). journal calls it
// once at open for the global chain, and on every append for each
// referenced Data object's per-data chain.
func OpenChain(store Store, first uint64) (*Chain, error) {
	c := &Chain{First: first}
	if first == 0 {
		return c, nil
	}

	offset := first
	for {
		arr, err := readEntryArray(store, offset)
		if err != nil {
			return nil, err
		}

		fill := fillCount(arr.Items)
		if arr.NextEntryArrayOffset == 0 {
			c.tail = offset
			c.tailCap = uint64(len(arr.Items))
			c.tailFill = fill
			c.total += fill
			return c, nil
		}

		c.total += fill
		offset = arr.NextEntryArrayOffset
	}
}

// fillCount returns the number of leading non-zero slots. Offset 0 never
// denotes a valid object (it falls inside the header), so it safely
// marks an unused trailing slot.
func fillCount(items []uint64) uint64 {
	for i, v := range items {
		if v == 0 {
			return uint64(i)
		}
	}
	return uint64(len(items))
}

// Total returns the number of items appended to this chain so far.
func (c *Chain) Total() uint64 { return c.total }

// Append adds itemOffset to the end of the chain, allocating a new,
// double-capacity array when the tail is full (spec.md §4.5). Returns
// the chain's first-array offset, which the caller must persist back
// into Header.EntryArrayOffset or Data.EntryArrayOffset if it changed
// (i.e. the chain was previously empty).
func (c *Chain) Append(store Store, itemOffset uint64) (first uint64, err error) {
	if c.First == 0 {
		arr := wire.NewEntryArray(wire.FirstArrayCapacity)
		arr.Items[0] = itemOffset

		offset, err := store.Append(arr.Bytes())
		if err != nil {
			return 0, err
		}

		c.First = offset
		c.tail = offset
		c.tailCap = wire.FirstArrayCapacity
		c.tailFill = 1
		c.total = 1

		return c.First, nil
	}

	if c.tailFill < c.tailCap {
		if err := writeItem(store, c.tail, c.tailFill, itemOffset); err != nil {
			return 0, err
		}
		c.tailFill++
		c.total++
		return c.First, nil
	}

	newCap := wire.NextArrayCapacity(c.tailCap)
	arr := wire.NewEntryArray(newCap)
	arr.Items[0] = itemOffset

	newOffset, err := store.Append(arr.Bytes())
	if err != nil {
		return 0, err
	}

	if err := writeNextEntryArrayOffset(store, c.tail, newOffset); err != nil {
		return 0, err
	}

	c.tail = newOffset
	c.tailCap = newCap
	c.tailFill = 1
	c.total++

	return c.First, nil
}

func readEntryArray(store Store, offset uint64) (wire.EntryArray, error) {
	hdr, err := readObjectHeader(store, offset)
	if err != nil {
		return wire.EntryArray{}, err
	}

	raw, err := store.ReadAt(offset, hdr.Size)
	if err != nil {
		return wire.EntryArray{}, err
	}

	var a wire.EntryArray
	if err := a.Parse(raw); err != nil {
		return wire.EntryArray{}, err
	}

	return a, nil
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

func writeItem(store Store, arrayOffset uint64, index uint64, itemOffset uint64) error {
	raw := make([]byte, wire.EntryArrayItemSize)
	endian.LittleEndian.PutUint64(raw, itemOffset)

	base := arrayOffset + wire.EntryArrayMinSize + index*wire.EntryArrayItemSize
	return store.WriteAt(base, raw)
}

func writeNextEntryArrayOffset(store Store, arrayOffset, next uint64) error {
	raw := make([]byte, 8)
	endian.LittleEndian.PutUint64(raw, next)
	return store.WriteAt(arrayOffset+wire.ObjectHeaderSize, raw)
}

// readEntry reads and decodes the Entry object at offset.
func readEntry(store Store, offset uint64) (wire.Entry, error) {
	hdr, err := readObjectHeader(store, offset)
	if err != nil {
		return wire.Entry{}, err
	}

	raw, err := store.ReadAt(offset, hdr.Size)
	if err != nil {
		return wire.Entry{}, err
	}

	var en wire.Entry
	if err := en.Parse(raw); err != nil {
		return wire.Entry{}, err
	}

	return en, nil
}
