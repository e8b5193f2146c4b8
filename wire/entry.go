package wire

import (
	"sort"

	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// EntryItemSize is the size of one (data_offset, data_hash) pair within
// an Entry's item array.
const EntryItemSize = 16

// entryFixedSize is the fixed prefix of an Entry object after
// ObjectHeader: seqnum, realtime, monotonic, boot_id[16], xor_hash.
const entryFixedSize = 8 + 8 + 8 + 16 + 8

// EntryMinSize is the minimum valid size of an Entry object (zero items
// is not itself meaningful, but is the structural floor).
const EntryMinSize = ObjectHeaderSize + entryFixedSize

// EntryItem references one Data object an Entry carries, plus a copy of
// that Data's hash for cheap verification without a second dereference
// (spec.md §8: "every E.items[i].data_offset points to a valid Data whose
// (hash, payload) matches E.items[i].hash bytewise").
type EntryItem struct {
	DataOffset uint64
	DataHash   uint64
}

// Entry is a single log record (spec.md §3.2). Items must be sorted by
// DataOffset ascending (seek-locality, deterministic on read).
type Entry struct {
	ObjectHeader

	Seqnum    uint64
	Realtime  uint64 // wall-clock microseconds
	Monotonic uint64
	BootID    [16]byte
	XorHash   uint64 // XOR of all item DataHash values

	Items []EntryItem
}

// Parse decodes an Entry object from data.
func (en *Entry) Parse(data []byte) error {
	if err := en.ObjectHeader.Parse(data); err != nil {
		return err
	}

	if en.ObjectHeader.Type != format.ObjectEntry {
		return errs.ErrCorrupt
	}

	if en.Size < EntryMinSize || uint64(len(data)) < en.Size {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	en.Seqnum = e.Uint64(data[16:24])
	en.Realtime = e.Uint64(data[24:32])
	en.Monotonic = e.Uint64(data[32:40])
	copy(en.BootID[:], data[40:56])
	en.XorHash = e.Uint64(data[56:64])

	if en.Seqnum < 1 {
		return errs.ErrCorrupt
	}

	itemsBytes := en.Size - EntryMinSize
	if itemsBytes%EntryItemSize != 0 {
		return errs.ErrCorrupt
	}

	n := itemsBytes / EntryItemSize
	en.Items = make([]EntryItem, n)

	var xor uint64
	var prevOffset uint64
	for i := range en.Items {
		base := EntryMinSize + i*EntryItemSize
		off := e.Uint64(data[base : base+8])
		hash := e.Uint64(data[base+8 : base+16])

		if !format.IsAligned8(off) {
			return errs.ErrCorrupt
		}
		// spec.md §3.2: items sorted by data_offset ascending
		if i > 0 && off <= prevOffset {
			return errs.ErrCorrupt
		}

		en.Items[i] = EntryItem{DataOffset: off, DataHash: hash}
		xor ^= hash
		prevOffset = off
	}

	if n > 0 && xor != en.XorHash {
		return errs.ErrCorrupt
	}

	return nil
}

// Bytes encodes en into a fresh Size-byte slice.
func (en *Entry) Bytes() []byte {
	b := make([]byte, en.Size)
	copy(b[0:16], en.ObjectHeader.Bytes())

	e := endian.LittleEndian
	e.PutUint64(b[16:24], en.Seqnum)
	e.PutUint64(b[24:32], en.Realtime)
	e.PutUint64(b[32:40], en.Monotonic)
	copy(b[40:56], en.BootID[:])
	e.PutUint64(b[56:64], en.XorHash)

	for i, item := range en.Items {
		base := EntryMinSize + i*EntryItemSize
		e.PutUint64(b[base:base+8], item.DataOffset)
		e.PutUint64(b[base+8:base+16], item.DataHash)
	}

	return b
}

// SetItems sorts items by DataOffset, installs them, recomputes XorHash,
// and sets Type/Size consistently (spec.md §4.6 step 3).
func (en *Entry) SetItems(items []EntryItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].DataOffset < items[j].DataOffset })

	en.ObjectHeader.Type = format.ObjectEntry
	en.Items = items
	en.Size = format.Align8(EntryMinSize + uint64(len(items))*EntryItemSize)

	var xor uint64
	for _, it := range items {
		xor ^= it.DataHash
	}
	en.XorHash = xor
}
