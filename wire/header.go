package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// HeaderSize is the fixed size of the file Header (spec.md §3.1). A file
// whose on-disk HeaderSize is smaller than this compiled-in value is an
// old-format file, and the journal package reports a rotate as suggested
// for it (spec.md §4.8). Parse does not enforce a minimum on the on-disk
// HeaderSize.
const HeaderSize = 240

// Header is the fixed-layout file header occupying the first HeaderSize
// bytes of a journal file. All fields are little-endian.
type Header struct {
	Signature          [8]byte  // 0-7
	CompatibleFlags    uint32   // 8-11
	IncompatibleFlags  uint32   // 12-15
	State              format.State // 16
	// bytes 17-23 reserved
	FileID             [16]byte // 24-39
	MachineID          [16]byte // 40-55
	BootID             [16]byte // 56-71
	SeqnumID           [16]byte // 72-87
	HeaderSize         uint64   // 88-95
	ArenaSize          uint64   // 96-103
	DataHashTableOffset  uint64 // 104-111
	DataHashTableSize    uint64 // 112-119
	FieldHashTableOffset uint64 // 120-127
	FieldHashTableSize   uint64 // 128-135
	TailObjectOffset   uint64   // 136-143
	NObjects           uint64   // 144-151
	NEntries           uint64   // 152-159
	NData              uint64   // 160-167
	NFields            uint64   // 168-175
	NTags              uint64   // 176-183
	NEntryArrays       uint64   // 184-191
	EntryArrayOffset   uint64   // 192-199, global chain head
	HeadEntrySeqnum    uint64   // 200-207
	TailEntrySeqnum    uint64   // 208-215
	HeadEntryRealtime  uint64   // 216-223
	TailEntryRealtime  uint64   // 224-231
	TailEntryMonotonic uint64   // 232-239
}

// Parse decodes a Header from exactly HeaderSize bytes, validating the
// signature, alignment, and the invariants spec.md §3.1 names:
// header_size + arena_size ≤ file_size is left to the caller (who knows
// the real file size); the four table/array offsets must be 8-byte
// aligned; tail_object_offset must be within [0, header_size+arena_size).
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrTruncated
	}

	copy(h.Signature[:], data[0:8])
	if h.Signature != format.Signature {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	h.CompatibleFlags = e.Uint32(data[8:12])
	h.IncompatibleFlags = e.Uint32(data[12:16])
	h.State = format.State(data[16])

	if h.IncompatibleFlags&^format.KnownIncompatibleFlags != 0 {
		return errs.ErrIncompatible
	}

	copy(h.FileID[:], data[24:40])
	copy(h.MachineID[:], data[40:56])
	copy(h.BootID[:], data[56:72])
	copy(h.SeqnumID[:], data[72:88])

	h.HeaderSize = e.Uint64(data[88:96])
	h.ArenaSize = e.Uint64(data[96:104])
	h.DataHashTableOffset = e.Uint64(data[104:112])
	h.DataHashTableSize = e.Uint64(data[112:120])
	h.FieldHashTableOffset = e.Uint64(data[120:128])
	h.FieldHashTableSize = e.Uint64(data[128:136])
	h.TailObjectOffset = e.Uint64(data[136:144])
	h.NObjects = e.Uint64(data[144:152])
	h.NEntries = e.Uint64(data[152:160])
	h.NData = e.Uint64(data[160:168])
	h.NFields = e.Uint64(data[168:176])
	h.NTags = e.Uint64(data[176:184])
	h.NEntryArrays = e.Uint64(data[184:192])
	h.EntryArrayOffset = e.Uint64(data[192:200])
	h.HeadEntrySeqnum = e.Uint64(data[200:208])
	h.TailEntrySeqnum = e.Uint64(data[208:216])
	h.HeadEntryRealtime = e.Uint64(data[216:224])
	h.TailEntryRealtime = e.Uint64(data[224:232])
	h.TailEntryMonotonic = e.Uint64(data[232:240])

	return h.validateOffsets()
}

func (h *Header) validateOffsets() error {
	for _, off := range []uint64{
		h.DataHashTableOffset, h.FieldHashTableOffset,
		h.TailObjectOffset, h.EntryArrayOffset,
	} {
		if !format.IsAligned8(off) {
			return errs.ErrCorrupt
		}
	}

	if h.TailObjectOffset != 0 && h.TailObjectOffset >= h.HeaderSize+h.ArenaSize {
		return errs.ErrCorrupt
	}

	if h.HeaderSize != 0 && (h.DataHashTableSize > 0) != (h.DataHashTableOffset > 0) {
		return errs.ErrCorrupt
	}

	return nil
}

// Bytes encodes h into a fresh HeaderSize-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	e := endian.LittleEndian

	copy(b[0:8], h.Signature[:])
	e.PutUint32(b[8:12], h.CompatibleFlags)
	e.PutUint32(b[12:16], h.IncompatibleFlags)
	b[16] = byte(h.State)

	copy(b[24:40], h.FileID[:])
	copy(b[40:56], h.MachineID[:])
	copy(b[56:72], h.BootID[:])
	copy(b[72:88], h.SeqnumID[:])

	e.PutUint64(b[88:96], h.HeaderSize)
	e.PutUint64(b[96:104], h.ArenaSize)
	e.PutUint64(b[104:112], h.DataHashTableOffset)
	e.PutUint64(b[112:120], h.DataHashTableSize)
	e.PutUint64(b[120:128], h.FieldHashTableOffset)
	e.PutUint64(b[128:136], h.FieldHashTableSize)
	e.PutUint64(b[136:144], h.TailObjectOffset)
	e.PutUint64(b[144:152], h.NObjects)
	e.PutUint64(b[152:160], h.NEntries)
	e.PutUint64(b[160:168], h.NData)
	e.PutUint64(b[168:176], h.NFields)
	e.PutUint64(b[176:184], h.NTags)
	e.PutUint64(b[184:192], h.NEntryArrays)
	e.PutUint64(b[192:200], h.EntryArrayOffset)
	e.PutUint64(b[200:208], h.HeadEntrySeqnum)
	e.PutUint64(b[208:216], h.TailEntrySeqnum)
	e.PutUint64(b[216:224], h.HeadEntryRealtime)
	e.PutUint64(b[224:232], h.TailEntryRealtime)
	e.PutUint64(b[232:240], h.TailEntryMonotonic)

	return b
}

// FillRatio returns the fill level of a hash table sized size, given its
// occupied bucket/entry count n — used by the rotate-suggested heuristic
// (spec.md §4.8).
func FillRatio(n, size uint64) float64 {
	if size == 0 {
		return 0
	}

	return float64(n) / float64(size)
}
