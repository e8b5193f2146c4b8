package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// dataFixedSize is the fixed prefix of a Data object after ObjectHeader:
// hash, next_hash_offset, next_field_offset, entry_offset,
// entry_array_offset, n_entries, payload_len — seven uint64 fields.
const dataFixedSize = 7 * 8

// DataMinSize is the minimum valid size of a Data object (empty payload).
const DataMinSize = ObjectHeaderSize + dataFixedSize

// Data is a deduplicated field payload (spec.md §3.2). Payload may be
// compressed; ObjectHeader.Flag's low bits (format.ObjectCompressionMask)
// say which codec produced it.
//
// Size is the 8-byte-aligned allocation length; PayloadLen is the exact
// byte count of Payload before the trailing alignment pad, so a payload
// whose length isn't a multiple of 8 round-trips without picking up
// padding NULs.
type Data struct {
	ObjectHeader

	Hash             uint64
	NextHashOffset   uint64 // next Data in this bucket's chain
	NextFieldOffset  uint64 // next Data sharing the same field name
	EntryOffset      uint64 // first referencing Entry ("extra" slot)
	EntryArrayOffset uint64 // head of the chain of further referencing entries
	NEntries         uint64
	PayloadLen       uint64 // exact length of Payload, <= Size - DataMinSize

	Payload []byte // possibly compressed; exact length, unpadded
}

// Parse decodes a Data object from data, which must contain at least
// ObjectHeader.Size bytes (spec.md §4.1: refuse on size below the type's
// minimum, or on object-level invariant violations).
func (d *Data) Parse(data []byte) error {
	if err := d.ObjectHeader.Parse(data); err != nil {
		return err
	}

	if d.ObjectHeader.Type != format.ObjectData {
		return errs.ErrCorrupt
	}

	if d.Size < DataMinSize || uint64(len(data)) < d.Size {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	d.Hash = e.Uint64(data[16:24])
	d.NextHashOffset = e.Uint64(data[24:32])
	d.NextFieldOffset = e.Uint64(data[32:40])
	d.EntryOffset = e.Uint64(data[40:48])
	d.EntryArrayOffset = e.Uint64(data[48:56])
	d.NEntries = e.Uint64(data[56:64])
	d.PayloadLen = e.Uint64(data[64:72])

	for _, off := range []uint64{d.NextHashOffset, d.NextFieldOffset, d.EntryOffset, d.EntryArrayOffset} {
		if !format.IsAligned8(off) {
			return errs.ErrCorrupt
		}
	}

	// spec.md §3.2: (entry_offset == 0) ⇔ (n_entries == 0)
	if (d.EntryOffset == 0) != (d.NEntries == 0) {
		return errs.ErrCorrupt
	}

	if d.PayloadLen > d.Size-DataMinSize {
		return errs.ErrCorrupt
	}
	d.Payload = data[DataMinSize : DataMinSize+d.PayloadLen]

	return nil
}

// Bytes encodes d into a fresh Size-byte slice. Callers must have already
// set Size = format.Align8(DataMinSize + len(Payload)) and zero-padded
// Payload accordingly, or call SetPayload.
func (d *Data) Bytes() []byte {
	b := make([]byte, d.Size)
	copy(b[0:16], d.ObjectHeader.Bytes())

	e := endian.LittleEndian
	e.PutUint64(b[16:24], d.Hash)
	e.PutUint64(b[24:32], d.NextHashOffset)
	e.PutUint64(b[32:40], d.NextFieldOffset)
	e.PutUint64(b[40:48], d.EntryOffset)
	e.PutUint64(b[48:56], d.EntryArrayOffset)
	e.PutUint64(b[56:64], d.NEntries)
	e.PutUint64(b[64:72], d.PayloadLen)
	copy(b[DataMinSize:], d.Payload)

	return b
}

// SetPayload installs payload and sets Type/Size/PayloadLen/Flag
// consistently. kind records which compressor (if any) produced payload.
// Size is the 8-byte-aligned allocation length; PayloadLen preserves
// payload's exact length so Parse can recover it without the alignment
// pad.
func (d *Data) SetPayload(payload []byte, kind format.CompressionKind) {
	d.ObjectHeader.Type = format.ObjectData
	d.Flag = (d.Flag &^ format.ObjectCompressionMask) | uint8(kind)
	d.Payload = payload
	d.PayloadLen = uint64(len(payload))
	d.Size = format.Align8(DataMinSize + uint64(len(payload)))
}
