package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// fieldFixedSize is the fixed prefix of a Field object after
// ObjectHeader: hash, next_hash_offset, head_data_offset, payload_len.
const fieldFixedSize = 4 * 8

// FieldMinSize is the minimum valid size of a Field object.
const FieldMinSize = ObjectHeaderSize + fieldFixedSize

// Field is a deduplicated field name, the text preceding '=' in a
// "NAME=value" entry item (spec.md §3.2).
//
// Size is the 8-byte-aligned allocation length; PayloadLen is the exact
// byte count of the name before the trailing alignment pad.
type Field struct {
	ObjectHeader

	Hash           uint64
	NextHashOffset uint64 // next Field in this bucket's chain
	HeadDataOffset uint64 // head of the per-name Data list (via Data.NextFieldOffset)
	PayloadLen     uint64 // exact length of Payload, <= Size - FieldMinSize

	Payload []byte // the field name bytes, exact length, unpadded
}

// Parse decodes a Field object from data.
func (f *Field) Parse(data []byte) error {
	if err := f.ObjectHeader.Parse(data); err != nil {
		return err
	}

	if f.ObjectHeader.Type != format.ObjectField {
		return errs.ErrCorrupt
	}

	if f.Size < FieldMinSize || uint64(len(data)) < f.Size {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	f.Hash = e.Uint64(data[16:24])
	f.NextHashOffset = e.Uint64(data[24:32])
	f.HeadDataOffset = e.Uint64(data[32:40])
	f.PayloadLen = e.Uint64(data[40:48])

	for _, off := range []uint64{f.NextHashOffset, f.HeadDataOffset} {
		if !format.IsAligned8(off) {
			return errs.ErrCorrupt
		}
	}

	if f.PayloadLen > f.Size-FieldMinSize {
		return errs.ErrCorrupt
	}
	f.Payload = data[FieldMinSize : FieldMinSize+f.PayloadLen]

	return nil
}

// Bytes encodes f into a fresh Size-byte slice.
func (f *Field) Bytes() []byte {
	b := make([]byte, f.Size)
	copy(b[0:16], f.ObjectHeader.Bytes())

	e := endian.LittleEndian
	e.PutUint64(b[16:24], f.Hash)
	e.PutUint64(b[24:32], f.NextHashOffset)
	e.PutUint64(b[32:40], f.HeadDataOffset)
	e.PutUint64(b[40:48], f.PayloadLen)
	copy(b[FieldMinSize:], f.Payload)

	return b
}

// SetPayload installs the field name bytes and sets Type/Size/PayloadLen.
func (f *Field) SetPayload(name []byte) {
	f.ObjectHeader.Type = format.ObjectField
	f.Payload = name
	f.PayloadLen = uint64(len(name))
	f.Size = format.Align8(FieldMinSize + uint64(len(name)))
}
