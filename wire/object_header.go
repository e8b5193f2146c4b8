package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// ObjectHeaderSize is the fixed 16-byte prefix of every object in the
// arena: type tag, flag byte, 6 reserved bytes, 8-byte size.
const ObjectHeaderSize = 16

// ObjectHeader is the common prefix every arena Object begins with
// (spec.md §3.2). Size is inclusive of the header itself.
type ObjectHeader struct {
	Type ObjectType
	Flag uint8
	Size uint64
}

// ObjectType is a local alias so wire's object structs can be built and
// tested independently of the format package's enum values where useful;
// it is assignment-compatible with format.ObjectType.
type ObjectType = format.ObjectType

// CompressionKind extracts the compression kind carried in a Data
// object's flag byte (the low three bits, format.ObjectCompressionMask).
func (h ObjectHeader) CompressionKind() format.CompressionKind {
	return format.CompressionKind(h.Flag & format.ObjectCompressionMask)
}

// Parse decodes an ObjectHeader from the first ObjectHeaderSize bytes of
// data. It does not validate Size against the type's minimum — callers
// combine this with the type-specific Parse for the full check.
func (h *ObjectHeader) Parse(data []byte) error {
	if len(data) < ObjectHeaderSize {
		return errs.ErrTruncated
	}

	t := format.ObjectType(data[0])
	if !t.Valid() {
		return errs.ErrCorrupt
	}

	h.Type = t
	h.Flag = data[1]
	// bytes 2-7 reserved, ignored on read
	h.Size = endian.LittleEndian.Uint64(data[8:16])

	if h.Size < ObjectHeaderSize || !format.IsAligned8(h.Size) {
		return errs.ErrCorrupt
	}

	return nil
}

// Bytes encodes h into a fresh ObjectHeaderSize-byte slice. Callers
// typically write this into the first 16 bytes of a larger object buffer
// rather than using this directly.
func (h ObjectHeader) Bytes() []byte {
	b := make([]byte, ObjectHeaderSize)
	b[0] = byte(h.Type)
	b[1] = h.Flag
	endian.LittleEndian.PutUint64(b[8:16], h.Size)

	return b
}
