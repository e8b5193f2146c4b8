package wire

import (
	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
)

// TagMACSize is the MAC length the engine's seal oracle produces (see
// the seal package); fixed at 32 bytes (HMAC-SHA256 output size).
const TagMACSize = 32

// tagFixedSize is the fixed prefix of a Tag object after ObjectHeader:
// seqnum, epoch, tag[TagMACSize].
const tagFixedSize = 8 + 8 + TagMACSize

// TagSize is the fixed (non-variable) size of a Tag object.
const TagSize = ObjectHeaderSize + tagFixedSize

// Tag is an optional seal checkpoint sealing all bytes since the
// previous Tag (spec.md §3.2). The storage core never interprets MAC; it
// is produced and verified by an opaque seal.Oracle collaborator.
type Tag struct {
	ObjectHeader

	Seqnum uint64
	Epoch  uint64
	MAC    [TagMACSize]byte
}

// Parse decodes a Tag object from data.
func (t *Tag) Parse(data []byte) error {
	if err := t.ObjectHeader.Parse(data); err != nil {
		return err
	}

	if t.ObjectHeader.Type != format.ObjectTag {
		return errs.ErrCorrupt
	}

	if t.Size != TagSize || uint64(len(data)) < t.Size {
		return errs.ErrCorrupt
	}

	e := endian.LittleEndian
	t.Seqnum = e.Uint64(data[16:24])
	t.Epoch = e.Uint64(data[24:32])
	copy(t.MAC[:], data[32:32+TagMACSize])

	return nil
}

// Bytes encodes t into a fresh TagSize-byte slice.
func (t *Tag) Bytes() []byte {
	b := make([]byte, TagSize)
	copy(b[0:16], t.ObjectHeader.Bytes())

	e := endian.LittleEndian
	e.PutUint64(b[16:24], t.Seqnum)
	e.PutUint64(b[24:32], t.Epoch)
	copy(b[32:32+TagMACSize], t.MAC[:])

	return b
}

// NewTag builds a Tag object with Type/Size set.
func NewTag(seqnum, epoch uint64, mac [TagMACSize]byte) Tag {
	return Tag{
		ObjectHeader: ObjectHeader{Type: format.ObjectTag, Size: TagSize},
		Seqnum:       seqnum,
		Epoch:        epoch,
		MAC:          mac,
	}
}
