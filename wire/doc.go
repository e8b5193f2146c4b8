// Package wire implements the on-disk object codec: the fixed-layout file
// Header and the seven typed Objects (Data, Field, Entry, DataHashTable,
// FieldHashTable, EntryArray, Tag) that make up the arena.
//
// Every type follows the same two-method shape as the teacher's
// section.NumericHeader: Parse([]byte) error decodes from a byte slice
// (returning errs.ErrCorrupt on any layout violation) and Bytes() []byte
// encodes back. Every object is prefixed by a fixed 16-byte ObjectHeader
// (type tag, flag byte, 6 reserved bytes, 8-byte size) so a caller can
// read the minimal header first, confirm the type and size, and only then
// decode the type-specific tail.
//
// All integers are little-endian (endian.LittleEndian); all sizes and
// offsets are validated 8-byte aligned. This package never maps or reads
// the file itself — it only parses bytes a caller (mmapwin, journal)
// already has in hand.
package wire
