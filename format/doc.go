// Package format defines the on-disk enums and bit layouts shared by the
// storage engine: object type tags, header state, and the compatible /
// incompatible feature flags. It is the low-level vocabulary the wire
// package's fixed-layout structs are built from, mirroring how the
// teacher project separates its enum package (format) from its
// fixed-layout-struct package (section).
//
// # Object types
//
// Every object in the arena starts with a one-byte type tag. Tag 0 is
// reserved as the "unused" placeholder; tags 1-7 are the object kinds
// described in the data model (Data, Field, Entry, the two hash tables,
// EntryArray, Tag).
//
// # Feature flags
//
// Two flag words live in the header: CompatibleFlags (readers may ignore
// unknown bits) and IncompatibleFlags (readers must refuse to open on
// unknown bits). Sealing is compatible; the compression variants are
// incompatible, since a reader that can't decompress a Data payload can't
// produce correct output at all.
package format
