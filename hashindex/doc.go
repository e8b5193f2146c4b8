// Package hashindex implements the data and field hash tables (spec.md
// §4.4): two fixed-bucket-count open-chaining tables keyed by a 64-bit
// non-cryptographic hash, with O(1) bucket append via an intrusive
// tail pointer and bytewise (decompressing) payload comparison on
// collision.
//
// Grounded on internal/hash's xxhash64 bucket key and
// internal/collision's chain-walk counter, adapted from mebo's
// encode-time name-collision detection to read-time bucket chain
// walking. The wire codec for the underlying objects (wire.Data,
// wire.Field, wire.DataHashTable, wire.FieldHashTable) lives in the
// wire package; this package only implements the lookup/insert
// algorithm over them.
package hashindex
