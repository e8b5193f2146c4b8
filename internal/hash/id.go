// Package hash computes the 64-bit non-cryptographic hash used to key the
// data and field hash-table buckets (spec §4.4). It is deliberately not the
// cryptographic seal hash (see package seal); this is a bucket key only,
// and collisions are resolved by a bytewise payload comparison in the
// bucket chain, not avoided.
package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the xxHash64 of data: a Data object's raw payload or a
// Field object's name.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// String computes the xxHash64 of a string; it equals Bytes([]byte(data)).
func String(data string) uint64 {
	return xxhash.Sum64String(data)
}
