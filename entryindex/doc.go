// Package entryindex implements the entry-array index (spec.md §4.5):
// chains of geometrically-doubling arrays of Entry offsets, reachable
// either globally (insertion order, rooted at the header) or per-Data
// (rooted at a Data object's extra slot + array chain), plus the
// bisection algorithm readers use to seek by offset, seqnum, realtime,
// or monotonic time.
//
// Grounded on the journald-reader reference's next_entry_array_offset
// chain walk, generalized into geometric growth (wire.NextArrayCapacity)
// and a bounded chain cache (hashicorp/golang-lru) that memoizes the
// last array visited per chain to accelerate repeated bisection, the way
// the real journal file format's generic_array_bisect does.
package entryindex
