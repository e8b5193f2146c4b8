// Package journal ties the wire codec, mmap window cache, allocator, hash
// index, entry-array index, seal, and offline/online state machine into
// the append-only log file described by spec.md: Open/OpenReliably,
// AppendEntry, Flush, Rotate, Close, and a Reader for seek/iterate/read.
//
// Grounded on the teacher's top-level mebo.go, which wraps the blob
// package's staged encoder/decoder into a small set of convenience
// entry points; journal plays the same role here, one level up from
// wire/mmapwin/alloc/hashindex/entryindex/seal/state.
package journal
