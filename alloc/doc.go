// Package alloc implements the arena growth policy for a journal file
// (spec.md §4.3): grows the backing file with a real preallocation
// primitive (unix.Fallocate, never ftruncate alone, so pages never fault
// on first write), rounds growth up to a fixed granularity, enforces a
// configured max size and a filesystem free-space floor, and rate-limits
// the re-stat used to detect that the file was unlinked out from under
// an open handle.
//
// Grounded on the dittofs WAL persister's ensureSpace/growth-factor
// method, retargeted from in-memory buffer reuse to on-disk arena
// growth.
package alloc
