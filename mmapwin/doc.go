// Package mmapwin implements the mmap window cache (spec.md §4.2): maps
// byte ranges of a journal file on demand into per-object-type windows,
// reuses windows across calls that stay within a previously mapped
// range, and isolates SIGBUS faults caused by a file shrinking or
// failing mid-access after the mapping was established.
//
// Grounded on the dittofs WAL persister
// (other_examples/..._wal-mmap.go, golang.org/x/sys/unix.Mmap/Munmap)
// and the journald-reader reference's per-object mmap approach. Unlike a
// C implementation, Go cannot install a raw SIGBUS signal handler that
// substitutes a zero page and resumes the faulting instruction — so this
// package uses the idiomatic Go equivalent: runtime/debug.SetPanicOnFault
// converts a bad memory access into a recoverable panic, and every
// exported accessor recovers from it, flips a per-Cache atomic flag, and
// returns errs.ErrIO. Callers (journal) check Cache.Sigbus() after any
// sequence of accesses and convert a set flag into the operation's
// returned error, exactly as spec.md directs.
package mmapwin
