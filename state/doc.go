// Package state implements the per-file offline/online state machine
// (spec.md §4.7): a background worker drives the two-fsync "offlining"
// sequence (fsync, flip Header.State to OFFLINE or ARCHIVED, fsync
// again) off the append hot path. Coordination uses singleflight (below)
// plus an atomic in-memory phase word; SetOnline cancels a cycle still in
// its first fsync by a compare-and-swap on that word.
//
// Grounded in style on the teacher's small-interface + functional-options
// packages; there is no teacher or pack analog for a background
// fsync worker, so the shape here follows spec.md §4.7's transition
// table directly. Concurrent set_offline callers are coalesced with
// golang.org/x/sync/singleflight, the idiomatic Go equivalent of the
// spec's "join a pending offline instead of starting a second one".
package state
