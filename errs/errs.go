// Package errs defines the sentinel errors raised by the storage engine.
//
// Every error the core can surface to a caller is one of the sentinels
// below (or wraps one via %w), so callers can branch with errors.Is
// instead of string matching. The mapping from condition to sentinel
// follows the error-kind table in the engine's design document.
package errs

import "errors"

var (
	// ErrCorrupt is returned when an object fails codec validation or a
	// chain ordering invariant is violated. During bisection or iteration
	// this is tolerated by skipping to the next neighbor; during append
	// it is fatal for the file.
	ErrCorrupt = errors.New("journal: corrupt object")

	// ErrTruncated is returned when a size field exceeds the file size,
	// or the file is smaller than its own header claims.
	ErrTruncated = errors.New("journal: file truncated")

	// ErrIncompatible is returned when an unknown incompatible feature
	// flag is set, or a sealed file is opened without seal support.
	ErrIncompatible = errors.New("journal: incompatible feature flags")

	// ErrBusy is returned when a writable open finds Header.State already
	// ONLINE (another writer has the file open, or it was not cleanly
	// closed).
	ErrBusy = errors.New("journal: file busy")

	// ErrTooLarge is returned when the allocator would exceed the
	// configured max size or the free-space floor.
	ErrTooLarge = errors.New("journal: allocation exceeds quota")

	// ErrFromFuture is returned when a writable open finds a tail entry
	// realtime newer than the wall clock.
	ErrFromFuture = errors.New("journal: tail entry timestamp is in the future")

	// ErrRemoved is returned when the backing file was unlinked while
	// open (detected on the next allocation probe).
	ErrRemoved = errors.New("journal: file removed")

	// ErrIO is returned when a SIGBUS was trapped on a mapped range, or
	// a preallocate/fsync call failed.
	ErrIO = errors.New("journal: I/O error")

	// ErrHostMismatch is returned when the header's machine_id differs
	// from the current host on a writable open.
	ErrHostMismatch = errors.New("journal: machine id mismatch")

	// ErrInvalidOffset is returned when an offset is not 8-byte aligned,
	// falls inside the header, or is otherwise out of range.
	ErrInvalidOffset = errors.New("journal: invalid object offset")

	// ErrNotFound is returned by index lookups and bisection when no
	// matching item exists in range.
	ErrNotFound = errors.New("journal: not found")

	// ErrClosed is returned by any operation on a File after Close.
	ErrClosed = errors.New("journal: file closed")

	// ErrInvalidOption is returned when a functional option receives an
	// out-of-range or nonsensical value.
	ErrInvalidOption = errors.New("journal: invalid option")

	// ErrSealRequired is returned when Append is asked to seal but no
	// seal collaborator was configured.
	ErrSealRequired = errors.New("journal: sealing enabled but no seal collaborator configured")

	// ErrReadOnly is returned when a mutating operation is attempted on
	// a file opened read-only.
	ErrReadOnly = errors.New("journal: file opened read-only")
)
