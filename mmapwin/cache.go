package mmapwin

import (
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/mightysai1997/sdjournal/errs"
	"golang.org/x/sys/unix"
)

// enablePanicOnFault arranges for an out-of-bounds or post-truncation
// access to a mapped region to surface as a recoverable panic instead of
// crashing the process. Safe to call more than once; debug.SetPanicOnFault
// is itself idempotent per-goroutine-call.
var enablePanicOnFault = sync.OnceFunc(func() {
	debug.SetPanicOnFault(true)
})

// Context identifies which object-type window a mapped range belongs to.
// The engine keeps one active window per context so that, e.g., a Data
// scan and an EntryArray bisection proceeding concurrently don't thrash
// each other's mapping.
type Context int

const (
	// Header is always kept mapped for the lifetime of the file; it is
	// never unmapped by window reuse (spec.md §4.2).
	Header Context = iota
	Data
	Field
	Entry
	DataHashTable
	FieldHashTable
	EntryArray
	Tag
	numContexts
)

// window is one mapped byte range backing a Context.
type window struct {
	offset uint64 // page-aligned mapping start
	length uint64 // mapping length in bytes
	data   []byte // unix.Mmap result
}

func (w *window) covers(offset, size uint64) bool {
	if w.data == nil {
		return false
	}
	return offset >= w.offset && offset+size <= w.offset+w.length
}

func (w *window) unmap() error {
	if w.data == nil {
		return nil
	}
	err := unix.Munmap(w.data)
	w.data = nil
	w.offset = 0
	w.length = 0
	return err
}

// Cache owns the mmap windows for one open file. It is not safe for
// concurrent use without external synchronization; the journal package
// serializes access to a given file's windows through its own locking.
type Cache struct {
	fd        int
	pageSize  uint64
	writable  bool
	windows   [numContexts]window
	sigbus    atomic.Bool
	closeOnce sync.Once
}

// New returns a Cache mapping windows on demand from f. writable controls
// the PROT/MAP flags used for every subsequent mapping.
func New(f *os.File, writable bool) *Cache {
	enablePanicOnFault()

	return &Cache{
		fd:       int(f.Fd()),
		pageSize: uint64(os.Getpagesize()),
		writable: writable,
	}
}

func (c *Cache) alignDown(offset uint64) uint64 {
	return offset - (offset % c.pageSize)
}

// Window returns a byte slice covering [offset, offset+size) for the
// given context, (re)mapping it if the previous window for that context
// doesn't already cover the range. The returned slice aliases the mapped
// memory directly and must not be retained past the next call that
// remaps the same context, or past Close.
func (c *Cache) Window(ctx Context, offset, size uint64) (_ []byte, retErr error) {
	if size == 0 {
		return nil, nil
	}

	w := &c.windows[ctx]
	if w.covers(offset, size) {
		return w.data[offset-w.offset : offset-w.offset+size], nil
	}

	mapOffset := c.alignDown(offset)
	mapLen := (offset + size) - mapOffset
	// Round the mapping up to a page multiple and pad generously so
	// sequential reads in the same context don't remap every call.
	mapLen = ((mapLen + c.pageSize - 1) / c.pageSize) * c.pageSize
	if mapLen < windowPadding {
		mapLen = windowPadding
	}

	prot := unix.PROT_READ
	if c.writable {
		prot |= unix.PROT_WRITE
	}

	defer func() {
		if r := recover(); r != nil {
			c.sigbus.Store(true)
			retErr = errs.ErrIO
		}
	}()

	// Header's window never needs remapping in practice (it always covers
	// the same fixed range), so this only unmaps a stale window for the
	// other, range-shifting contexts.
	if err := w.unmap(); err != nil {
		return nil, err
	}

	data, err := unix.Mmap(c.fd, int64(mapOffset), int(mapLen), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, errs.ErrIO
	}

	w.offset = mapOffset
	w.length = mapLen
	w.data = data

	return w.data[offset-w.offset : offset-w.offset+size], nil
}

// windowPadding is the minimum mapping size requested beyond what a
// single call needs, so a run of nearby small reads in one context reuses
// the same mapping instead of remapping every call.
const windowPadding = 64 * 1024

// CopyAt returns a freshly-allocated copy of [offset, offset+size) for
// ctx. Use this (rather than Window) whenever the returned bytes must
// outlive a subsequent Window call on the same context, since Window's
// slice is only valid until the next remap.
func (c *Cache) CopyAt(ctx Context, offset, size uint64) (_ []byte, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			c.sigbus.Store(true)
			retErr = errs.ErrIO
		}
	}()

	src, err := c.Window(ctx, offset, size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	copy(out, src)
	return out, nil
}

// WriteAt copies data into the mapped window at offset for ctx. The
// caller is responsible for calling Sync afterward if durability is
// required before returning success to an append caller.
func (c *Cache) WriteAt(ctx Context, offset uint64, data []byte) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			c.sigbus.Store(true)
			retErr = errs.ErrIO
		}
	}()

	dst, err := c.Window(ctx, offset, uint64(len(data)))
	if err != nil {
		return err
	}

	copy(dst, data)
	return nil
}

// Sync flushes the given context's current window with msync(MS_SYNC).
// A no-op if the context has no active mapping.
func (c *Cache) Sync(ctx Context) error {
	w := &c.windows[ctx]
	if w.data == nil {
		return nil
	}
	if err := unix.Msync(w.data, unix.MS_SYNC); err != nil {
		return errs.ErrIO
	}
	return nil
}

// SyncAll flushes every context with an active mapping.
func (c *Cache) SyncAll() error {
	for i := range c.windows {
		if err := c.Sync(Context(i)); err != nil {
			return err
		}
	}
	return nil
}

// Sigbus reports whether a trapped fault has occurred on any window
// since the Cache was created or the flag was last cleared. Callers
// should check this after a sequence of accesses and surface errs.ErrIO
// to the caller of the enclosing operation, per spec.md §4.2.
func (c *Cache) Sigbus() bool {
	return c.sigbus.Load()
}

// ClearSigbus resets the fault flag.
func (c *Cache) ClearSigbus() {
	c.sigbus.Store(false)
}

// Close unmaps every active window. Safe to call more than once.
func (c *Cache) Close() error {
	var firstErr error
	c.closeOnce.Do(func() {
		for i := range c.windows {
			if err := c.windows[i].unmap(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
