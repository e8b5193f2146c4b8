package journal

import (
	"sync"

	"github.com/mightysai1997/sdjournal/alloc"
	"github.com/mightysai1997/sdjournal/mmapwin"
)

// arena is the single tail-offset allocator shared by every index on one
// open file: hashindex and entryindex each get their own arenaStore
// bound to a distinct mmapwin.Context for read/write-window affinity,
// but all appends funnel through arena.append so the tail offset is
// never raced between them.
type arena struct {
	cache      *mmapwin.Cache
	allocator  *alloc.Allocator
	headerSize uint64

	mu         sync.Mutex
	nextOffset uint64 // next free offset; HeaderSize + bytes used so far
	lastOffset uint64 // offset of the most recently appended object, 0 if none
}

func newArena(cache *mmapwin.Cache, allocator *alloc.Allocator, headerSize, usedArenaBytes, lastObjectOffset uint64) *arena {
	return &arena{
		cache:      cache,
		allocator:  allocator,
		headerSize: headerSize,
		nextOffset: headerSize + usedArenaBytes,
		lastOffset: lastObjectOffset,
	}
}

// append reserves space via the allocator, writes data through ctx's
// mmap window, and advances the tail. data must be a complete,
// self-describing, already-aligned object.
func (a *arena) append(ctx mmapwin.Context, data []byte) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	offset := a.nextOffset
	end := offset + uint64(len(data))

	if err := a.allocator.Reserve(end); err != nil {
		return 0, err
	}
	if err := a.cache.WriteAt(ctx, offset, data); err != nil {
		return 0, err
	}

	a.nextOffset = end
	a.lastOffset = offset

	return offset, nil
}

// writeAt patches already-allocated bytes through ctx's window.
func (a *arena) writeAt(ctx mmapwin.Context, offset uint64, data []byte) error {
	return a.cache.WriteAt(ctx, offset, data)
}

func (a *arena) readAt(ctx mmapwin.Context, offset, size uint64) ([]byte, error) {
	return a.cache.CopyAt(ctx, offset, size)
}

// arenaSize returns the number of arena bytes used so far (the value
// Header.ArenaSize should carry).
func (a *arena) arenaSize() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextOffset - a.headerSize
}

// tailObjectOffset returns the offset of the most recently appended
// object, or 0 if the arena is empty.
func (a *arena) tailObjectOffset() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastOffset
}

// arenaStore adapts one arena to the small Store interface hashindex
// and entryindex each declare independently, binding reads and in-place
// writes to a single mmapwin.Context. Which context a given arenaStore
// uses is a cache-affinity choice, not a correctness requirement: every
// ReadAt already returns an owned copy (mmapwin.Cache.CopyAt), so the
// context only decides which type of object tends to stay warm in that
// window.
type arenaStore struct {
	arena *arena
	ctx   mmapwin.Context
}

func newArenaStore(a *arena, ctx mmapwin.Context) *arenaStore {
	return &arenaStore{arena: a, ctx: ctx}
}

func (s *arenaStore) ReadAt(offset, size uint64) ([]byte, error) {
	return s.arena.readAt(s.ctx, offset, size)
}

func (s *arenaStore) WriteAt(offset uint64, data []byte) error {
	return s.arena.writeAt(s.ctx, offset, data)
}

func (s *arenaStore) Append(data []byte) (uint64, error) {
	return s.arena.append(s.ctx, data)
}
