package alloc

import (
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/internal/options"
	"golang.org/x/sys/unix"
)

// Allocator grows one journal file's backing arena. Safe for concurrent
// use: Reserve and CurrentSize serialize on an internal mutex.
type Allocator struct {
	file *os.File
	cfg  *config

	mu           sync.Mutex
	currentSize  uint64
	lastStatTime time.Time
}

// New returns an Allocator for f, reading its current size via Stat.
func New(f *os.File, opts ...Option) (*Allocator, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, errs.ErrIO
	}

	return &Allocator{
		file:         f,
		cfg:          cfg,
		currentSize:  uint64(fi.Size()),
		lastStatTime: time.Now(),
	}, nil
}

// CurrentSize returns the arena size as of the last Reserve or New call.
func (a *Allocator) CurrentSize() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentSize
}

// Reserve ensures the file is at least targetEnd bytes long, growing it
// by a multiple of the growth granularity via a real preallocation
// primitive when needed. If no growth is needed it rate-limits a re-stat
// of the file to detect deletion, returning errs.ErrRemoved if the link
// count has reached zero.
//
// Returns errs.ErrTooLarge if growth would exceed the configured max
// size or cross the free-space floor.
func (a *Allocator) Reserve(targetEnd uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if targetEnd <= a.currentSize {
		return a.checkRemoved()
	}

	newSize := roundUp(targetEnd, a.cfg.growthGranularity)
	if newSize > a.cfg.maxSize {
		return errs.ErrTooLarge
	}

	grow := newSize - a.currentSize
	if ok, err := a.withinFreeSpaceFloor(grow); err != nil {
		return err
	} else if !ok {
		return errs.ErrTooLarge
	}

	if err := unix.Fallocate(int(a.file.Fd()), 0, int64(a.currentSize), int64(grow)); err != nil {
		return errs.ErrIO
	}

	a.currentSize = newSize
	a.lastStatTime = time.Now()

	return nil
}

// checkRemoved re-stats the file, at most once per restatInterval, to
// detect that it was unlinked while open.
func (a *Allocator) checkRemoved() error {
	if time.Since(a.lastStatTime) < a.cfg.restatInterval {
		return nil
	}
	a.lastStatTime = time.Now()

	fi, err := a.file.Stat()
	if err != nil {
		return errs.ErrIO
	}

	st, ok := fi.Sys().(*syscall.Stat_t)
	if ok && st.Nlink == 0 {
		return errs.ErrRemoved
	}

	return nil
}

// withinFreeSpaceFloor reports whether growing by n bytes would leave at
// least cfg.keepFreeBytes of free space on the filesystem backing the
// file.
func (a *Allocator) withinFreeSpaceFloor(n uint64) (bool, error) {
	if a.cfg.keepFreeBytes == 0 {
		return true, nil
	}

	var st unix.Statfs_t
	if err := unix.Fstatfs(int(a.file.Fd()), &st); err != nil {
		return false, errs.ErrIO
	}

	free := st.Bavail * uint64(st.Bsize)
	if free < n {
		return false, nil
	}

	return free-n >= a.cfg.keepFreeBytes, nil
}

func roundUp(n, granularity uint64) uint64 {
	if n%granularity == 0 {
		return n
	}
	return ((n / granularity) + 1) * granularity
}
