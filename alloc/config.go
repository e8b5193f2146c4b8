package alloc

import (
	"time"

	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/internal/options"
)

// restatInterval bounds how often Reserve re-stats the file to detect
// deletion when no growth is needed (spec.md §4.3: "at most every 5s").
const restatInterval = 5 * time.Second

// config holds the allocator's policy knobs. Zero value is invalid;
// use defaultConfig() then apply options.
type config struct {
	maxSize           uint64
	keepFreeBytes     uint64
	growthGranularity uint64
	restatInterval    time.Duration
}

func defaultConfig() *config {
	return &config{
		maxSize:           format.DefaultMaxFileSize,
		keepFreeBytes:     64 << 20, // 64 MiB
		growthGranularity: format.GrowthGranularity,
		restatInterval:    restatInterval,
	}
}

// Option configures an Allocator.
type Option = options.Option[*config]

// WithMaxSize overrides the allocator's size quota. Reserve refuses with
// errs.ErrTooLarge once growth would exceed it.
func WithMaxSize(n uint64) Option {
	return options.New(func(c *config) error {
		if n == 0 {
			return errs.ErrInvalidOption
		}
		c.maxSize = n
		return nil
	})
}

// WithKeepFreeBytes overrides the filesystem free-space floor the
// allocator refuses to cross.
func WithKeepFreeBytes(n uint64) Option {
	return options.NoError(func(c *config) {
		c.keepFreeBytes = n
	})
}

// WithGrowthGranularity overrides the rounding unit used when the arena
// must grow. Must be a multiple of 8 to preserve object alignment.
func WithGrowthGranularity(n uint64) Option {
	return options.New(func(c *config) error {
		if n == 0 || n%8 != 0 {
			return errs.ErrInvalidOption
		}
		c.growthGranularity = n
		return nil
	})
}

// WithRestatInterval overrides the minimum interval between deletion-
// detection stat calls when the arena doesn't need to grow.
func WithRestatInterval(d time.Duration) Option {
	return options.New(func(c *config) error {
		if d <= 0 {
			return errs.ErrInvalidOption
		}
		c.restatInterval = d
		return nil
	})
}
