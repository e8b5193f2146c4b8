package journal

import (
	"github.com/mightysai1997/sdjournal/alloc"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/internal/options"
	"github.com/mightysai1997/sdjournal/seal"
	"go.uber.org/zap"
)

// CorruptPolicy names a policy for a CORRUPT condition met mid-append
// (spec.md §9 open question). The value is stored in the File's config
// by WithCorruptOnAppend; AppendEntry does not consult it, so both values
// behave the same: AppendEntry returns the error to its caller, does not
// rotate, and does not refuse later appends.
type CorruptPolicy int

const (
	// CorruptPolicyRotate is the default value.
	CorruptPolicyRotate CorruptPolicy = iota

	// CorruptPolicyKeepWritable is the opt-in alternative value.
	CorruptPolicyKeepWritable
)

const (
	defaultDataBuckets  = 1 << 16
	defaultFieldBuckets = 1 << 12
)

// config holds every tunable of an open journal File.
type config struct {
	logger  *zap.Logger
	metrics *Metrics

	dataBuckets  uint64
	fieldBuckets uint64

	compressionKind      format.CompressionKind
	compressionThreshold uint64

	rotateFillThreshold float64
	corruptOnAppend     CorruptPolicy

	oracle     seal.Oracle
	sealPolicy seal.Policy

	allocOpts []alloc.Option

	readOnly  bool
	machineID *[16]byte
}

func defaultConfig() *config {
	return &config{
		logger:               zap.NewNop(),
		dataBuckets:          defaultDataBuckets,
		fieldBuckets:         defaultFieldBuckets,
		compressionKind:      format.CompressionLZ4,
		compressionThreshold: format.DefaultCompressionThreshold,
		rotateFillThreshold:  format.DefaultRotateFillThreshold,
		corruptOnAppend:      CorruptPolicyRotate,
		sealPolicy:           seal.DefaultPolicy(),
	}
}

// Option configures Open.
type Option = options.Option[*config]

// WithLogger sets the zap logger used for boundary-level diagnostics.
// Close logs one Debug line per file; no other operation logs. Defaults
// to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMetrics attaches a Metrics collector. Nil disables metrics.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *config) { c.metrics = m })
}

// WithDataBuckets overrides the data hash table's bucket count, used
// only on initial creation of a new file.
func WithDataBuckets(n uint64) Option {
	return options.New(func(c *config) error {
		if n == 0 {
			return errs.ErrInvalidOption
		}
		c.dataBuckets = n
		return nil
	})
}

// WithFieldBuckets overrides the field hash table's bucket count, used
// only on initial creation of a new file.
func WithFieldBuckets(n uint64) Option {
	return options.New(func(c *config) error {
		if n == 0 {
			return errs.ErrInvalidOption
		}
		c.fieldBuckets = n
		return nil
	})
}

// WithCompression selects the codec applied to Data payloads at or above
// the compression threshold. format.CompressionNone disables it.
func WithCompression(kind format.CompressionKind) Option {
	return options.NoError(func(c *config) { c.compressionKind = kind })
}

// WithCompressionThreshold sets the minimum payload size before
// compression is attempted (spec.md §9, default 512 bytes).
func WithCompressionThreshold(n uint64) Option {
	return options.NoError(func(c *config) { c.compressionThreshold = n })
}

// WithRotateFillThreshold sets the hash-table fill ratio that makes
// RotateSuggested report true (spec.md §9, default 0.75).
func WithRotateFillThreshold(f float64) Option {
	return options.New(func(c *config) error {
		if f <= 0 || f > 1 {
			return errs.ErrInvalidOption
		}
		c.rotateFillThreshold = f
		return nil
	})
}

// WithCorruptOnAppend records a CorruptPolicy in the File's config
// (spec.md §9). AppendEntry does not read it; see CorruptPolicy.
func WithCorruptOnAppend(p CorruptPolicy) Option {
	return options.NoError(func(c *config) { c.corruptOnAppend = p })
}

// WithSeal enables sealing: oracle produces and verifies Tag MACs, and
// policy decides when the append pipeline inserts a new Tag. Passing a
// nil oracle disables sealing (the default).
func WithSeal(oracle seal.Oracle, policy seal.Policy) Option {
	return options.NoError(func(c *config) {
		c.oracle = oracle
		c.sealPolicy = policy
	})
}

// WithAllocatorOptions passes through additional alloc.Option values to
// the file's Allocator (max size, free-space floor, growth granularity,
// restat interval).
func WithAllocatorOptions(opts ...alloc.Option) Option {
	return options.NoError(func(c *config) {
		c.allocOpts = append(c.allocOpts, opts...)
	})
}

// WithReadOnly opens the file for reading only: no Allocator, no
// offline/online worker, AppendEntry refuses with errs.ErrReadOnly.
func WithReadOnly() Option {
	return options.NoError(func(c *config) { c.readOnly = true })
}

// WithMachineID overrides host machine-id detection, primarily for
// tests that need a reproducible identity or that simulate opening a
// file on a different host.
func WithMachineID(id [16]byte) Option {
	return options.NoError(func(c *config) { c.machineID = &id })
}
