package journal

import (
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/mightysai1997/sdjournal/alloc"
	"github.com/mightysai1997/sdjournal/entryindex"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/hashindex"
	"github.com/mightysai1997/sdjournal/internal/options"
	"github.com/mightysai1997/sdjournal/mmapwin"
	"github.com/mightysai1997/sdjournal/seal"
	"github.com/mightysai1997/sdjournal/state"
	"github.com/mightysai1997/sdjournal/wire"
	"go.uber.org/zap"
)

// File is one open journal file: the mmap-backed arena plus the
// indexes, allocator, and offline/online worker layered over it
// (spec.md §3, §4).
type File struct {
	path string
	cfg  *config

	file  *os.File
	cache *mmapwin.Cache
	arena *arena

	dataStore       *arenaStore
	fieldStore      *arenaStore
	entryStore      *arenaStore
	entryArrayStore *arenaStore

	mu     sync.Mutex
	header wire.Header

	allocator        *alloc.Allocator
	dataIndex        *hashindex.DataIndex
	fieldIndex       *hashindex.FieldIndex
	chain            *entryindex.Chain
	chainCache       *entryindex.ChainCache
	sealer           *seal.Sealer
	lastTagArenaSize uint64
	machine          *state.Machine

	bootID [16]byte

	logger  *zap.Logger
	metrics *Metrics

	closed atomic.Bool
}

// currentBootID reads the kernel's boot-id (spec.md §3.1's "boot_id":
// changes every boot, used to disambiguate CLOCK_MONOTONIC readings
// across reboots). Falls back to a fresh random id if unavailable.
func currentBootID() [16]byte {
	b, err := os.ReadFile("/proc/sys/kernel/random/boot_id")
	if err != nil {
		return newID()
	}

	u, err := uuid.Parse(strings.TrimSpace(string(b)))
	if err != nil {
		return newID()
	}
	return [16]byte(u)
}

// Open opens or creates the journal file at path (spec.md §6.1). A
// missing or empty file is created fresh and opened online; an existing
// file is validated and, if opened writable, refreshed to online.
func Open(path string, opts ...Option) (*File, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	machineID := hostMachineID()
	if cfg.machineID != nil {
		machineID = *cfg.machineID
	}

	if err := ensureFile(path, cfg, nil); err != nil {
		return nil, err
	}

	return load(path, cfg, machineID)
}

// OpenReliably behaves like Open, but if the existing file fails
// validation with a corruption-class error, it is renamed aside
// (spec.md §7's crash-resilience contract: never block startup on a
// damaged predecessor) and a fresh file is created in its place.
func OpenReliably(path string, opts ...Option) (*File, error) {
	f, err := Open(path, opts...)
	if err == nil {
		return f, nil
	}

	if !isCorruptionClass(err) {
		return nil, err
	}

	if _, renameErr := renameAside(path); renameErr != nil {
		return nil, err
	}

	return Open(path, opts...)
}

func isCorruptionClass(err error) bool {
	return errors.Is(err, errs.ErrCorrupt) ||
		errors.Is(err, errs.ErrTruncated) ||
		errors.Is(err, errs.ErrIncompatible)
}

// ensureFile atomically materializes path with a fresh header and both
// hash tables if it doesn't exist or is empty. template, when non-nil,
// carries seqnum_id and the tail entry's seqnum/timestamps forward from
// a predecessor file (spec.md §4.7 Rotation).
func ensureFile(path string, cfg *config, template *wire.Header) error {
	fi, statErr := os.Stat(path)
	if statErr == nil && fi.Size() > 0 {
		return nil
	}
	if statErr != nil && !os.IsNotExist(statErr) {
		return errs.ErrIO
	}
	if cfg.readOnly {
		return errs.ErrNotFound
	}

	buf, fileID := freshFileBytes(cfg, template)

	if err := renameio.WriteFile(path, buf, 0o644); err != nil {
		return errs.ErrIO
	}

	if f, err := os.OpenFile(path, os.O_RDWR, 0o644); err == nil {
		applyCreationAttrs(f, fileID)
		_ = f.Close()
	}

	return nil
}

// freshFileBytes builds the full initial contents of a new journal
// file: header immediately followed by an empty DataHashTable and an
// empty FieldHashTable (spec.md §3.1, §4.4).
func freshFileBytes(cfg *config, template *wire.Header) ([]byte, [16]byte) {
	dataTable := wire.NewHashTable(format.ObjectDataHashTable, cfg.dataBuckets)
	fieldTable := wire.NewHashTable(format.ObjectFieldHashTable, cfg.fieldBuckets)

	dataOffset := uint64(wire.HeaderSize)
	fieldOffset := dataOffset + dataTable.Size
	arenaEnd := fieldOffset + fieldTable.Size

	fileID := newID()

	h := wire.Header{
		Signature:            format.Signature,
		State:                format.StateOffline,
		FileID:               fileID,
		BootID:               currentBootID(),
		HeaderSize:           wire.HeaderSize,
		ArenaSize:            arenaEnd - dataOffset,
		DataHashTableOffset:  dataOffset,
		DataHashTableSize:    dataTable.Size,
		FieldHashTableOffset: fieldOffset,
		FieldHashTableSize:   fieldTable.Size,
		NObjects:             2,
	}

	if template != nil {
		h.SeqnumID = template.SeqnumID
		h.MachineID = template.MachineID
		h.HeadEntrySeqnum = template.TailEntrySeqnum
		h.TailEntrySeqnum = template.TailEntrySeqnum
		h.HeadEntryRealtime = template.TailEntryRealtime
		h.TailEntryRealtime = template.TailEntryRealtime
	} else {
		h.SeqnumID = newID()
		h.MachineID = hostMachineID()
	}

	if cfg.machineID != nil {
		h.MachineID = *cfg.machineID
	}
	if cfg.oracle != nil {
		h.CompatibleFlags |= format.CompatibleSealed
	}

	buf := make([]byte, arenaEnd)
	copy(buf[0:wire.HeaderSize], h.Bytes())
	copy(buf[dataOffset:dataOffset+dataTable.Size], dataTable.Bytes())
	copy(buf[fieldOffset:fieldOffset+fieldTable.Size], fieldTable.Bytes())

	return buf, fileID
}

// openFresh materializes a brand new file at path inheriting template's
// continuity fields and opens it, used by Rotate.
func openFresh(path string, cfg *config, template *wire.Header) (*File, error) {
	if err := ensureFile(path, cfg, template); err != nil {
		return nil, err
	}

	machineID := hostMachineID()
	if cfg.machineID != nil {
		machineID = *cfg.machineID
	}
	return load(path, cfg, machineID)
}

// load opens the os.File, maps it, validates the header, and builds
// every index and collaborator a File needs.
func load(path string, cfg *config, machineID [16]byte) (*File, error) {
	flags := os.O_RDWR
	if cfg.readOnly {
		flags = os.O_RDONLY
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errs.ErrIO
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errs.ErrIO
	}

	cache := mmapwin.New(f, !cfg.readOnly)

	h, err := readHeader(cache)
	if err != nil {
		_ = cache.Close()
		_ = f.Close()
		return nil, err
	}

	if err := validateOpen(&h, fi.Size(), !cfg.readOnly, machineID); err != nil {
		_ = cache.Close()
		_ = f.Close()
		return nil, err
	}

	bootID := h.BootID
	if !cfg.readOnly {
		bootID = currentBootID()
		h.BootID = bootID
		h.State = format.StateOnline
		if err := writeHeader(cache, &h); err != nil {
			_ = cache.Close()
			_ = f.Close()
			return nil, err
		}
	}

	var allocator *alloc.Allocator
	if !cfg.readOnly {
		allocator, err = alloc.New(f, cfg.allocOpts...)
		if err != nil {
			_ = cache.Close()
			_ = f.Close()
			return nil, err
		}
	}

	a := newArena(cache, allocator, h.HeaderSize, h.ArenaSize, h.TailObjectOffset)

	dataStore := newArenaStore(a, mmapwin.Data)
	fieldStore := newArenaStore(a, mmapwin.Field)
	entryStore := newArenaStore(a, mmapwin.Entry)
	entryArrayStore := newArenaStore(a, mmapwin.EntryArray)

	dataIndex, err := hashindex.OpenDataIndex(dataStore, h.DataHashTableOffset)
	if err != nil {
		_ = cache.Close()
		_ = f.Close()
		return nil, err
	}

	fieldIndex, err := hashindex.OpenFieldIndex(fieldStore, h.FieldHashTableOffset)
	if err != nil {
		_ = cache.Close()
		_ = f.Close()
		return nil, err
	}

	chain, err := entryindex.OpenChain(entryArrayStore, h.EntryArrayOffset)
	if err != nil {
		_ = cache.Close()
		_ = f.Close()
		return nil, err
	}

	var sealer *seal.Sealer
	if cfg.oracle != nil {
		sealer = seal.NewSealer(cfg.oracle, cfg.sealPolicy)
	}

	jf := &File{
		path:            path,
		cfg:             cfg,
		file:            f,
		cache:           cache,
		arena:           a,
		dataStore:       dataStore,
		fieldStore:      fieldStore,
		entryStore:      entryStore,
		entryArrayStore: entryArrayStore,
		header:          h,
		allocator:       allocator,
		dataIndex:       dataIndex,
		fieldIndex:      fieldIndex,
		chain:           chain,
		chainCache:      entryindex.NewChainCache(),
		sealer:          sealer,
		bootID:          bootID,
		logger:          cfg.logger,
		metrics:         cfg.metrics,
	}
	jf.machine = state.New(&headerSyncer{f: f, cache: cache, mu: &jf.mu, h: &jf.header})

	return jf, nil
}

