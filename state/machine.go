package state

import (
	"sync/atomic"

	"github.com/mightysai1997/sdjournal/format"
	"golang.org/x/sync/singleflight"
)

// Phase is the in-memory offline-state word (spec.md §4.7), exposed for
// observability (metrics, tests). Joining and restarting concurrent
// SetOffline/SetOnline callers is done by the singleflight group in
// api.go; the only branch on Phase is offlineCycle's check for a Cancel
// stored by SetOnline before the header write.
type Phase int32

const (
	Joined Phase = iota // no worker running
	Syncing
	Offlining
	Cancel
	Done
)

func (p Phase) String() string {
	switch p {
	case Joined:
		return "JOINED"
	case Syncing:
		return "SYNCING"
	case Offlining:
		return "OFFLINING"
	case Cancel:
		return "CANCEL"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Syncer is the file-level collaborator the worker drives. journal
// supplies an implementation backed by the open *os.File and its
// mmapwin.Cache.
type Syncer interface {
	// Fsync flushes pending writes to the backing file.
	Fsync() error

	// WriteHeaderState persists s into Header.State. It does not fsync;
	// offlineCycle calls Fsync afterward.
	WriteHeaderState(s format.State) error
}

// offlineKey is the single singleflight key every offline cycle shares,
// so that calls overlapping in time are coalesced into one fsync/header
// write sequence (the "join" branch of spec.md §4.7's set_offline), while
// a call issued after the previous cycle finished starts a fresh one
// (the "restart" branch, picking up writes made since).
const offlineKey = "offline"

// Machine drives one file's offline/online transitions. Construct it with
// New: the zero value has no Syncer.
type Machine struct {
	phase    atomic.Int32
	archived atomic.Bool
	syncer   Syncer
	group    singleflight.Group
}

// New returns a Machine bound to syncer, starting in Joined.
func New(syncer Syncer) *Machine {
	return &Machine{syncer: syncer}
}

// CurrentPhase returns the current phase, read atomically; it may change
// right after. Only meaningful for logging/metrics; don't branch
// application logic on it; use SetOffline/SetOnline instead.
func (m *Machine) CurrentPhase() Phase {
	return Phase(m.phase.Load())
}

// MarkArchived flips the bit that makes the eventual offline write
// ARCHIVED instead of OFFLINE (spec.md §4.7 Rotation).
func (m *Machine) MarkArchived() {
	m.archived.Store(true)
}

func (m *Machine) targetState() format.State {
	if m.archived.Load() {
		return format.StateArchived
	}
	return format.StateOffline
}

// offlineCycle is the worker body: fsync, flip Header.State, fsync again
// (spec.md §4.7's SYNCING → OFFLINING → DONE path).
func (m *Machine) offlineCycle() (any, error) {
	m.phase.Store(int32(Syncing))

	if err := m.syncer.Fsync(); err != nil {
		m.phase.Store(int32(Joined))
		return nil, err
	}

	if !m.phase.CompareAndSwap(int32(Syncing), int32(Offlining)) {
		// SetOnline stored Cancel before the header write.
		m.phase.Store(int32(Joined))
		return nil, nil
	}

	if err := m.syncer.WriteHeaderState(m.targetState()); err != nil {
		return nil, err
	}
	if err := m.syncer.Fsync(); err != nil {
		return nil, err
	}

	m.phase.Store(int32(Done))
	return nil, nil
}
