package journal

import (
	"encoding/hex"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/mmapwin"
	"github.com/mightysai1997/sdjournal/wire"
)

// newID returns a random 128-bit identifier (file_id, seqnum_id,
// machine_id, boot_id all share this shape, spec.md §3.1).
func newID() [16]byte {
	return [16]byte(uuid.New())
}

// hostMachineID derives this host's machine-id. Linux machines carry one
// at /etc/machine-id; anywhere else (or if unreadable) a fresh random id
// is generated once and reused for the lifetime of the process.
// WithMachineID overrides either.
var hostMachineID = sync.OnceValue(func() [16]byte {
	b, err := os.ReadFile("/etc/machine-id")
	if err != nil || len(b) < 32 {
		return newID()
	}

	var id [16]byte
	if _, err := hex.Decode(id[:], b[:32]); err != nil {
		return newID()
	}
	return id
})

// writeHeader serializes h and writes it through the Header mmap window
// in one shot: the header is small (240 bytes) and always lives at
// offset 0, so there is no benefit to patching individual counters
// in place, and writing the whole block guarantees a reader never
// observes it half patched beyond what the append path's own lock
// already ensures.
func writeHeader(cache *mmapwin.Cache, h *wire.Header) error {
	return cache.WriteAt(mmapwin.Header, 0, h.Bytes())
}

func readHeader(cache *mmapwin.Cache) (wire.Header, error) {
	raw, err := cache.CopyAt(mmapwin.Header, 0, wire.HeaderSize)
	if err != nil {
		return wire.Header{}, err
	}

	var h wire.Header
	if err := h.Parse(raw); err != nil {
		return wire.Header{}, err
	}
	return h, nil
}

// validateOpen applies the spec.md §4.8 open-time checks beyond what
// wire.Header.Parse already validated (signature, flags, alignment,
// tail_object_offset bounds).
func validateOpen(h *wire.Header, fileSize int64, writable bool, machineID [16]byte) error {
	if h.HeaderSize+h.ArenaSize > uint64(fileSize) {
		return errs.ErrTruncated
	}

	if writable {
		if h.State == format.StateOnline {
			return errs.ErrBusy
		}
		if h.MachineID != machineID {
			return errs.ErrHostMismatch
		}
		if h.TailEntryRealtime > uint64(time.Now().UnixMicro()) {
			return errs.ErrFromFuture
		}
	}

	return nil
}

// headerSyncer adapts a File's header state to state.Syncer. mu is the
// File's own mutex, taken around the in-memory header mutation so a
// concurrent Rotate reading f.header never observes a torn State write.
type headerSyncer struct {
	f     *os.File
	cache *mmapwin.Cache
	mu    *sync.Mutex
	h     *wire.Header
}

func (s *headerSyncer) Fsync() error {
	if err := s.cache.Sync(mmapwin.Header); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *headerSyncer) WriteHeaderState(state format.State) error {
	s.mu.Lock()
	s.h.State = state
	s.mu.Unlock()

	return s.cache.WriteAt(mmapwin.Header, 16, []byte{byte(state)})
}
