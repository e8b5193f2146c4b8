package journal

import (
	"errors"

	"github.com/mightysai1997/sdjournal/compress"
	"github.com/mightysai1997/sdjournal/entryindex"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/format"
	"github.com/mightysai1997/sdjournal/hashindex"
	"github.com/mightysai1997/sdjournal/wire"
)

// Reader iterates or bisects one open File's global Entry chain (spec.md
// §6.3). Not safe for concurrent use by multiple goroutines; open one
// Reader per consumer.
type Reader struct {
	f *File

	positioned  bool
	index       uint64
	entryOffset uint64
	entry       wire.Entry
}

// NewReader returns a Reader with no current position; call one of the
// Seek* methods before Next/ReadItem.
func NewReader(f *File) *Reader {
	return &Reader{f: f}
}

func alwaysMatch(wire.Entry) int { return 0 }

// SeekHead positions the reader at the oldest entry (lowest seqnum).
func (r *Reader) SeekHead() error { return r.seek(entryindex.Down, alwaysMatch) }

// SeekTail positions the reader at the newest entry (highest seqnum).
func (r *Reader) SeekTail() error { return r.seek(entryindex.Up, alwaysMatch) }

// SeekBySeqnum positions the reader at the extremal entry (per dir)
// matching seqnum (spec.md §4.5 rule 4).
func (r *Reader) SeekBySeqnum(seqnum uint64, dir entryindex.Direction) error {
	return r.seek(dir, entryindex.BySeqnum(seqnum))
}

// SeekByRealtime positions the reader at the extremal entry matching a
// realtime timestamp in microseconds.
func (r *Reader) SeekByRealtime(us uint64, dir entryindex.Direction) error {
	return r.seek(dir, entryindex.ByRealtime(us))
}

// SeekByMonotonic positions the reader at the extremal entry matching a
// boot-scoped monotonic timestamp in microseconds.
func (r *Reader) SeekByMonotonic(bootID [16]byte, us uint64, dir entryindex.Direction) error {
	return r.seek(dir, entryindex.ByMonotonic(bootID, us))
}

func (r *Reader) seek(dir entryindex.Direction, cmp entryindex.Cmp) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	off, idx, en, err := entryindex.Seek(r.f.entryArrayStore, r.f.chainCache, r.f.chain, dir, cmp)
	if err != nil {
		return err
	}

	r.entryOffset = off
	r.index = idx
	r.entry = en
	r.positioned = true

	return nil
}

// Next advances to the next entry in dir (Down = toward higher seqnum,
// Up = toward lower seqnum), skipping over locally corrupt objects by
// retrying the following index (spec.md §6.3, §7 "CORRUPT during read
// is tolerated").
func (r *Reader) Next(dir entryindex.Direction) error {
	delta := int64(1)
	if dir == entryindex.Up {
		delta = -1
	}

	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	if !r.positioned {
		return errs.ErrInvalidOffset
	}

	index := int64(r.index)
	for {
		index += delta
		if index < 0 {
			return errs.ErrNotFound
		}

		off, en, err := entryindex.ItemAt(r.f.entryArrayStore, r.f.chain, uint64(index))
		if errors.Is(err, errs.ErrCorrupt) {
			if r.f.metrics != nil {
				r.f.metrics.CorruptSkips.Inc()
			}
			continue
		}
		if err != nil {
			return err
		}

		r.index = uint64(index)
		r.entryOffset = off
		r.entry = en
		return nil
	}
}

// Seqnum, Realtime, Monotonic, and BootID describe the entry the reader
// currently sits on.
func (r *Reader) Seqnum() uint64     { return r.entry.Seqnum }
func (r *Reader) Realtime() uint64   { return r.entry.Realtime }
func (r *Reader) Monotonic() uint64  { return r.entry.Monotonic }
func (r *Reader) BootID() [16]byte   { return r.entry.BootID }
func (r *Reader) Offset() uint64     { return r.entryOffset }
func (r *Reader) NumItems() int      { return len(r.entry.Items) }

// ReadItem decodes the i-th item of the current entry, transparently
// decompressing its Data payload and splitting it on the first '='
// (spec.md §6.3 read_item).
func (r *Reader) ReadItem(i int) (Item, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	if !r.positioned || i < 0 || i >= len(r.entry.Items) {
		return Item{}, errs.ErrInvalidOffset
	}

	d, err := hashindex.ReadDataAt(r.f.dataStore, r.entry.Items[i].DataOffset)
	if err != nil {
		return Item{}, err
	}

	payload := d.Payload
	if kind := d.CompressionKind(); kind != format.CompressionNone {
		codec, err := compress.GetCodec(kind)
		if err != nil {
			return Item{}, err
		}
		payload, err = codec.Decompress(payload)
		if err != nil {
			return Item{}, err
		}
	}

	name, value := splitPayload(payload)
	return Item{Name: name, Value: value}, nil
}

func splitPayload(payload []byte) (name string, value []byte) {
	for i, b := range payload {
		if b == '=' {
			return string(payload[:i]), append([]byte(nil), payload[i+1:]...)
		}
	}
	return "", append([]byte(nil), payload...)
}

// CutoffRealtime returns the realtime span [from, to] covered by this
// file (spec.md §6.3).
func (r *Reader) CutoffRealtime() (from, to uint64) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return r.f.header.HeadEntryRealtime, r.f.header.TailEntryRealtime
}

// CutoffMonotonic returns the monotonic span [from, to] covered by this
// file for entries matching bootID. entryindex.ByMonotonic's bisection
// is only valid over a chain already scoped to one boot (spec.md §4.5);
// the global chain mixes boots in seqnum order, so this scans it once
// instead of bisecting, tracking the first and last match.
func (r *Reader) CutoffMonotonic(bootID [16]byte) (from, to uint64, err error) {
	scan := NewReader(r.f)
	if err := scan.SeekHead(); err != nil {
		return 0, 0, err
	}

	found := false
	for {
		if scan.entry.BootID == bootID {
			if !found {
				from = scan.entry.Monotonic
				found = true
			}
			to = scan.entry.Monotonic
		}

		if err := scan.Next(entryindex.Down); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				break
			}
			return 0, 0, err
		}
	}

	if !found {
		return 0, 0, errs.ErrNotFound
	}

	return from, to, nil
}
