package entryindex

import (
	"bytes"

	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/wire"
)

// Direction selects which extremal match Seek returns for a predicate
// that is not an exact hit: Down returns the ceiling (first item whose
// key is >= the needle), Up returns the floor (last item whose key is
// <= the needle) — the same semantics real journal readers use for
// "seek to this timestamp or the next one" / "...or the previous one"
// (spec.md §4.5 rule 4).
type Direction int

const (
	Down Direction = iota
	Up
)

// Cmp compares an Entry's key against the seek needle: negative if en
// sorts before the needle, zero on exact match, positive if after.
type Cmp func(en wire.Entry) int

type arrayMeta struct {
	offset uint64
	base   uint64 // global index of items[0]
	items  []uint64
}

// gatherArrays walks the chain from startOffset (global index startBase)
// to its end, collecting each array's filled items. Corrupt or
// unreadable arrays cut the chain short (spec.md §4.5 rule 5: "treat as
// cut the tail").
func gatherArrays(store Store, startOffset, startBase uint64) ([]arrayMeta, uint64) {
	var metas []arrayMeta
	offset := startOffset
	base := startBase

	for offset != 0 {
		arr, err := readEntryArray(store, offset)
		if err != nil {
			break
		}

		fill := fillCount(arr.Items)
		metas = append(metas, arrayMeta{offset: offset, base: base, items: arr.Items[:fill]})
		base += fill

		if fill < uint64(len(arr.Items)) {
			// a partially-filled array can only be the tail
			break
		}

		offset = arr.NextEntryArrayOffset
	}

	return metas, base
}

func itemAt(metas []arrayMeta, i uint64) (uint64, arrayMeta) {
	for _, m := range metas {
		if i >= m.base && i < m.base+uint64(len(m.items)) {
			return m.items[i-m.base], m
		}
	}
	return 0, arrayMeta{}
}

// Seek finds the extremal Entry in chain matching cmp, per dir (see
// Direction). Returns errs.ErrNotFound if the chain is empty or no item
// satisfies the direction's bound.
func Seek(store Store, cache *ChainCache, chain *Chain, dir Direction, cmp Cmp) (offset uint64, globalIndex uint64, en wire.Entry, err error) {
	if chain.First == 0 {
		return 0, 0, wire.Entry{}, errs.ErrNotFound
	}

	startOffset := chain.First
	startBase := uint64(0)

	if p, ok := cache.get(chain.First); ok {
		if arr, err := readEntryArray(store, p.arrayOffset); err == nil && len(arr.Items) > 0 {
			if first, err := readEntry(store, arr.Items[0]); err == nil {
				// Safe to warm-start at this array, for either
				// direction, only when its first item is strictly
				// below the needle: every array before it then
				// holds strictly smaller items, which can never be
				// the ceil answer (Down) and can never exceed the
				// floor answer's index (Up). A first item equal to
				// or above the needle could itself be the ceil/floor
				// boundary (an earlier array may hold equal keys), so
				// jumping past it would drop the correct array.
				if cmp(first) < 0 {
					startOffset = p.arrayOffset
					startBase = p.firstItem
				}
			}
		}
	}

	metas, total := gatherArrays(store, startOffset, startBase)
	if total == 0 {
		return 0, 0, wire.Entry{}, errs.ErrNotFound
	}

	entryAt := func(i uint64) (wire.Entry, error) {
		off, _ := itemAt(metas, i)
		return readEntry(store, off)
	}

	var index uint64
	var found bool

	if dir == Down {
		index, found = ceilIndex(total, func(i uint64) int {
			e, _ := entryAt(i)
			return cmp(e)
		})
	} else {
		index, found = floorIndex(total, func(i uint64) int {
			e, _ := entryAt(i)
			return cmp(e)
		})
	}

	if !found {
		return 0, 0, wire.Entry{}, errs.ErrNotFound
	}

	off, meta := itemAt(metas, index)
	decoded, err := readEntry(store, off)
	if err != nil {
		return 0, 0, wire.Entry{}, err
	}

	cache.set(chain.First, position{
		arrayOffset: meta.offset,
		firstItem:   meta.base,
		lastIndex:   int(index - meta.base),
	})

	return off, index, decoded, nil
}

// ItemAt returns the Entry offset and decoded Entry at chain's global
// index i (0-based). Used by Reader.Next to step by one position without
// re-running a full Cmp-based bisection.
func ItemAt(store Store, chain *Chain, index uint64) (offset uint64, en wire.Entry, err error) {
	if chain.First == 0 {
		return 0, wire.Entry{}, errs.ErrNotFound
	}

	metas, total := gatherArrays(store, chain.First, 0)
	if index >= total {
		return 0, wire.Entry{}, errs.ErrNotFound
	}

	off, _ := itemAt(metas, index)
	en, err = readEntry(store, off)
	if err != nil {
		return 0, wire.Entry{}, err
	}

	return off, en, nil
}

// ceilIndex finds the smallest i in [0,n) with cmp(i) >= 0.
func ceilIndex(n uint64, cmp func(uint64) int) (uint64, bool) {
	lo, hi := uint64(0), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if cmp(mid) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= n {
		return 0, false
	}
	return lo, true
}

// floorIndex finds the largest i in [0,n) with cmp(i) <= 0.
func floorIndex(n uint64, cmp func(uint64) int) (uint64, bool) {
	lo, hi := uint64(0), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if cmp(mid) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0, false
	}
	return lo - 1, true
}

// ByOffset returns a comparator over raw Entry offsets (not a Cmp, which
// takes a decoded wire.Entry): it reports how offset orders against
// target, returning 0 only on an exact match.
func ByOffset(target uint64) func(offset uint64) int {
	return func(offset uint64) int {
		switch {
		case offset < target:
			return -1
		case offset > target:
			return 1
		default:
			return 0
		}
	}
}

// BySeqnum compares by Entry.Seqnum.
func BySeqnum(target uint64) Cmp {
	return func(en wire.Entry) int {
		return cmpUint64(en.Seqnum, target)
	}
}

// ByRealtime compares by Entry.Realtime.
func ByRealtime(target uint64) Cmp {
	return func(en wire.Entry) int {
		return cmpUint64(en.Realtime, target)
	}
}

// ByMonotonic compares by (BootID, Monotonic): entries from a boot other
// than bootID sort as LEFT/RIGHT of every entry in the target boot,
// consistent with callers having already located the boot-scoped chain
// via a synthetic "_BOOT_ID=..." Data lookup (spec.md §4.5).
func ByMonotonic(bootID [16]byte, target uint64) Cmp {
	return func(en wire.Entry) int {
		if c := bytes.Compare(en.BootID[:], bootID[:]); c != 0 {
			return c
		}
		return cmpUint64(en.Monotonic, target)
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
