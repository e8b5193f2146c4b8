package journal

import (
	"time"

	"github.com/mightysai1997/sdjournal/endian"
	"github.com/mightysai1997/sdjournal/entryindex"
	"github.com/mightysai1997/sdjournal/errs"
	"github.com/mightysai1997/sdjournal/wire"
)

// AppendEntry writes one log record: the fields are deduplicated through
// the Data and Field indexes, linked into the global chain and each
// referenced Data's per-data chain, and the header counters are updated
// (spec.md §4.6). seqnumHint lets a caller coordinate monotonic seqnums
// across a multi-writer protocol external to this package; pass 0 to let
// the file's own tail_entry_seqnum drive numbering.
func (f *File) AppendEntry(ts Timestamp, fields []Field, seqnumHint uint64) (offset uint64, seqnum uint64, err error) {
	if f.cfg.readOnly {
		return 0, 0, errs.ErrReadOnly
	}
	if len(fields) == 0 {
		return 0, 0, errs.ErrInvalidOption
	}

	start := time.Now()
	defer func() {
		if f.metrics != nil {
			f.metrics.AppendLatency.Observe(time.Since(start).Seconds())
		}
	}()

	f.mu.Lock()
	defer f.mu.Unlock()

	dataStore := f.dataStore
	fieldStore := f.fieldStore
	entryStore := f.entryStore
	entryArrayStore := f.entryArrayStore

	if f.sealer != nil && f.sealer.ShouldSeal(f.bytesSinceLastTag()) {
		if err := f.appendTag(entryArrayStore); err != nil {
			return 0, 0, err
		}
	}

	var newData, newFields uint64
	items := make([]wire.EntryItem, 0, len(fields))
	for _, field := range fields {
		dataOffset, dataHash, dataCreated, fieldCreated, err := f.insertField(dataStore, fieldStore, field)
		if err != nil {
			return 0, 0, err
		}
		if dataCreated {
			newData++
		}
		if fieldCreated {
			newFields++
		}
		items = append(items, wire.EntryItem{DataOffset: dataOffset, DataHash: dataHash})
	}

	var en wire.Entry
	en.SetItems(items)
	en.Seqnum = maxUint64(f.header.TailEntrySeqnum, seqnumHint) + 1
	en.Realtime = ts.Realtime
	en.Monotonic = ts.Monotonic
	en.BootID = f.bootID

	entryOffset, err := entryStore.Append(en.Bytes())
	if err != nil {
		return 0, 0, err
	}

	newFirst, err := f.chain.Append(entryArrayStore, entryOffset)
	if err != nil {
		return 0, 0, err
	}
	f.header.EntryArrayOffset = newFirst
	f.header.NEntryArrays = f.chain.Total()

	for _, item := range items {
		if err := f.linkDataEntry(dataStore, entryArrayStore, item.DataOffset, entryOffset); err != nil {
			return 0, 0, err
		}
	}

	f.header.NObjects += 1 + newData + newFields
	f.header.NData += newData
	f.header.NFields += newFields
	f.header.NEntries++
	if f.header.HeadEntrySeqnum == 0 {
		f.header.HeadEntrySeqnum = en.Seqnum
		f.header.HeadEntryRealtime = en.Realtime
	}
	f.header.TailEntrySeqnum = en.Seqnum
	f.header.TailEntryRealtime = en.Realtime
	f.header.TailEntryMonotonic = en.Monotonic
	f.header.ArenaSize = f.arena.arenaSize()
	f.header.TailObjectOffset = f.arena.tailObjectOffset()

	if err := writeHeader(f.cache, &f.header); err != nil {
		return 0, 0, err
	}

	if err := f.pokeInotify(); err != nil {
		return 0, 0, err
	}

	if f.cache.Sigbus() {
		return 0, 0, errs.ErrIO
	}

	f.reportRotateSuggested()

	return entryOffset, en.Seqnum, nil
}

// insertField deduplicates one field through the Data index and, for
// "name=value" fields, the Field index (spec.md §4.6 step 2).
func (f *File) insertField(dataStore, fieldStore *arenaStore, field Field) (offset, dataHash uint64, dataCreated, fieldCreated bool, err error) {
	offset, dataCreated, err = f.dataIndex.InsertIfAbsent(field, f.cfg.compressionKind, f.cfg.compressionThreshold)
	if err != nil {
		return 0, 0, false, false, err
	}

	_, d, _, err := f.dataIndex.Find(field)
	if err != nil {
		return 0, 0, false, false, err
	}
	dataHash = d.Hash

	if dataCreated {
		if name := field.splitName(); name != nil {
			var fieldOffset uint64
			fieldOffset, fieldCreated, err = f.fieldIndex.InsertIfAbsent(name)
			if err != nil {
				return 0, 0, false, false, err
			}
			if err := f.fieldIndex.LinkData(fieldOffset, offset); err != nil {
				return 0, 0, false, false, err
			}
		}
	}

	return offset, dataHash, dataCreated, fieldCreated, nil
}

// linkDataEntry threads entryOffset into dataOffset's per-data reference
// chain: the first reference lands directly in Data.entry_offset; every
// later one grows through Data.entry_array_offset's chain (spec.md §4.6
// step 5, the "extra + chain" pattern).
func (f *File) linkDataEntry(dataStore *arenaStore, entryArrayStore *arenaStore, dataOffset, entryOffset uint64) error {
	raw, err := dataStore.ReadAt(dataOffset, wire.DataMinSize)
	if err != nil {
		return err
	}

	e := endian.LittleEndian
	curEntryOffset := e.Uint64(raw[40:48])
	curArrayOffset := e.Uint64(raw[48:56])
	curNEntries := e.Uint64(raw[56:64])

	if curEntryOffset == 0 {
		if err := patchUint64(dataStore, dataOffset+40, entryOffset); err != nil {
			return err
		}
		return patchUint64(dataStore, dataOffset+56, curNEntries+1)
	}

	c, err := entryindex.OpenChain(entryArrayStore, curArrayOffset)
	if err != nil {
		return err
	}

	newFirst, err := c.Append(entryArrayStore, entryOffset)
	if err != nil {
		return err
	}
	if newFirst != curArrayOffset {
		if err := patchUint64(dataStore, dataOffset+48, newFirst); err != nil {
			return err
		}
	}

	return patchUint64(dataStore, dataOffset+56, curNEntries+1)
}

func patchUint64(store *arenaStore, offset uint64, v uint64) error {
	raw := make([]byte, 8)
	endian.LittleEndian.PutUint64(raw, v)
	return store.WriteAt(offset, raw)
}

// appendTag inserts a seal checkpoint covering the bytes since the
// previous Tag (spec.md §4.6 step 1).
func (f *File) appendTag(store *arenaStore) error {
	sealStart := f.header.HeaderSize + f.lastTagArenaSize
	sealLen := f.bytesSinceLastTag()

	covered, err := store.ReadAt(sealStart, sealLen)
	if err != nil {
		return err
	}

	tag, err := f.sealer.NextTag(f.header.TailEntrySeqnum+1, covered)
	if err != nil {
		return err
	}

	if _, err := store.Append(tag.Bytes()); err != nil {
		return err
	}

	f.lastTagArenaSize = f.arena.arenaSize()
	f.header.NTags++

	return nil
}

// bytesSinceLastTag reports how many arena bytes have been written since
// the last Tag, the byte-threshold input to seal.Policy.
func (f *File) bytesSinceLastTag() uint64 {
	return f.arena.arenaSize() - f.lastTagArenaSize
}

// pokeInotify truncates the file to its own current size: a byte-wise
// no-op that nonetheless coalesces a fresh IN_MODIFY event for readers
// watching the file (spec.md §4.6 step 7).
func (f *File) pokeInotify() error {
	size := int64(f.allocator.CurrentSize())
	return f.file.Truncate(size)
}

// Flush fsyncs the mapped regions and the file itself without changing
// Header.State (unlike Close/SetOffline, which also flip it offline).
func (f *File) Flush() error {
	if f.cfg.readOnly {
		return nil
	}

	if err := f.cache.SyncAll(); err != nil {
		return err
	}
	return f.file.Sync()
}

// reportRotateSuggested updates the RotateSuggested gauge from the
// current hash-table fill ratios (spec.md §4.8, §9 default 0.75) and
// from an on-disk HeaderSize older (smaller) than wire.HeaderSize.
func (f *File) reportRotateSuggested() {
	if f.metrics == nil {
		return
	}

	dataBuckets := (f.header.DataHashTableSize - wire.ObjectHeaderSize) / wire.HashBucketSize
	fieldBuckets := (f.header.FieldHashTableSize - wire.ObjectHeaderSize) / wire.HashBucketSize

	suggested := wire.FillRatio(f.header.NData, dataBuckets) >= f.cfg.rotateFillThreshold ||
		wire.FillRatio(f.header.NFields, fieldBuckets) >= f.cfg.rotateFillThreshold ||
		f.header.HeaderSize < wire.HeaderSize

	if suggested {
		f.metrics.RotateSuggested.Set(1)
	} else {
		f.metrics.RotateSuggested.Set(0)
	}
}

func maxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
