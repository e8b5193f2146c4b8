package journal

// Stats is a snapshot of a File's header counters, useful for deciding
// whether to rotate and for tests asserting dedup behavior.
type Stats struct {
	NObjects uint64
	NEntries uint64
	NData    uint64
	NFields  uint64
	NTags    uint64
	ArenaSize uint64
}

// Stats returns the current header counters.
func (f *File) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Stats{
		NObjects:  f.header.NObjects,
		NEntries:  f.header.NEntries,
		NData:     f.header.NData,
		NFields:   f.header.NFields,
		NTags:     f.header.NTags,
		ArenaSize: f.header.ArenaSize,
	}
}

// BootID returns the boot id this File stamps new entries with.
func (f *File) BootID() [16]byte {
	return f.bootID
}

// SeqnumID returns the file's sequence-number identity, carried forward
// by Rotate so a reader can tell a rotated continuation apart from an
// unrelated file reusing the same name.
func (f *File) SeqnumID() [16]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.header.SeqnumID
}

// Path returns the filesystem path this File was opened from.
func (f *File) Path() string {
	return f.path
}
