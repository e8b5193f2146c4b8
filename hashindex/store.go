package hashindex

// Store is the minimal arena access the hash index needs: random-access
// reads and in-place patches of already-allocated bytes, and an append
// primitive for brand-new objects. The journal package supplies an
// implementation backed by mmapwin.Cache and alloc.Allocator; hashindex
// itself knows nothing about mmap windows or growth policy.
type Store interface {
	// ReadAt returns a copy of size bytes at offset.
	ReadAt(offset, size uint64) ([]byte, error)

	// WriteAt patches data into already-allocated space at offset.
	WriteAt(offset uint64, data []byte) error

	// Append writes data (a complete, self-describing object) to the
	// tail of the arena and returns the offset it landed at.
	Append(data []byte) (offset uint64, err error)
}
