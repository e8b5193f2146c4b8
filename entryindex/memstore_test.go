package entryindex

import "github.com/mightysai1997/sdjournal/errs"

type memStore struct {
	buf []byte
}

// newMemStore reserves a fake header-sized prefix so real object offsets
// are never 0 (0 is the "absent" sentinel for chain/bucket pointers,
// matching how offset 0 always falls inside the real Header on disk).
func newMemStore() *memStore {
	return &memStore{buf: make([]byte, 256, 4096)}
}

func (m *memStore) ReadAt(offset, size uint64) ([]byte, error) {
	if offset+size > uint64(len(m.buf)) {
		return nil, errs.ErrTruncated
	}
	out := make([]byte, size)
	copy(out, m.buf[offset:offset+size])
	return out, nil
}

func (m *memStore) WriteAt(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(m.buf)) {
		return errs.ErrInvalidOffset
	}
	copy(m.buf[offset:], data)
	return nil
}

func (m *memStore) Append(data []byte) (uint64, error) {
	offset := uint64(len(m.buf))
	m.buf = append(m.buf, data...)
	return offset, nil
}
