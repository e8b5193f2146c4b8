package journal

import "bytes"

// Timestamp is the pair of clocks every Entry carries (spec.md §3.2):
// wall-clock microseconds since the epoch, and monotonic microseconds
// since boot. Monotonic is only comparable between entries sharing the
// same BootID.
type Timestamp struct {
	Realtime  uint64
	Monotonic uint64
}

// Field is one raw iovec item passed to AppendEntry: typically
// "NAME=value" bytes, deduplicated whole in the Data index. If it
// contains no '=', it is stored but not indexed by field name.
type Field []byte

// splitName returns the bytes before the first '=' in f, or nil if f
// contains none.
func (f Field) splitName() []byte {
	if i := bytes.IndexByte(f, '='); i >= 0 {
		return f[:i]
	}
	return nil
}

// Item is a decoded (name, value) pair returned by Reader.ReadItem. Name
// is empty when the underlying Field had no '='.
type Item struct {
	Name  string
	Value []byte
}
