package seal

import (
	"sync/atomic"

	"github.com/mightysai1997/sdjournal/wire"
)

// Policy decides when the append pipeline should insert a new Tag
// (spec.md §4.6 step 1: "if the epoch-boundary policy triggers").
type Policy struct {
	// MinBytesBetweenTags is the minimum number of arena bytes written
	// since the previous Tag before another one is considered.
	MinBytesBetweenTags uint64
}

// DefaultPolicy seals roughly every megabyte of new data.
func DefaultPolicy() Policy {
	return Policy{MinBytesBetweenTags: 1 << 20}
}

// ShouldSeal reports whether a new Tag should be appended given the
// number of arena bytes written since the previous one.
func (p Policy) ShouldSeal(bytesSinceLastTag uint64) bool {
	return p.MinBytesBetweenTags > 0 && bytesSinceLastTag >= p.MinBytesBetweenTags
}

// Sealer bumps the epoch counter and asks an Oracle to seal the bytes
// written since the previous Tag.
type Sealer struct {
	oracle Oracle
	policy Policy
	epoch  atomic.Uint64
}

// NewSealer returns a Sealer starting at epoch 0 (the first NextTag
// call produces epoch 1).
func NewSealer(oracle Oracle, policy Policy) *Sealer {
	return &Sealer{oracle: oracle, policy: policy}
}

// ShouldSeal reports whether the append pipeline should insert a Tag now.
func (s *Sealer) ShouldSeal(bytesSinceLastTag uint64) bool {
	return s.policy.ShouldSeal(bytesSinceLastTag)
}

// NextTag advances the epoch and produces a Tag sealing data (the raw
// bytes of the arena range since the previous Tag) at the given seqnum.
func (s *Sealer) NextTag(seqnum uint64, data []byte) (wire.Tag, error) {
	epoch := s.epoch.Add(1)

	mac, err := s.oracle.Seal(epoch, data)
	if err != nil {
		return wire.Tag{}, err
	}

	return wire.NewTag(seqnum, epoch, mac), nil
}

// Epoch returns the current epoch counter.
func (s *Sealer) Epoch() uint64 {
	return s.epoch.Load()
}

// Verify checks an existing Tag against data.
func (s *Sealer) Verify(tag wire.Tag, data []byte) (bool, error) {
	return s.oracle.Verify(tag.Epoch, data, tag.MAC)
}
