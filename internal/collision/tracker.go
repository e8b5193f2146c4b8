// Package collision tracks hash-bucket chain-walk statistics for the data
// and field hash tables (spec §4.4). A "collision" here is a chain walk
// that had to compare more than one node before finding a match (or
// exhausting the chain on insert) — i.e. two or more distinct payloads
// landing in the same bucket (hash modulo the bucket count). The hash
// index never treats this as
// an error: the bytewise payload comparison in the chain walk disambiguates
// correctly regardless of chain length. This package only accumulates
// counters an operator can expose as metrics to notice a degenerate hash
// distribution.
package collision

import "sync/atomic"

// Stats accumulates chain-walk statistics for one hash table. All methods
// are safe for concurrent use.
type Stats struct {
	lookups    atomic.Uint64 // total find_by / insert_if_absent calls
	steps      atomic.Uint64 // total chain nodes visited across all lookups
	collisions atomic.Uint64 // lookups that visited more than one node
}

// NewStats creates an empty Stats accumulator.
func NewStats() *Stats {
	return &Stats{}
}

// RecordWalk records one bucket chain walk that visited n nodes before
// resolving (n == 1 means the first node matched or the chain was empty).
func (s *Stats) RecordWalk(n int) {
	s.lookups.Add(1)
	s.steps.Add(uint64(n))
	if n > 1 {
		s.collisions.Add(1)
	}
}

// Lookups returns the total number of recorded chain walks.
func (s *Stats) Lookups() uint64 { return s.lookups.Load() }

// Collisions returns the number of walks that needed more than one chain
// node comparison.
func (s *Stats) Collisions() uint64 { return s.collisions.Load() }

// AverageChainLength returns the mean number of nodes visited per walk, or
// 0 if no walks have been recorded.
func (s *Stats) AverageChainLength() float64 {
	n := s.lookups.Load()
	if n == 0 {
		return 0
	}

	return float64(s.steps.Load()) / float64(n)
}

// Reset clears all counters.
func (s *Stats) Reset() {
	s.lookups.Store(0)
	s.steps.Store(0)
	s.collisions.Store(0)
}
