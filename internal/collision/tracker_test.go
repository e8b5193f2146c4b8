package collision

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats_RecordWalk(t *testing.T) {
	s := NewStats()

	s.RecordWalk(1)
	require.EqualValues(t, 1, s.Lookups())
	require.EqualValues(t, 0, s.Collisions())
	require.InDelta(t, 1.0, s.AverageChainLength(), 0.0001)

	s.RecordWalk(3)
	require.EqualValues(t, 2, s.Lookups())
	require.EqualValues(t, 1, s.Collisions())
	require.InDelta(t, 2.0, s.AverageChainLength(), 0.0001)
}

func TestStats_AverageChainLength_Empty(t *testing.T) {
	s := NewStats()
	require.Zero(t, s.AverageChainLength())
}

func TestStats_Reset(t *testing.T) {
	s := NewStats()
	s.RecordWalk(5)
	s.Reset()

	require.Zero(t, s.Lookups())
	require.Zero(t, s.Collisions())
	require.Zero(t, s.AverageChainLength())
}

func TestStats_ConcurrentAccess(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.RecordWalk(n%3 + 1)
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 100, s.Lookups())
}
