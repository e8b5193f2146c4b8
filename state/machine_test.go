package state

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mightysai1997/sdjournal/format"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	fsyncCount atomic.Int32
	lastState  atomic.Int32
	fsyncDelay time.Duration
	failFsync  bool
}

func (f *fakeSyncer) Fsync() error {
	if f.fsyncDelay > 0 {
		time.Sleep(f.fsyncDelay)
	}
	if f.failFsync {
		return errors.New("fsync failed")
	}
	f.fsyncCount.Add(1)
	return nil
}

func (f *fakeSyncer) WriteHeaderState(s format.State) error {
	f.lastState.Store(int32(s))
	return nil
}

func TestMachine_SetOffline_Wait(t *testing.T) {
	syncer := &fakeSyncer{}
	m := New(syncer)

	require.NoError(t, m.SetOffline(true))
	require.Equal(t, Done, m.CurrentPhase())
	require.EqualValues(t, format.StateOffline, syncer.lastState.Load())
	require.EqualValues(t, 2, syncer.fsyncCount.Load())
}

func TestMachine_MarkArchived_WritesArchivedState(t *testing.T) {
	syncer := &fakeSyncer{}
	m := New(syncer)
	m.MarkArchived()

	require.NoError(t, m.SetOffline(true))
	require.EqualValues(t, format.StateArchived, syncer.lastState.Load())
}

func TestMachine_ConcurrentSetOffline_Coalesced(t *testing.T) {
	syncer := &fakeSyncer{fsyncDelay: 20 * time.Millisecond}
	m := New(syncer)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, m.SetOffline(true))
		}()
	}
	wg.Wait()

	// all five calls join the same cycle: exactly one fsync pair
	require.EqualValues(t, 2, syncer.fsyncCount.Load())
}

func TestMachine_SequentialSetOffline_EachRunsFresh(t *testing.T) {
	syncer := &fakeSyncer{}
	m := New(syncer)

	require.NoError(t, m.SetOffline(true))
	require.NoError(t, m.SetOnline())
	require.NoError(t, m.SetOffline(true))

	require.EqualValues(t, 4, syncer.fsyncCount.Load())
}

func TestMachine_SetOffline_PropagatesFsyncError(t *testing.T) {
	syncer := &fakeSyncer{failFsync: true}
	m := New(syncer)

	err := m.SetOffline(true)
	require.Error(t, err)
}

func TestMachine_SetOnline_NoOpWhenJoined(t *testing.T) {
	syncer := &fakeSyncer{}
	m := New(syncer)

	require.NoError(t, m.SetOnline())
	require.Equal(t, Joined, m.CurrentPhase())
}

func TestMachine_SetOffline_NoWait_Eventually(t *testing.T) {
	syncer := &fakeSyncer{}
	m := New(syncer)

	require.NoError(t, m.SetOffline(false))
	require.Eventually(t, func() bool {
		return m.CurrentPhase() == Done
	}, time.Second, time.Millisecond)
}
