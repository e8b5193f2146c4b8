package state

// SetOffline requests the file transition offline: fsync, flip
// Header.State to OFFLINE or ARCHIVED, fsync again (spec.md §4.7).
// Concurrent SetOffline calls join the same in-flight cycle; a call
// issued after the previous cycle already finished starts a fresh one,
// picking up any writes made meanwhile. If wait is true, SetOffline
// blocks until the cycle completes.
func (m *Machine) SetOffline(wait bool) error {
	if !wait {
		go func() { _, _, _ = m.group.Do(offlineKey, m.offlineCycle) }()
		return nil
	}

	_, err, _ := m.group.Do(offlineKey, m.offlineCycle)
	return err
}

// SetOnline cancels a pending offline if it hasn't yet reached the
// header-write point; past that point it joins the in-flight offline
// instead (spec.md §4.7). Either way, SetOnline blocks until there is no
// offline cycle pending, then marks the machine Joined so a future
// SetOffline starts a fresh cycle. The caller (journal) is responsible
// for writing Header.State back to ONLINE afterward.
func (m *Machine) SetOnline() error {
	if Phase(m.phase.Load()) == Syncing {
		m.phase.Store(int32(Cancel))
	}

	_, err, _ := m.group.Do(offlineKey, func() (any, error) { return nil, nil })
	m.phase.Store(int32(Joined))

	return err
}
