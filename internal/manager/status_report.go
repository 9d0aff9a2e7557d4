package manager

import "neuronexus/pkg/types"

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() types.ModelSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := types.ModelSnapshot{
		Initialized: m.loaded != nil,
		RepoID:      m.repoID,
		LastError:   m.lastErr,
		LoadsTotal:  m.loads,
	}
	if m.loaded != nil {
		s.Revision = m.loaded.snapshot.Revision
		s.SnapshotDir = m.loaded.snapshot.Dir
	}
	return s
}
