package manager

// Unload drops the loaded model so the next Initialize reloads from cache
// (or the registry, after a cache clear). It waits for in-flight scoring to
// finish and reports whether a model was loaded.
func (m *Manager) Unload() bool {
	m.initMu.Lock()
	defer m.initMu.Unlock()

	m.mu.Lock()
	had := m.loaded != nil
	m.loaded = nil
	m.state = StateEmpty
	m.lastErr = ""
	m.mu.Unlock()

	if had {
		m.log.Info().Str("event", EventUnload).Str("repo", m.repoID).Msg("")
		m.publish(EventUnload, nil)
	}
	return had
}
