package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"neuronexus/internal/hub"
	"neuronexus/internal/modelcache"
	"neuronexus/pkg/types"
)

type Manager struct {
	mu       sync.RWMutex
	state    State
	loaded   *loadedModel
	lastErr  string
	loads    uint64
	initMu   sync.Mutex // serializes initializers
	repoID   string
	revision string

	cache       *modelcache.Cache
	hub         *hub.Client
	tokens      TokenSource
	prefs       types.DownloadPreferences
	lockTimeout time.Duration

	publisher EventPublisher
	log       zerolog.Logger
	clock     func() time.Time
}

// New builds a manager for the repository addressed by cache, fetching
// missing artifacts through client.
func New(cache *modelcache.Cache, client *hub.Client) *Manager {
	return NewWithConfig(ManagerConfig{Cache: cache, Hub: client})
}

// SetEventPublisher replaces the event sink; nil restores the no-op sink.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}

func (m *Manager) publish(name string, fields map[string]any) {
	m.mu.RLock()
	p := m.publisher
	m.mu.RUnlock()
	if fields == nil {
		fields = map[string]any{}
	}
	p.Publish(Event{Name: name, RepoID: m.repoID, Fields: fields})
}

// RepoID is the registry repository this manager loads.
func (m *Manager) RepoID() string { return m.repoID }

// Cache exposes the cache the manager reads from.
func (m *Manager) Cache() *modelcache.Cache { return m.cache }

// IsInitialized reports whether a model is loaded. It never blocks on an
// initialization in progress beyond the brief swap under the write lock.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded != nil
}

// State returns the lifecycle position.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
