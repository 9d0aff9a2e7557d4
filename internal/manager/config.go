package manager

import (
	"time"

	"github.com/rs/zerolog"

	"neuronexus/internal/hub"
	"neuronexus/internal/modelcache"
	"neuronexus/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultRevision    = hub.DefaultRevision
	defaultLockTimeout = 10 * time.Minute
)

// TokenSource provides the registry access token and records successful
// loads. *aiconfig.Store satisfies it.
type TokenSource interface {
	Token() (string, error)
	UpdateLastLoad(at time.Time) error
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	RepoID   string
	Revision string
	// Cache is required; its repository must match RepoID.
	Cache *modelcache.Cache
	// Hub may be nil for offline use: initialization then only succeeds
	// from a complete cache.
	Hub         *hub.Client
	Tokens      TokenSource
	Preferences *types.DownloadPreferences
	// LockTimeout bounds the wait for another process downloading the same
	// repository.
	LockTimeout time.Duration
	Publisher   EventPublisher
	Logger      *zerolog.Logger
	Clock       func() time.Time
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		repoID:      cfg.RepoID,
		revision:    cfg.Revision,
		cache:       cfg.Cache,
		hub:         cfg.Hub,
		tokens:      cfg.Tokens,
		lockTimeout: cfg.LockTimeout,
		publisher:   cfg.Publisher,
		clock:       cfg.Clock,
		state:       StateEmpty,
	}
	if m.repoID == "" {
		if m.cache != nil {
			m.repoID = m.cache.RepoID()
		} else {
			m.repoID = types.DefaultModelVersion
		}
	}
	if m.revision == "" {
		m.revision = defaultRevision
	}
	if cfg.Preferences != nil {
		m.prefs = *cfg.Preferences
	} else {
		m.prefs = types.DefaultDownloadPreferences()
	}
	if m.lockTimeout <= 0 {
		m.lockTimeout = defaultLockTimeout
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	} else {
		m.log = zerolog.Nop()
	}
	return m
}
