// Package app wires the configuration store, model cache, lifecycle manager,
// status tracker and evaluation service into one facade used by the HTTP
// API and the CLI.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"neuronexus/internal/aiconfig"
	"neuronexus/internal/config"
	"neuronexus/internal/evaluation"
	"neuronexus/internal/hub"
	"neuronexus/internal/manager"
	"neuronexus/internal/modelcache"
	"neuronexus/internal/rubric"
	"neuronexus/internal/status"
	"neuronexus/pkg/types"
)

// Options tune App construction. Zero values use defaults.
type Options struct {
	Logger    *zerolog.Logger
	Clock     func() time.Time
	Publisher manager.EventPublisher
	// ConnectTimeout bounds registry dials.
	ConnectTimeout time.Duration
}

// App is safe for concurrent use.
type App struct {
	cfg      config.Config
	store    *aiconfig.Store
	cache    *modelcache.Cache
	mgr      *manager.Manager
	tracker  *status.Tracker
	rubrics  *rubric.Registry
	eval     *evaluation.Service
	autoInit bool

	log     zerolog.Logger
	clock   func() time.Time
	started time.Time

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// New builds an App from cfg. The AI configuration document is read once to
// resolve the cache location, model repository and download preferences.
func New(cfg config.Config, opts Options) (*App, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	store, err := openStore(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	aicfg, err := store.Load()
	if err != nil {
		if !aiconfig.IsParseFailure(err) {
			return nil, err
		}
		log.Warn().Err(err).Str("event", "config_defaults").Str("config", store.Path()).Msg("unreadable ai config, using defaults")
		aicfg = types.DefaultAIConfiguration()
	}

	root, err := cacheRoot(cfg, aicfg)
	if err != nil {
		return nil, err
	}
	repo := cfg.RepoID
	if repo == "" || repo == types.DefaultModelVersion {
		repo = aicfg.RepoID()
	}
	cache := modelcache.New(root, repo)

	reg, err := loadRubrics(cfg.RubricsFile)
	if err != nil {
		return nil, err
	}

	prefs := aicfg.DownloadPreferences
	mgrLog := log.With().Str("component", "manager").Logger()
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		RepoID:      repo,
		Revision:    cfg.Revision,
		Cache:       cache,
		Hub:         hub.NewClient(cfg.HubEndpoint, "", opts.ConnectTimeout),
		Tokens:      store,
		Preferences: &prefs,
		Publisher:   opts.Publisher,
		Logger:      &mgrLog,
		Clock:       clock,
	})

	evalLog := log.With().Str("component", "evaluation").Logger()
	a := &App{
		cfg:      cfg,
		store:    store,
		cache:    cache,
		mgr:      mgr,
		rubrics:  reg,
		eval:     evaluation.NewServiceWithConfig(reg, mgr, evaluation.ServiceConfig{Logger: &evalLog, Clock: clock}),
		autoInit: cfg.AutoInit || aicfg.AutoLoadOnStartup,
		log:      log,
		clock:    clock,
		started:  clock(),
	}
	initial := status.Derive(store.IsTokenConfigured(), cache.IsModelCached(), false)
	a.tracker = status.NewTracker(initial, log.With().Str("component", "status").Logger())
	log.Info().Str("event", "app_ready").Str("repo", repo).Str("cache", root).
		Str("config", store.Path()).Str("status", initial.String()).Msg("")
	return a, nil
}

func openStore(path string) (*aiconfig.Store, error) {
	if path == "" {
		return aiconfig.Open()
	}
	return aiconfig.NewStore(path)
}

func cacheRoot(cfg config.Config, aicfg types.AIConfiguration) (string, error) {
	if p, err := aiconfig.CachePathOverride(aicfg); err != nil || p != "" {
		return p, err
	}
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return modelcache.DefaultRoot()
}

func loadRubrics(path string) (*rubric.Registry, error) {
	if path == "" {
		return rubric.Default(), nil
	}
	extra, err := rubric.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rubrics: %w", err)
	}
	return rubric.WithDefaults(extra...)
}

// Manager exposes the lifecycle manager.
func (a *App) Manager() *manager.Manager { return a.mgr }

// Config returns the resolved service configuration.
func (a *App) Config() config.Config { return a.cfg }

// Store exposes the AI configuration store.
func (a *App) Store() *aiconfig.Store { return a.store }

// AutoInit reports whether the model should be loaded at startup.
func (a *App) AutoInit() bool { return a.autoInit }

// Ready reports whether the model is loaded.
func (a *App) Ready() bool { return a.mgr.IsInitialized() }

// ModelStatus is the user-facing status.
func (a *App) ModelStatus() types.ModelStatus { return a.tracker.Status() }

// Status assembles the GET /status payload.
func (a *App) Status() types.StatusResponse {
	now := a.clock()
	return types.StatusResponse{
		Status:          a.tracker.Status(),
		Model:           a.mgr.Snapshot(),
		Cache:           a.cache.Info(),
		TokenConfigured: a.store.IsTokenConfigured(),
		UptimeSeconds:   int64(now.Sub(a.started).Seconds()),
		ServerTimeUnix:  now.Unix(),
	}
}

// Progress returns the latest initialization progress.
func (a *App) Progress() types.ProgressResponse {
	p, msg := a.tracker.Progress()
	return types.ProgressResponse{Progress: p, Message: msg, Status: a.tracker.Status()}
}

// Initialize loads the model synchronously, forwarding progress to reporter
// (which may be nil) and the status tracker.
func (a *App) Initialize(ctx context.Context, reporter manager.ProgressReporter) error {
	if !a.begin() {
		return ErrBusy
	}
	defer a.end()
	return a.initialize(ctx, reporter)
}

// StartInit launches initialization in the background. It returns ErrBusy if
// one is already running.
func (a *App) StartInit(ctx context.Context) error {
	if !a.begin() {
		return ErrBusy
	}
	go func() {
		defer a.end()
		if err := a.initialize(ctx, nil); err != nil {
			a.log.Warn().Str("event", "background_init_failed").Err(err).Msg("")
		}
	}()
	return nil
}

// Wait blocks until a running initialization finishes or ctx ends.
func (a *App) Wait(ctx context.Context) error {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return false
	}
	a.running = true
	a.done = make(chan struct{})
	return true
}

func (a *App) end() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = false
	close(a.done)
	a.done = nil
}

func (a *App) initialize(ctx context.Context, reporter manager.ProgressReporter) error {
	track := a.tracker.Reporter()
	fanout := manager.ProgressFunc(func(p float64, msg string) {
		track.Report(p, msg)
		if reporter != nil {
			reporter.Report(p, msg)
		}
	})
	if err := a.mgr.InitializeWithProgress(ctx, fanout); err != nil {
		a.tracker.Fail(err.Error())
		return err
	}
	return nil
}

// Unload drops the loaded model and resets the status.
func (a *App) Unload() (bool, error) {
	a.mu.Lock()
	busy := a.running
	a.mu.Unlock()
	if busy {
		return false, ErrBusy
	}
	had := a.mgr.Unload()
	a.tracker.Reset(a.store.IsTokenConfigured())
	return had, nil
}

// CacheInfo describes the model cache.
func (a *App) CacheInfo() types.CacheInfo { return a.cache.Info() }

// ClearCache unloads the model and deletes its cached artifacts.
func (a *App) ClearCache() error {
	if _, err := a.Unload(); err != nil {
		return err
	}
	if err := a.cache.Clear(); err != nil {
		return err
	}
	a.log.Info().Str("event", "cache_cleared").Str("location", a.cache.ModelDir()).Msg("")
	return nil
}

// SetToken validates and stores the registry token.
func (a *App) SetToken(token string) error {
	if !aiconfig.ValidateTokenFormat(token) {
		return ErrInvalidToken
	}
	err := a.store.SetToken(token)
	if aiconfig.IsParseFailure(err) {
		// Replace the unreadable file with defaults carrying the new token.
		cfg := types.DefaultAIConfiguration()
		enc := aiconfig.EncodeToken(token)
		cfg.TokenEncoded = &enc
		err = a.store.Save(cfg)
	}
	if err != nil {
		return err
	}
	if a.tracker.Can(status.EventSaveToken) {
		_ = a.tracker.Fire(context.Background(), status.EventSaveToken)
	}
	return nil
}

// ClearToken removes the stored token. A loaded model stays loaded.
func (a *App) ClearToken() error {
	if err := a.store.ClearToken(); err != nil {
		return err
	}
	if !a.mgr.IsInitialized() {
		_ = a.tracker.Fire(context.Background(), status.EventClearToken)
	}
	return nil
}

// TokenConfigured reports whether a token is stored.
func (a *App) TokenConfigured() bool { return a.store.IsTokenConfigured() }

// Rubrics lists all registered rubrics.
func (a *App) Rubrics() []types.Rubric { return a.rubrics.All() }

// Rubric returns one exam's rubric.
func (a *App) Rubric(exam types.ExamType) (types.Rubric, bool) { return a.rubrics.Get(exam) }
