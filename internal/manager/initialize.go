package manager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"neuronexus/internal/bert"
	"neuronexus/internal/common/fsutil"
	"neuronexus/internal/hub"
	"neuronexus/internal/modelcache"
	"neuronexus/internal/tokenizer"
	"neuronexus/pkg/types"
)

// Initialize loads the model without progress reporting.
func (m *Manager) Initialize(ctx context.Context) error {
	return m.InitializeWithProgress(ctx, nil)
}

// InitializeWithProgress loads the model, downloading missing artifacts.
// Progress is non-decreasing and reaches 1.0 only on success. If the model
// is already loaded it reports (1.0, MsgAlreadyLoaded) and returns nil.
// Concurrent callers are serialized; the ones that wait find the model
// loaded and take the fast path.
func (m *Manager) InitializeWithProgress(ctx context.Context, reporter ProgressReporter) error {
	sink := newProgressSink(reporter)
	if m.IsInitialized() {
		m.fastPath(sink)
		return nil
	}

	m.initMu.Lock()
	defer m.initMu.Unlock()
	if m.IsInitialized() {
		m.fastPath(sink)
		return nil
	}

	start := m.clock()
	m.mu.Lock()
	m.state = StateLoading
	m.mu.Unlock()
	m.log.Info().Str("event", EventInitStart).Str("repo", m.repoID).Msg("")
	m.publish(EventInitStart, nil)

	loaded, err := m.load(ctx, sink)
	if err != nil {
		var ie *InitError
		if !errors.As(err, &ie) {
			ie = newInitError(StageModel, err)
		}
		m.mu.Lock()
		m.state = StateError
		m.lastErr = ie.Error()
		m.mu.Unlock()
		modelInitFailuresTotal.WithLabelValues(string(ie.Kind)).Inc()
		m.log.Error().Str("event", EventInitError).Str("stage", string(ie.Stage)).Str("kind", string(ie.Kind)).Err(ie.Err).Msg("")
		m.publish(EventInitError, map[string]any{"stage": string(ie.Stage), "kind": string(ie.Kind), "error": ie.Err.Error()})
		return ie
	}

	now := m.clock()
	loaded.loadedAt = now
	m.mu.Lock()
	m.loaded = loaded
	m.state = StateReady
	m.lastErr = ""
	m.loads++
	m.mu.Unlock()

	if m.tokens != nil {
		if err := m.tokens.UpdateLastLoad(now); err != nil {
			m.log.Warn().Str("event", "last_load_update_failed").Err(err).Msg("")
		}
	}
	dur := now.Sub(start)
	modelLoadsTotal.Inc()
	modelInitDuration.Observe(dur.Seconds())
	m.log.Info().Str("event", EventInitReady).Str("revision", loaded.snapshot.Revision).Dur("dur", dur).Msg("")
	m.publish(EventInitReady, map[string]any{"revision": loaded.snapshot.Revision, "dur_ms": dur.Milliseconds()})
	sink.report(1.0, MsgLoaded)
	return nil
}

func (m *Manager) fastPath(sink *progressSink) {
	sink.report(1.0, MsgAlreadyLoaded)
	m.publish(EventInitFastPath, nil)
}

func (m *Manager) stage(sink *progressSink, p float64, msg string) {
	sink.report(p, msg)
	m.publish(EventInitStage, map[string]any{"progress": p, "message": msg})
}

// load resolves a complete snapshot and builds the model from it. Nothing is
// published to the manager state here.
func (m *Manager) load(ctx context.Context, sink *progressSink) (*loadedModel, error) {
	if m.cache == nil {
		return nil, &InitError{Stage: StageConnect, Kind: KindCache, Err: errors.New("no model cache configured")}
	}
	m.stage(sink, 0.0, MsgStart)
	m.stage(sink, 0.1, MsgConnect)

	snap, ok := m.cache.FindSnapshot()
	if ok {
		m.log.Debug().Str("event", "cache_hit").Str("revision", snap.Revision).Msg("")
		m.stage(sink, 0.2, MsgConfig)
		m.stage(sink, 0.3, MsgTokenizer)
		m.stage(sink, weightsProgressMin, MsgWeights)
	} else {
		var err error
		if snap, err = m.fetch(ctx, sink); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, newInitError(StageDownload, err)
	}

	m.stage(sink, 0.6, MsgLoadTokenizer)
	tok, err := tokenizer.LoadFile(snap.TokenizerPath)
	if err != nil {
		return nil, newInitError(StageTokenizer, err)
	}

	m.stage(sink, 0.7, MsgLoadConfig)
	cfg, err := bert.LoadConfig(snap.ConfigPath)
	if err != nil {
		return nil, newInitError(StageConfig, err)
	}

	m.stage(sink, 0.8, MsgLoadWeights)
	weights, err := bert.LoadWeights(snap.WeightsPath)
	if err != nil {
		return nil, newInitError(StageWeights, err)
	}

	m.stage(sink, 0.9, MsgInitModel)
	model, err := bert.New(cfg, weights)
	if err != nil {
		return nil, newInitError(StageModel, err)
	}
	tok.MaxLength = min(tok.MaxLength, model.MaxPositions())
	return &loadedModel{model: model, tokenizer: tok, snapshot: snap}, nil
}

// fetch downloads missing artifacts into the snapshot of the resolved
// revision while holding the cross-process cache lock.
func (m *Manager) fetch(ctx context.Context, sink *progressSink) (types.Snapshot, error) {
	if m.hub == nil {
		return types.Snapshot{}, &InitError{Stage: StageConnect, Kind: KindArtifactMissing,
			Err: fmt.Errorf("%s is not cached and no registry is configured", m.repoID)}
	}
	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	release, err := m.cache.Lock(lockCtx)
	cancel()
	if err != nil {
		return types.Snapshot{}, newInitError(StageDownload, err)
	}
	defer release()
	// another process may have completed the download while we waited
	if snap, ok := m.cache.FindSnapshot(); ok {
		m.stage(sink, 0.2, MsgConfig)
		m.stage(sink, 0.3, MsgTokenizer)
		m.stage(sink, weightsProgressMin, MsgWeights)
		return snap, nil
	}

	client := m.hub
	if m.tokens != nil {
		tok, err := m.tokens.Token()
		if err != nil {
			m.log.Warn().Str("event", "token_read_failed").Err(err).Msg("")
		} else if tok != "" {
			client = client.WithToken(tok)
		}
	}

	commit, err := client.Ping(ctx, m.repoID, m.revision)
	if err != nil {
		return types.Snapshot{}, newInitError(StageConnect, err)
	}
	if commit == "" {
		commit = m.revision
	}
	dir := m.cache.SnapshotDir(commit)

	steps := []struct {
		file     string
		progress float64
		msg      string
	}{
		{modelcache.ConfigFile, 0.2, MsgConfig},
		{modelcache.TokenizerFile, 0.3, MsgTokenizer},
		{modelcache.WeightsFile, weightsProgressMin, MsgWeights},
	}
	for _, st := range steps {
		m.stage(sink, st.progress, st.msg)
		dest := filepath.Join(dir, st.file)
		if fsutil.IsNonEmptyFile(dest) {
			continue
		}
		req := hub.Request{
			Repo:     m.repoID,
			Revision: commit,
			File:     st.file,
			Dest:     dest,
			Resume:   m.prefs.ResumeOnInterrupt,
			Verify:   m.prefs.VerifyIntegrity,
		}
		if st.file == modelcache.WeightsFile {
			req.OnProgress = weightsProgress(sink)
		}
		res, err := client.Download(ctx, req)
		if err != nil {
			return types.Snapshot{}, newInitError(StageDownload, err)
		}
		modelDownloadBytesTotal.WithLabelValues(st.file).Add(float64(res.Size))
	}
	if err := m.cache.WriteRef("main", commit); err != nil {
		m.log.Warn().Str("event", "ref_write_failed").Err(err).Msg("")
	}
	snap, ok := m.cache.FindSnapshot()
	if !ok {
		return types.Snapshot{}, &InitError{Stage: StageDownload, Kind: KindArtifactMissing,
			Err: fmt.Errorf("snapshot %s incomplete after download", commit)}
	}
	return snap, nil
}

// weightsProgress maps byte progress into the weights band, one update per
// percent.
func weightsProgress(sink *progressSink) func(done, total int64) {
	lastPct := int64(-1)
	return func(done, total int64) {
		if total <= 0 {
			return
		}
		pct := done * 100 / total
		if pct == lastPct {
			return
		}
		lastPct = pct
		p := weightsProgressMin + (weightsProgressMax-weightsProgressMin)*float64(done)/float64(total)
		sink.report(p, fmt.Sprintf("%s %s / %s", MsgWeights,
			modelcache.FormatBytes(uint64(done)), modelcache.FormatBytes(uint64(total))))
	}
}
