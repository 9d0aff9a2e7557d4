// Package status tracks the user-facing model status (types.ModelStatus) as
// a state machine driven by token changes and initialization progress.
package status

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"

	"neuronexus/internal/manager"
	"neuronexus/pkg/types"
)

// Event names accepted by Tracker.Fire.
const (
	EventSaveToken  = "save_token"
	EventClearToken = "clear_token"
	EventConnect    = "connect"
	EventDownload   = "download"
	EventLoad       = "load"
	EventReady      = "ready"
	EventFail       = "fail"
	EventReset      = "reset"
)

const (
	notConfigured = string(types.StatusNotConfigured)
	tokenSaved    = string(types.StatusTokenSaved)
	connecting    = string(types.StatusConnecting)
	downloading   = string(types.StatusDownloading)
	loading       = string(types.StatusLoading)
	ready         = string(types.StatusReady)
	failed        = string(types.StatusError)
)

var allStates = []string{notConfigured, tokenSaved, connecting, downloading, loading, ready, failed}

func transitions() fsm.Events {
	return fsm.Events{
		{Name: EventSaveToken, Src: []string{notConfigured, tokenSaved, failed}, Dst: tokenSaved},
		{Name: EventClearToken, Src: allStates, Dst: notConfigured},
		{Name: EventConnect, Src: []string{notConfigured, tokenSaved, failed}, Dst: connecting},
		{Name: EventDownload, Src: []string{connecting}, Dst: downloading},
		{Name: EventLoad, Src: []string{connecting, downloading}, Dst: loading},
		{Name: EventReady, Src: allStates, Dst: ready},
		{Name: EventFail, Src: []string{notConfigured, tokenSaved, connecting, downloading, loading, ready}, Dst: failed},
		{Name: EventReset, Src: []string{ready, failed}, Dst: tokenSaved},
	}
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	machine     *fsm.FSM
	errMsg      string
	progress    float64
	progressMsg string
	log         zerolog.Logger
}

// NewTracker starts at initial. An Error initial status keeps its message.
func NewTracker(initial types.ModelStatus, log zerolog.Logger) *Tracker {
	t := &Tracker{log: log}
	if initial.Kind == "" {
		initial.Kind = types.StatusNotConfigured
	}
	if initial.Kind == types.StatusError {
		t.errMsg = initial.Message
	}
	t.machine = fsm.NewFSM(string(initial.Kind), transitions(), fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			t.log.Debug().Str("event", "status_transition").Str("from", e.Src).Str("to", e.Dst).Str("trigger", e.Event).Msg("")
		},
	})
	return t
}

// Status returns the current status.
func (t *Tracker) Status() types.ModelStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Tracker) statusLocked() types.ModelStatus {
	kind := types.ModelStatusKind(t.machine.Current())
	if kind == types.StatusError {
		return types.ErrorStatus(t.errMsg)
	}
	return types.ModelStatus{Kind: kind}
}

// Progress returns the last reported initialization progress.
func (t *Tracker) Progress() (float64, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress, t.progressMsg
}

// Fire applies one event. Re-entering the current state is not an error.
func (t *Tracker) Fire(ctx context.Context, event string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fireLocked(ctx, event)
}

func (t *Tracker) fireLocked(ctx context.Context, event string) error {
	err := t.machine.Event(ctx, event)
	var noop fsm.NoTransitionError
	if err != nil && !errors.As(err, &noop) {
		return err
	}
	if event != EventFail {
		t.errMsg = ""
	}
	return nil
}

// Can reports whether event is allowed from the current state.
func (t *Tracker) Can(event string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.Can(event)
}

// Busy reports whether an initialization is in flight.
func (t *Tracker) Busy() bool { return t.Status().Busy() }

// Fail moves to Error(msg) from any state.
func (t *Tracker) Fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.machine.Current() != failed {
		_ = t.machine.Event(context.Background(), EventFail)
	}
	t.errMsg = msg
}

// Reset leaves Ready or Error for TokenSaved, or NotConfigured when no token
// is stored. Progress is cleared.
func (t *Tracker) Reset(tokenConfigured bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev := EventClearToken
	if tokenConfigured {
		ev = EventReset
		if !t.machine.Can(EventReset) {
			ev = EventSaveToken
		}
	}
	_ = t.fireLocked(context.Background(), ev)
	t.progress, t.progressMsg = 0, ""
}

// Reporter returns a progress reporter that advances the tracker:
// below 0.2 Connecting, below 0.6 Downloading, below 1.0 Loading, 1.0 Ready.
func (t *Tracker) Reporter() manager.ProgressReporter {
	return manager.ProgressFunc(func(p float64, msg string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.progress, t.progressMsg = p, msg
		t.advanceLocked(targetFor(p))
	})
}

func targetFor(p float64) string {
	switch {
	case p >= 1.0:
		return ready
	case p >= 0.6:
		return loading
	case p >= 0.2:
		return downloading
	default:
		return connecting
	}
}

var flow = []string{connecting, downloading, loading, ready}

var stepEvent = map[string]string{
	connecting:  EventConnect,
	downloading: EventDownload,
	loading:     EventLoad,
	ready:       EventReady,
}

// advanceLocked walks the load flow forward to target, never backwards.
func (t *Tracker) advanceLocked(target string) {
	ctx := context.Background()
	if target == ready {
		_ = t.fireLocked(ctx, EventReady)
		return
	}
	for _, st := range flow {
		cur := indexOf(flow, t.machine.Current())
		want := indexOf(flow, st)
		if want > indexOf(flow, target) {
			return
		}
		if cur >= want {
			continue
		}
		if err := t.fireLocked(ctx, stepEvent[st]); err != nil {
			t.log.Debug().Str("event", "status_skip").Str("to", st).Err(err).Msg("")
			return
		}
	}
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

// Derive computes the startup status: Ready when the model is loaded, or a
// token is configured and the artifacts are cached; TokenSaved with a token
// alone; otherwise NotConfigured.
func Derive(tokenConfigured, cached, initialized bool) types.ModelStatus {
	switch {
	case initialized, tokenConfigured && cached:
		return types.ModelStatus{Kind: types.StatusReady}
	case tokenConfigured:
		return types.ModelStatus{Kind: types.StatusTokenSaved}
	default:
		return types.ModelStatus{Kind: types.StatusNotConfigured}
	}
}
