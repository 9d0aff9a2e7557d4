package manager

// Event is a manager lifecycle notification: a name, the repository it is
// about, and optional fields.
type Event struct {
	Name   string
	RepoID string
	Fields map[string]any
}

// Event names.
const (
	EventInitStart    = "init_start"
	EventInitStage    = "init_stage"
	EventInitReady    = "init_ready"
	EventInitError    = "init_error"
	EventInitFastPath = "init_fast_path"
	EventUnload       = "unload"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
