// Package manager owns the text-encoder lifecycle: it resolves the model
// artifacts (local cache first, then the remote registry), loads tokenizer,
// config and weights, and scores essays with the loaded model.
//
// Files by concern:
//
//   - manager.go: Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (State, Stage, loadedModel).
//   - errors.go: InitError and predicates (IsNetworkFailure, IsParseFailure, ...).
//   - progress.go: ProgressReporter and the fixed stage messages.
//   - initialize.go: InitializeWithProgress and the artifact fetch.
//   - score.go, heuristic.go: ScoreEssay and the five-competency heuristic.
//   - unload.go, status_report.go: Unload and Snapshot.
//   - events.go, metrics.go: lifecycle events and Prometheus instruments.
//
// The loaded model is only reachable through Manager methods. Readers
// (IsInitialized, ScoreEssay) share a read lock; a successful load swaps the
// model in under the write lock. Initializers are serialized so concurrent
// callers trigger at most one fetch.
package manager
