package manager

import (
	"time"

	"neuronexus/internal/bert"
	"neuronexus/internal/tokenizer"
	"neuronexus/pkg/types"
)

// State is the manager's lifecycle position.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Stage names the initialization step an InitError came from.
type Stage string

const (
	StageConnect   Stage = "connect"
	StageDownload  Stage = "download"
	StageTokenizer Stage = "tokenizer"
	StageConfig    Stage = "config"
	StageWeights   Stage = "weights"
	StageModel     Stage = "model"
)

// loadedModel is swapped in atomically on a successful initialization.
type loadedModel struct {
	model     *bert.Model
	tokenizer *tokenizer.Tokenizer
	snapshot  types.Snapshot
	loadedAt  time.Time
}
