package manager

import (
	"context"
	"errors"
	"fmt"

	"neuronexus/internal/bert"
	"neuronexus/internal/hub"
	"neuronexus/internal/tokenizer"
)

// ErrorKind classifies initialization failures.
type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindArtifactMissing ErrorKind = "artifact_missing"
	KindIntegrity       ErrorKind = "integrity"
	KindParse           ErrorKind = "parse"
	KindCancelled       ErrorKind = "cancelled"
	KindCache           ErrorKind = "cache"
)

// InitError is returned by Initialize and by ScoreEssay when its lazy
// initialization fails. The manager stays uninitialized.
type InitError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("model init failed at %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func newInitError(stage Stage, err error) *InitError {
	return &InitError{Stage: stage, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	var pe *tokenizer.ParseError
	var be *bert.ParseError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case hub.IsUnauthorized(err):
		return KindUnauthorized
	case hub.IsNotFound(err):
		return KindArtifactMissing
	case hub.IsIntegrity(err):
		return KindIntegrity
	case hub.IsNetwork(err):
		return KindNetwork
	case errors.As(err, &pe), errors.As(err, &be):
		return KindParse
	}
	return KindCache
}

func kindOf(err error) ErrorKind {
	var ie *InitError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// IsNetworkFailure reports a registry that could not be reached.
func IsNetworkFailure(err error) bool { return kindOf(err) == KindNetwork }

// IsUnauthorized reports a registry that rejected the access token.
func IsUnauthorized(err error) bool { return kindOf(err) == KindUnauthorized }

// IsArtifactMissing reports a required file absent from cache and registry.
func IsArtifactMissing(err error) bool { return kindOf(err) == KindArtifactMissing }

// IsParseFailure reports a tokenizer, config or weights file that could not
// be decoded, including downloads that failed verification.
func IsParseFailure(err error) bool {
	k := kindOf(err)
	return k == KindParse || k == KindIntegrity
}

// ErrNotInitialized is returned when the model was unloaded between the lazy
// initialization and scoring.
var ErrNotInitialized = errors.New("model not initialized")

// ScoreError wraps an inference failure on an initialized model.
type ScoreError struct{ Err error }

func (e *ScoreError) Error() string { return "scoring failed: " + e.Err.Error() }
func (e *ScoreError) Unwrap() error { return e.Err }
