package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"neuronexus/internal/aiconfig"
	"neuronexus/internal/evaluation"
	"neuronexus/internal/manager"
	"neuronexus/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case evaluation.IsRubricMissing(err):
		return http.StatusNotFound
	case manager.IsUnauthorized(err):
		return http.StatusUnauthorized
	case manager.IsNetworkFailure(err):
		return http.StatusBadGateway
	case manager.IsArtifactMissing(err), errors.Is(err, manager.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, aiconfig.ErrEmptyToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}
