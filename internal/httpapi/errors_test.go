package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"neuronexus/internal/hub"
	"neuronexus/internal/manager"
)

func TestStatusFor(t *testing.T) {
	unauthorized := &manager.InitError{Stage: manager.StageConnect, Kind: manager.KindUnauthorized, Err: &hub.Error{Kind: hub.KindUnauthorized}}
	network := &manager.InitError{Stage: manager.StageDownload, Kind: manager.KindNetwork, Err: errors.New("dial")}
	missing := &manager.InitError{Stage: manager.StageConnect, Kind: manager.KindArtifactMissing, Err: errors.New("404")}
	cases := []struct {
		err  error
		want int
	}{
		{mockHTTPError{code: http.StatusConflict}, http.StatusConflict},
		{fmt.Errorf("wrap: %w", unauthorized), http.StatusUnauthorized},
		{network, http.StatusBadGateway},
		{missing, http.StatusServiceUnavailable},
		{manager.ErrNotInitialized, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
