package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"neuronexus/internal/app"
	"neuronexus/internal/config"
	"neuronexus/internal/httpapi"
	"neuronexus/internal/modeltest"
	"neuronexus/pkg/types"
)

const (
	repo   = "neuralmind/bert-base-portuguese-cased"
	commit = "89abcdef0123456789abcdef0123456789abcdef"
	token  = "hf_e2etokenvalue"
)

func artifacts(t *testing.T) map[string][]byte {
	t.Helper()
	return modeltest.Artifacts()
}

// registry serves artifacts in the resolve/ layout, requiring a bearer
// token and advertising sha256 ETags.
func registry(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	prefix := "/" + repo + "/resolve/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, prefix)
		name := rest[strings.Index(rest, "/")+1:]
		body, ok := files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		sum := sha256.Sum256(body)
		w.Header().Set("X-Repo-Commit", commit)
		w.Header().Set("ETag", `"`+hex.EncodeToString(sum[:])+`"`)
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newServer(t *testing.T, hubURL string) (*httptest.Server, *app.App) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ConfigPath = filepath.Join(dir, "ai_config.json")
	cfg.CacheDir = filepath.Join(dir, "hub")
	cfg.HubEndpoint = hubURL
	cfg.RepoID = repo
	a, err := app.New(cfg, app.Options{ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(a))
	t.Cleanup(srv.Close)
	return srv, a
}

func do(t *testing.T, method, url string, payload any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, rd)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func getStatus(t *testing.T, base string) types.StatusResponse {
	t.Helper()
	resp, body := do(t, http.MethodGet, base+"/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status: %d %s", resp.StatusCode, body)
	}
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("status json: %v", err)
	}
	return st
}

// waitStatus polls /status until the status kind is one of want.
func waitStatus(t *testing.T, base string, want ...types.ModelStatusKind) types.StatusResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		st := getStatus(t, base)
		for _, k := range want {
			if st.Status.Kind == k {
				return st
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("status stuck at %s, want %v", st.Status, want)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
