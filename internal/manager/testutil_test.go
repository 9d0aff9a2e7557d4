package manager

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"neuronexus/internal/hub"
	"neuronexus/internal/modelcache"
	"neuronexus/internal/modeltest"
)

const (
	testRepo   = "neuralmind/bert-base-portuguese-cased"
	testCommit = "4c5a1f0b2c8d9e7f6a5b4c3d2e1f0a9b8c7d6e5f"
)

func fixtureFiles(t *testing.T) map[string][]byte {
	t.Helper()
	return modeltest.Artifacts()
}

// seedCache writes a complete snapshot into a fresh cache.
func seedCache(t *testing.T, files map[string][]byte) *modelcache.Cache {
	t.Helper()
	c := modelcache.New(t.TempDir(), testRepo)
	dir := c.SnapshotDir(testCommit)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, b := range files {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return c
}

// fakeRegistry serves artifacts in the resolve/ layout and counts downloads.
type fakeRegistry struct {
	files     map[string][]byte
	token     string
	delay     time.Duration
	mu        sync.Mutex
	gets      map[string]int
	sawBearer atomic.Bool
}

func newFakeRegistry(files map[string][]byte) *fakeRegistry {
	return &fakeRegistry{files: files, gets: map[string]int{}}
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	prefix := "/" + testRepo + "/resolve/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		f.sawBearer.Store(true)
	}
	if f.token != "" && r.Header.Get("Authorization") != "Bearer "+f.token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	name := rest[strings.Index(rest, "/")+1:]
	body, ok := f.files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("X-Repo-Commit", testCommit)
	if r.Method == http.MethodGet {
		f.mu.Lock()
		f.gets[name]++
		f.mu.Unlock()
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
	}
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(body))
}

func (f *fakeRegistry) getCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[name]
}

func startRegistry(t *testing.T, reg *fakeRegistry) *hub.Client {
	t.Helper()
	srv := httptest.NewServer(reg)
	t.Cleanup(srv.Close)
	return hub.NewClient(srv.URL, "", time.Second)
}

// fakeTokens is an in-memory TokenSource.
type fakeTokens struct {
	mu       sync.Mutex
	token    string
	lastLoad time.Time
	updates  int
}

func (f *fakeTokens) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) UpdateLastLoad(at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLoad = at
	f.updates++
	return nil
}

type progressEntry struct {
	p   float64
	msg string
}

type progressLog struct {
	mu      sync.Mutex
	entries []progressEntry
}

func (l *progressLog) Report(p float64, msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, progressEntry{p, msg})
	l.mu.Unlock()
}

func (l *progressLog) all() []progressEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]progressEntry(nil), l.entries...)
}

func assertMonotonic(t *testing.T, entries []progressEntry) {
	t.Helper()
	for i := 1; i < len(entries); i++ {
		if entries[i].p < entries[i-1].p {
			t.Fatalf("progress went backwards at %d: %+v", i, entries)
		}
	}
}
