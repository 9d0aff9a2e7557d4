// Package modelcache inspects and clears the on-disk model cache, which uses
// the Hugging Face hub layout:
//
//	<root>/models--<org>--<name>/
//	    refs/main                 revision hash of the last download
//	    snapshots/<revision>/     config.json, tokenizer.json, pytorch_model.bin
//
// Inspection never fails: a missing or partial cache is reported as "not
// cached". The package keeps no in-memory state; everything is derived from
// disk on each call.
package modelcache

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"neuronexus/internal/common/fsutil"
	"neuronexus/pkg/types"
)

// Artifact file names expected in every snapshot.
const (
	ConfigFile    = "config.json"
	TokenizerFile = "tokenizer.json"
	WeightsFile   = "pytorch_model.bin"
)

// RequiredFiles lists the artifacts in download order.
var RequiredFiles = []string{ConfigFile, TokenizerFile, WeightsFile}

// Cache addresses one model repository inside a cache root.
type Cache struct {
	root   string
	repoID string
}

// New returns a cache view for repoID (e.g. "neuralmind/bert-base-portuguese-cased").
func New(root, repoID string) *Cache {
	return &Cache{root: root, repoID: repoID}
}

// DefaultRoot resolves HF_HUB_CACHE, then HF_HOME/hub, then ~/.cache/huggingface/hub.
func DefaultRoot() (string, error) {
	if v := os.Getenv("HF_HUB_CACHE"); v != "" {
		return fsutil.ExpandHome(v)
	}
	if v := os.Getenv("HF_HOME"); v != "" {
		home, err := fsutil.ExpandHome(v)
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "hub"), nil
	}
	return fsutil.ExpandHome("~/.cache/huggingface/hub")
}

// RepoFolderName maps "org/name" to "models--org--name".
func RepoFolderName(repoID string) string {
	return "models--" + strings.ReplaceAll(repoID, "/", "--")
}

func (c *Cache) Root() string   { return c.root }
func (c *Cache) RepoID() string { return c.repoID }

// ModelDir is the repository folder inside the root.
func (c *Cache) ModelDir() string {
	return filepath.Join(c.root, RepoFolderName(c.repoID))
}

// SnapshotsDir holds one directory per revision.
func (c *Cache) SnapshotsDir() string {
	return filepath.Join(c.ModelDir(), "snapshots")
}

// SnapshotDir is the directory for a given revision.
func (c *Cache) SnapshotDir(revision string) string {
	return filepath.Join(c.SnapshotsDir(), revision)
}

func (c *Cache) refPath(ref string) string {
	return filepath.Join(c.ModelDir(), "refs", ref)
}

// MainRevision reads refs/main; "" when absent.
func (c *Cache) MainRevision() string {
	b, err := os.ReadFile(c.refPath("main"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// WriteRef records the revision a ref points at.
func (c *Cache) WriteRef(ref, revision string) error {
	return fsutil.WriteFileAtomic(c.refPath(ref), []byte(revision), 0o644)
}

// IsModelCached is true only when some snapshot holds all required artifacts.
func (c *Cache) IsModelCached() bool {
	_, ok := c.FindSnapshot()
	return ok
}

// FindSnapshot returns the first complete snapshot, preferring refs/main.
func (c *Cache) FindSnapshot() (types.Snapshot, bool) {
	if rev := c.MainRevision(); rev != "" {
		if snap, ok := c.snapshotAt(rev); ok {
			return snap, true
		}
	}
	entries, err := os.ReadDir(c.SnapshotsDir())
	if err != nil {
		return types.Snapshot{}, false
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if snap, ok := c.snapshotAt(name); ok {
			return snap, true
		}
	}
	return types.Snapshot{}, false
}

func (c *Cache) snapshotAt(revision string) (types.Snapshot, bool) {
	dir := c.SnapshotDir(revision)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return types.Snapshot{}, false
	}
	for _, name := range RequiredFiles {
		if !fsutil.IsNonEmptyFile(filepath.Join(dir, name)) {
			return types.Snapshot{}, false
		}
	}
	return types.Snapshot{
		Revision:      revision,
		Dir:           dir,
		ConfigPath:    filepath.Join(dir, ConfigFile),
		TokenizerPath: filepath.Join(dir, TokenizerFile),
		WeightsPath:   filepath.Join(dir, WeightsFile),
	}, true
}

// Info sums file sizes under the model directory. Unreadable entries are skipped.
func (c *Cache) Info() types.CacheInfo {
	dir := c.ModelDir()
	info := types.CacheInfo{Location: dir, SizeHuman: FormatBytes(0)}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return info
	}
	info.Exists = true
	info.SizeBytes = dirSize(dir)
	info.SizeHuman = FormatBytes(info.SizeBytes)
	return info
}

func dirSize(dir string) uint64 {
	var total uint64
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total += uint64(fi.Size())
			}
		}
		return nil
	})
	return total
}

// Clear removes the model directory. Per-entry failures are collected so the
// caller sees every blocked path, not just the first.
func (c *Cache) Clear() error {
	dir := c.ModelDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &CacheError{Op: OpDelete, Path: dir, Err: err}
	}
	var merr *multierror.Error
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if merr.ErrorOrNil() == nil {
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			merr = multierror.Append(merr, err)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return &CacheError{Op: OpDelete, Path: dir, Err: err}
	}
	return nil
}
