package modelcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testRepo = "neuralmind/bert-base-portuguese-cased"

func writeSnapshot(t *testing.T, c *Cache, rev string, files map[string]string) {
	t.Helper()
	dir := c.SnapshotDir(rev)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func completeFiles() map[string]string {
	return map[string]string{ConfigFile: "{}", TokenizerFile: "{}", WeightsFile: "weights"}
}

func TestRepoFolderName(t *testing.T) {
	require.Equal(t, "models--neuralmind--bert-base-portuguese-cased", RepoFolderName(testRepo))
}

func TestIsModelCached_MissingDir(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "nope"), testRepo)
	require.False(t, c.IsModelCached())
}

func TestIsModelCached_PartialSnapshot(t *testing.T) {
	c := New(t.TempDir(), testRepo)
	writeSnapshot(t, c, "abc", map[string]string{ConfigFile: "{}", TokenizerFile: "{}"})
	require.False(t, c.IsModelCached())

	// empty weights count as corrupt
	writeSnapshot(t, c, "abc", map[string]string{WeightsFile: ""})
	require.False(t, c.IsModelCached())
}

func TestIsModelCached_CompleteSnapshot(t *testing.T) {
	c := New(t.TempDir(), testRepo)
	writeSnapshot(t, c, "partial", map[string]string{ConfigFile: "{}"})
	writeSnapshot(t, c, "zzz", completeFiles())
	require.True(t, c.IsModelCached())
	snap, ok := c.FindSnapshot()
	require.True(t, ok)
	require.Equal(t, "zzz", snap.Revision)
	require.Equal(t, filepath.Join(c.SnapshotDir("zzz"), WeightsFile), snap.WeightsPath)
}

func TestFindSnapshot_PrefersMainRef(t *testing.T) {
	c := New(t.TempDir(), testRepo)
	writeSnapshot(t, c, "aaa", completeFiles())
	writeSnapshot(t, c, "bbb", completeFiles())
	require.NoError(t, c.WriteRef("main", "bbb"))
	snap, ok := c.FindSnapshot()
	require.True(t, ok)
	require.Equal(t, "bbb", snap.Revision)
	require.Equal(t, "bbb", c.MainRevision())
}

func TestInfo_Missing(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing"), testRepo)
	info := c.Info()
	require.False(t, info.Exists)
	require.Zero(t, info.SizeBytes)
	require.Equal(t, "0 B", info.SizeHuman)
	require.Equal(t, c.ModelDir(), info.Location)
}

func TestInfo_SumsRecursively(t *testing.T) {
	c := New(t.TempDir(), testRepo)
	writeSnapshot(t, c, "r1", map[string]string{ConfigFile: "12345", TokenizerFile: "123"})
	require.NoError(t, c.WriteRef("main", "r1"))
	info := c.Info()
	require.True(t, info.Exists)
	require.Equal(t, uint64(5+3+2), info.SizeBytes)
	require.Equal(t, "10 B", info.SizeHuman)
}

func TestClear(t *testing.T) {
	c := New(t.TempDir(), testRepo)
	writeSnapshot(t, c, "r1", completeFiles())
	require.True(t, c.IsModelCached())
	require.NoError(t, c.Clear())
	require.False(t, c.IsModelCached())
	require.False(t, c.Info().Exists)
	// clearing again is a no-op
	require.NoError(t, c.Clear())
}

func TestClear_BlockedEntryIsDeleteFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	c := New(t.TempDir(), testRepo)
	writeSnapshot(t, c, "r1", completeFiles())
	snaps := c.SnapshotsDir()
	require.NoError(t, os.Chmod(snaps, 0o555))
	t.Cleanup(func() { _ = os.Chmod(snaps, 0o755) })

	err := c.Clear()
	require.Error(t, err)
	require.True(t, IsDeleteFailure(err))
	require.True(t, c.Info().Exists)
}

func TestLock_ExclusiveAcrossHandles(t *testing.T) {
	root := t.TempDir()
	a := New(root, testRepo)
	b := New(root, testRepo)

	release, err := a.Lock(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	_, err = b.Lock(ctx)
	require.Error(t, err)

	release()
	release2, err := b.Lock(context.Background())
	require.NoError(t, err)
	release2()
}
