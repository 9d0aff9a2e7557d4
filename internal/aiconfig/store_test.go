package aiconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"neuronexus/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "NeuroNexus", FileName))
	require.NoError(t, err)
	return s
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)
	cfg, err := s.Load()
	require.NoError(t, err)
	require.Nil(t, cfg.TokenEncoded)
	require.False(t, cfg.AutoLoadOnStartup)
	require.NotNil(t, cfg.ModelVersion)
	require.Equal(t, types.DefaultModelVersion, *cfg.ModelVersion)
	require.True(t, cfg.DownloadPreferences.ResumeOnInterrupt)
	require.True(t, cfg.DownloadPreferences.VerifyIntegrity)
}

func TestLoad_MalformedFileIsParseFailure(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))
	_, err := s.Load()
	require.Error(t, err)
	require.True(t, IsParseFailure(err))
	require.False(t, IsWriteFailure(err))
}

func TestLoad_PartialFileKeepsPreferenceDefaults(t *testing.T) {
	s := newTestStore(t)
	body := `{"auto_load_on_startup": true, "download_preferences": {"verify_integrity": false}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o600))
	cfg, err := s.Load()
	require.NoError(t, err)
	require.True(t, cfg.AutoLoadOnStartup)
	require.True(t, cfg.DownloadPreferences.ResumeOnInterrupt)
	require.False(t, cfg.DownloadPreferences.VerifyIntegrity)
	require.Nil(t, cfg.ModelVersion)
	require.Equal(t, types.DefaultModelVersion, cfg.RepoID())
}

func TestSave_RewritesWholeFile(t *testing.T) {
	s := newTestStore(t)
	cfg := types.DefaultAIConfiguration()
	cfg.AutoLoadOnStartup = true
	p := "~/models"
	cfg.ModelCachePath = &p
	require.NoError(t, s.Save(cfg))

	got, err := s.Load()
	require.NoError(t, err)
	require.True(t, got.AutoLoadOnStartup)
	require.Equal(t, "~/models", *got.ModelCachePath)

	cfg.ModelCachePath = nil
	require.NoError(t, s.Save(cfg))
	got, err = s.Load()
	require.NoError(t, err)
	require.Nil(t, got.ModelCachePath)
}

func TestSave_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes the rename fail.
	target := filepath.Join(dir, FileName)
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))
	s := &Store{path: target}
	err := s.Save(types.DefaultAIConfiguration())
	require.Error(t, err)
	require.True(t, IsWriteFailure(err))
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)
	for _, tok := range []string{"hf_12345678", "hf_1234567890abcdef", "hf_ção/+=ñ!@#$%"} {
		require.True(t, ValidateTokenFormat(tok), tok)
		require.NoError(t, s.SetToken(tok))
		got, ok, err := s.GetToken()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, tok, got)
		require.True(t, s.IsTokenConfigured())
	}
}

func TestTokenStoredEncoded(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetToken("hf_abcdefghij"))
	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NotContains(t, string(b), "hf_abcdefghij")
	require.Contains(t, string(b), EncodeToken("hf_abcdefghij"))
}

func TestClearToken(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetToken("hf_abcdefghij"))
	require.NoError(t, s.ClearToken())
	_, ok, err := s.GetToken()
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, s.IsTokenConfigured())
	tok, err := s.Token()
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestSetToken_RejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.ErrorIs(t, s.SetToken(""), ErrEmptyToken)
	_, err := os.Stat(s.Path())
	require.True(t, os.IsNotExist(err))
}

func TestValidateTokenFormat(t *testing.T) {
	require.True(t, ValidateTokenFormat("hf_1234567890abcdef"))
	require.True(t, ValidateTokenFormat("hf_12345678"))
	require.False(t, ValidateTokenFormat("hf_1234567"))
	require.False(t, ValidateTokenFormat("invalid_token"))
	require.False(t, ValidateTokenFormat("hf_"))
	require.False(t, ValidateTokenFormat(""))
	require.False(t, ValidateTokenFormat("HF_1234567890"))
}

func TestUpdateLastLoad(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	require.NoError(t, s.UpdateLastLoad(at))
	cfg, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.LastSuccessfulLoad)
	require.True(t, cfg.LastSuccessfulLoad.Equal(at))
}

func TestCachePathOverride(t *testing.T) {
	cfg := types.DefaultAIConfiguration()
	p, err := CachePathOverride(cfg)
	require.NoError(t, err)
	require.Empty(t, p)

	abs := filepath.Join(t.TempDir(), "hub")
	cfg.ModelCachePath = &abs
	p, err = CachePathOverride(cfg)
	require.NoError(t, err)
	require.Equal(t, abs, p)
}

func TestAppDirName(t *testing.T) {
	require.Equal(t, "NeuroNexus", appDirName("darwin"))
	require.Equal(t, "NeuroNexus", appDirName("windows"))
	require.Equal(t, "neuronexus", appDirName("linux"))
}
