package aiconfig

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"neuronexus/internal/common/fsutil"
	"neuronexus/pkg/types"
)

const (
	// TokenPrefix is required on every registry access token.
	TokenPrefix = "hf_"
	// minTokenLen is exclusive: a valid token is longer than this.
	minTokenLen = 10
)

// Store reads and writes the config file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store for path, creating the parent directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &ConfigError{Op: OpWrite, Path: path, Err: err}
	}
	return &Store{path: path}, nil
}

// Open returns a store at DefaultPath.
func Open() (*Store, error) {
	p, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStore(p)
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Load returns defaults if the file does not exist.
func (s *Store) Load() (types.AIConfiguration, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.DefaultAIConfiguration(), nil
		}
		return types.AIConfiguration{}, &ConfigError{Op: OpParse, Path: s.path, Err: err}
	}
	// Start from defaults so keys absent from older files keep their default.
	cfg := types.DefaultAIConfiguration()
	cfg.ModelVersion = nil
	if err := json.Unmarshal(b, &cfg); err != nil {
		return types.AIConfiguration{}, &ConfigError{Op: OpParse, Path: s.path, Err: err}
	}
	return cfg, nil
}

// Save overwrites the whole file.
func (s *Store) Save(cfg types.AIConfiguration) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &ConfigError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := fsutil.WriteFileAtomic(s.path, b, 0o600); err != nil {
		return &ConfigError{Op: OpWrite, Path: s.path, Err: err}
	}
	return nil
}

// GetToken returns the decoded token and whether one is stored.
func (s *Store) GetToken() (string, bool, error) {
	cfg, err := s.Load()
	if err != nil {
		return "", false, err
	}
	if cfg.TokenEncoded == nil {
		return "", false, nil
	}
	tok, err := DecodeToken(*cfg.TokenEncoded)
	if err != nil {
		return "", false, &ConfigError{Op: OpParse, Path: s.path, Err: err}
	}
	return tok, true, nil
}

// Token satisfies the manager's token source; a missing token is "".
func (s *Store) Token() (string, error) {
	tok, _, err := s.GetToken()
	return tok, err
}

// SetToken stores token. Callers validate the format first.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	enc := EncodeToken(token)
	cfg.TokenEncoded = &enc
	return s.Save(cfg)
}

// ClearToken removes the stored token.
func (s *Store) ClearToken() error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	cfg.TokenEncoded = nil
	return s.Save(cfg)
}

// IsTokenConfigured is false on any load error.
func (s *Store) IsTokenConfigured() bool {
	cfg, err := s.Load()
	return err == nil && cfg.TokenEncoded != nil
}

// UpdateLastLoad records a successful model load.
func (s *Store) UpdateLastLoad(at time.Time) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	t := at.UTC()
	cfg.LastSuccessfulLoad = &t
	return s.Save(cfg)
}

// ValidateTokenFormat checks the prefix and length only; no network.
func ValidateTokenFormat(token string) bool {
	return strings.HasPrefix(token, TokenPrefix) && len(token) > minTokenLen
}

// EncodeToken is the reversible placeholder encoding (base64).
func EncodeToken(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(token))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	return string(b), nil
}

// CachePathOverride returns the expanded cache override, or "" when unset.
func CachePathOverride(cfg types.AIConfiguration) (string, error) {
	if cfg.ModelCachePath == nil || strings.TrimSpace(*cfg.ModelCachePath) == "" {
		return "", nil
	}
	return fsutil.ExpandHome(strings.TrimSpace(*cfg.ModelCachePath))
}
