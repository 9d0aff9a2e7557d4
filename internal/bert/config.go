// Package bert loads BERT-style encoder artifacts (config.json and
// pytorch_model.bin) and exposes a forward pass that yields one hidden
// vector per input token.
package bert

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ParseError reports an unusable model artifact.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "bert: " + e.Err.Error()
	}
	return fmt.Sprintf("bert %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Config is the subset of config.json the encoder needs.
type Config struct {
	ModelType             string   `json:"model_type"`
	Architectures         []string `json:"architectures"`
	HiddenSize            int      `json:"hidden_size"`
	NumHiddenLayers       int      `json:"num_hidden_layers"`
	NumAttentionHeads     int      `json:"num_attention_heads"`
	IntermediateSize      int      `json:"intermediate_size"`
	VocabSize             int      `json:"vocab_size"`
	MaxPositionEmbeddings int      `json:"max_position_embeddings"`
	TypeVocabSize         int      `json:"type_vocab_size"`
	LayerNormEps          float64  `json:"layer_norm_eps"`
}

// LoadConfig reads and validates config.json.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return Config{}, &ParseError{Path: path, Err: errors.Unwrap(err)}
	}
	return cfg, nil
}

// ParseConfig decodes config.json content and fills defaults.
func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, &ParseError{Err: err}
	}
	if cfg.MaxPositionEmbeddings == 0 {
		cfg.MaxPositionEmbeddings = 512
	}
	if cfg.LayerNormEps == 0 {
		cfg.LayerNormEps = 1e-12
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ParseError{Err: err}
	}
	return cfg, nil
}

// Validate checks the dimensions the forward pass relies on.
func (c Config) Validate() error {
	if c.ModelType != "" && c.ModelType != "bert" {
		return fmt.Errorf("unsupported model_type %q", c.ModelType)
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("hidden_size must be positive, got %d", c.HiddenSize)
	}
	if c.VocabSize <= 0 {
		return fmt.Errorf("vocab_size must be positive, got %d", c.VocabSize)
	}
	if c.NumAttentionHeads > 0 && c.HiddenSize%c.NumAttentionHeads != 0 {
		return fmt.Errorf("hidden_size %d not divisible by %d heads", c.HiddenSize, c.NumAttentionHeads)
	}
	return nil
}
