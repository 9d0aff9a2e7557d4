package rubric

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"neuronexus/pkg/types"
)

// File is the on-disk layout for extra rubrics.
type File struct {
	Rubrics []types.Rubric `json:"rubrics" yaml:"rubrics" toml:"rubrics"`
}

// LoadFile reads rubrics from a file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string) ([]types.Rubric, error) {
	if path == "" {
		return nil, fmt.Errorf("empty rubrics path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	case ".json":
		err = json.Unmarshal(b, &f)
	case ".toml":
		err = toml.Unmarshal(b, &f)
	default:
		return nil, fmt.Errorf("unsupported rubrics extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Rubrics, nil
}
