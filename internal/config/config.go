package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"neuronexus/internal/hub"
	"neuronexus/pkg/types"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NEURONEXUS_"

// Config holds runtime parameters for the service and CLI.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr" validate:"required,hostname_port"`
	// ConfigPath is the AI configuration document (token, preferences).
	ConfigPath  string   `json:"config_path" yaml:"config_path" toml:"config_path"`
	CacheDir    string   `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	HubEndpoint string   `json:"hub_endpoint" yaml:"hub_endpoint" toml:"hub_endpoint" validate:"required,url"`
	RepoID      string   `json:"repo_id" yaml:"repo_id" toml:"repo_id" validate:"required,contains=/"`
	Revision    string   `json:"revision" yaml:"revision" toml:"revision" validate:"required"`
	RubricsFile string   `json:"rubrics_file" yaml:"rubrics_file" toml:"rubrics_file"`
	LogLevel    string   `json:"log_level" yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=trace debug info warn error off"`
	LogFormat   string   `json:"log_format" yaml:"log_format" toml:"log_format" validate:"omitempty,oneof=json console"`
	AutoInit    bool     `json:"auto_init" yaml:"auto_init" toml:"auto_init"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" validate:"dive,required"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.HubEndpoint == "" {
		c.HubEndpoint = hub.DefaultEndpoint
	}
	if c.RepoID == "" {
		c.RepoID = types.DefaultModelVersion
	}
	if c.Revision == "" {
		c.Revision = hub.DefaultRevision
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
}

// ApplyEnv overrides fields from NEURONEXUS_* variables found through
// lookup (os.LookupEnv when nil).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := map[string]*string{
		"ADDR":         &c.Addr,
		"CONFIG_PATH":  &c.ConfigPath,
		"CACHE_DIR":    &c.CacheDir,
		"HUB_ENDPOINT": &c.HubEndpoint,
		"REPO_ID":      &c.RepoID,
		"REVISION":     &c.Revision,
		"RUBRICS_FILE": &c.RubricsFile,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
	}
	for k, dst := range str {
		if v, ok := lookup(EnvPrefix + k); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "AUTO_INIT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sAUTO_INIT: %w", EnvPrefix, err)
		}
		c.AutoInit = b
	}
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.CORSOrigins = SplitCSV(v)
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SplitCSV splits a comma-separated list, trimming blanks.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
