package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr          string   `json:"addr" yaml:"addr" toml:"addr"`
	ArtifactsDir  string   `json:"artifacts_dir" yaml:"artifacts_dir" toml:"artifacts_dir"`
	CapacityBytes int64    `json:"capacity_bytes" yaml:"capacity_bytes" toml:"capacity_bytes"`
	CapacitySlots int      `json:"capacity_slots" yaml:"capacity_slots" toml:"capacity_slots"`
	EvictionOff   bool     `json:"eviction_off" yaml:"eviction_off" toml:"eviction_off"`
	LoadTimeout   string   `json:"load_timeout" yaml:"load_timeout" toml:"load_timeout"`
	DrainTimeout  string   `json:"drain_timeout" yaml:"drain_timeout" toml:"drain_timeout"`
	MaxBodyBytes  int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSEnabled   bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods   []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders   []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ParseDuration parses a duration field, treating "" as zero (unset).
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
