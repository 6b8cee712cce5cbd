package host

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/drafts/checkpoint"
)

// Config holds initialization parameters for a Host.
//
// Observer names a registered observer ("noop", "slog" or anything added
// with observability.RegisterObserver). Metrics lists extra metric sinks:
// "prometheus" and "otel".
type Config struct {
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Observer   string            `json:"observer,omitempty" yaml:"observer,omitempty"`
	Metrics    []string          `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Checkpoint checkpoint.Config `json:"checkpoint" yaml:"checkpoint"`
}

// DefaultConfig logs through slog and does not checkpoint.
func DefaultConfig() Config {
	return Config{
		Name:       "drafts",
		Observer:   "slog",
		Checkpoint: checkpoint.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Checkpoint.Merge(&source.Checkpoint)

	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if len(source.Metrics) > 0 {
		c.Metrics = source.Metrics
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// resulting Config. Files ending in .yaml or .yml are parsed as YAML,
// everything else as JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
