// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/retune/internal/catalog/spotify"
	"github.com/sydlexius/retune/internal/logging"
	"github.com/sydlexius/retune/internal/resolver"
)

// Config holds all application configuration.
type Config struct {
	Library  LibraryConfig       `yaml:"library"`
	Catalog  CatalogConfig       `yaml:"catalog"`
	Matching resolver.Thresholds `yaml:"matching"`
	Decision DecisionConfig      `yaml:"decision"`
	Output   OutputConfig        `yaml:"output"`
	Logging  logging.Config      `yaml:"logging"`
}

// LibraryConfig holds local library settings.
type LibraryConfig struct {
	Path          string   `yaml:"path"`
	Exclusions    []string `yaml:"exclusions"`
	ExclusionFile string   `yaml:"exclusion_file"`
}

// CatalogConfig holds remote catalog access settings.
type CatalogConfig struct {
	Spotify spotify.Config `yaml:"spotify"`
	// MinIntervalMS is the minimum spacing between outbound calls.
	MinIntervalMS int `yaml:"min_interval_ms"`
	// BatchSize groups cache-warming lookups.
	BatchSize int `yaml:"batch_size"`
	// Retries is the number of re-attempts after a transient failure.
	Retries int `yaml:"retries"`
}

// MinInterval returns the configured minimum inter-call interval.
func (c CatalogConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

// DecisionConfig holds decision policy settings.
type DecisionConfig struct {
	Mode   string          `yaml:"mode"`
	Policy resolver.Policy `yaml:",inline"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	// ReportPath is where the JSONL run report is written. Empty disables
	// the report file.
	ReportPath string `yaml:"report_path"`
	// Workers bounds parallel album resolution within one artist.
	Workers int `yaml:"workers"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			MinIntervalMS: 250,
			BatchSize:     10,
			Retries:       2,
		},
		Matching: resolver.DefaultThresholds(),
		Decision: DecisionConfig{
			Mode:   string(resolver.ModeSmart),
			Policy: resolver.DefaultPolicy(),
		},
		Output: OutputConfig{
			Workers: 4,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("RT_LIBRARY_PATH"); v != "" {
		c.Library.Path = v
	}
	if v := os.Getenv("RT_EXCLUSION_FILE"); v != "" {
		c.Library.ExclusionFile = v
	}
	if v := os.Getenv("RT_SPOTIFY_CLIENT_ID"); v != "" {
		c.Catalog.Spotify.ClientID = v
	}
	if v := os.Getenv("RT_SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Catalog.Spotify.ClientSecret = v
	}
	if v := os.Getenv("RT_MODE"); v != "" {
		c.Decision.Mode = v
	}
	if v := os.Getenv("RT_REPORT_PATH"); v != "" {
		c.Output.ReportPath = v
	}
	if v := os.Getenv("RT_MIN_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Catalog.MinIntervalMS = ms
		}
	}
	if v := os.Getenv("RT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) validate() error {
	if !resolver.ValidMode(c.Decision.Mode) {
		return fmt.Errorf("invalid decision mode: %q", c.Decision.Mode)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	for name, v := range map[string]float64{
		"artist_floor":    c.Matching.ArtistFloor,
		"evidence_floor":  c.Matching.EvidenceFloor,
		"accept_floor":    c.Matching.AcceptFloor,
		"high_confidence": c.Decision.Policy.HighConfidence,
		"low_confidence":  c.Decision.Policy.LowConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	if c.Catalog.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got %d", c.Catalog.Retries)
	}
	if c.Output.Workers < 1 {
		c.Output.Workers = 1
	}
	return nil
}
