// Package config loads codeslice configuration. Settings live in
// .codeslice/config.json under the workspace root and may be overridden with
// CODESLICE_* environment variables; the index location for a workspace is
// declared in a codeslice.toml manifest next to the solution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"codeslice/internal/errors"
)

// ExplainMode controls whether inclusion-path comments are injected into
// emitted definitions.
type ExplainMode string

const (
	// ExplainNone emits definitions without comments
	ExplainNone ExplainMode = "none"
	// ExplainReasonForInclusion prepends one "// path: ..." line per
	// inclusion path before every emitted type and member
	ExplainReasonForInclusion ExplainMode = "reason-for-inclusion"
)

// ParseExplainMode converts a string to an ExplainMode.
func ParseExplainMode(s string) (ExplainMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ExplainNone, nil
	case "reason-for-inclusion", "reason", "paths":
		return ExplainReasonForInclusion, nil
	default:
		return ExplainNone, errors.Newf(errors.InvalidArgument, nil, "unknown explain mode %q", s)
	}
}

// Config represents the complete codeslice configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Extraction ExtractionConfig `json:"extraction" mapstructure:"extraction"`
	Cache      CacheConfig      `json:"cache" mapstructure:"cache"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// ExtractionConfig contains the recognised extraction options
type ExtractionConfig struct {
	// Depth is the cross-type hop budget from the root document
	Depth int `json:"depth" mapstructure:"depth"`

	// ExplainMode controls comment injection (none, reason-for-inclusion)
	ExplainMode string `json:"explainMode" mapstructure:"explainMode"`

	// ExcludeRootDefinitions omits the root document's own declarations
	// from the output while still crawling outward from its use sites
	ExcludeRootDefinitions bool `json:"excludeRootDefinitions" mapstructure:"excludeRootDefinitions"`

	// ExcludedNamespacePrefixes filters symbols whose containing namespace
	// starts with any of these tokens (platform/standard-library roots)
	ExcludedNamespacePrefixes []string `json:"excludedNamespacePrefixes" mapstructure:"excludedNamespacePrefixes"`
}

// CacheConfig contains result-cache settings
type CacheConfig struct {
	// Enabled turns the sqlite result cache on
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// MaxWorkspaces bounds the in-memory LRU of loaded workspaces
	MaxWorkspaces int `json:"maxWorkspaces" mapstructure:"maxWorkspaces"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Default returns the configuration used when no config file is present
func Default() *Config {
	return &Config{
		Version: 1,
		Extraction: ExtractionConfig{
			Depth:                     1,
			ExplainMode:               string(ExplainNone),
			ExcludedNamespacePrefixes: []string{"System", "Microsoft"},
		},
		Cache: CacheConfig{
			Enabled:       false,
			MaxWorkspaces: 4,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from .codeslice/config.json under root. A missing
// config file yields the defaults; a malformed one is an error.
func Load(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".codeslice"))

	v.SetEnvPrefix("CODESLICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(filepath.Join(root, ".codeslice", "config.json")); statErr == nil {
				return nil, errors.New(errors.WorkspaceLoad, "failed to read config file", err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New(errors.WorkspaceLoad, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("extraction.depth", cfg.Extraction.Depth)
	v.SetDefault("extraction.explainMode", cfg.Extraction.ExplainMode)
	v.SetDefault("extraction.excludeRootDefinitions", cfg.Extraction.ExcludeRootDefinitions)
	v.SetDefault("extraction.excludedNamespacePrefixes", cfg.Extraction.ExcludedNamespacePrefixes)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.maxWorkspaces", cfg.Cache.MaxWorkspaces)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Extraction.Depth < 0 {
		return errors.Newf(errors.InvalidArgument, nil, "extraction.depth must be >= 0, got %d", c.Extraction.Depth)
	}
	if _, err := ParseExplainMode(c.Extraction.ExplainMode); err != nil {
		return err
	}
	if c.Cache.MaxWorkspaces < 1 {
		return errors.Newf(errors.InvalidArgument, nil, "cache.maxWorkspaces must be >= 1, got %d", c.Cache.MaxWorkspaces)
	}
	return nil
}
