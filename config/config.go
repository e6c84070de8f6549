// Package config provides loading and parsing of the engine's YAML
// configuration file. The configuration names the two external inputs (the
// taxonomy document and the passage corpus) and tunes the optional
// components around the core: retrieval defaults, the admission filter, the
// correlation cache, and the reload watch.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents an engine configuration file.
type Config struct {
	// TaxonomyPath is the path of the YAML taxonomy document. Required.
	TaxonomyPath string `yaml:"taxonomy"`

	// CorpusPath is the path of the YAML passage corpus. Required.
	CorpusPath string `yaml:"corpus"`

	// Retrieval tunes the default retrieval parameters.
	Retrieval RetrievalConfig `yaml:"retrieval,omitempty"`

	// Filter is an optional CEL admission predicate applied to each alert
	// record before correlation (variable: "alert").
	Filter string `yaml:"filter,omitempty"`

	// Cache configures the optional Redis correlation cache.
	Cache *CacheConfig `yaml:"cache,omitempty"`

	// Watch configures the optional etcd reload trigger.
	Watch *WatchConfig `yaml:"watch,omitempty"`

	// LogLevel sets the slog level: "debug", "info", "warn", or "error".
	// Default: "info".
	LogLevel string `yaml:"log_level,omitempty"`
}

// RetrievalConfig tunes the retrieval defaults used when a caller does not
// override them per query.
type RetrievalConfig struct {
	// TopK is the maximum number of passages returned. Default: 5.
	TopK int `yaml:"top_k,omitempty"`

	// MinScore is the minimum cosine similarity. Default: just above zero,
	// so "best available" passages are returned unless tightened.
	MinScore float64 `yaml:"min_score,omitempty"`
}

// CacheConfig configures the Redis correlation cache.
type CacheConfig struct {
	// URL is the Redis connection string.
	URL string `yaml:"url"`

	// TTL is the cached-correlation lifetime as a Go duration string
	// (e.g., "15m"). Default: 15m.
	TTL string `yaml:"ttl,omitempty"`

	// Prefix namespaces the cache keys. Default: "threatlink".
	Prefix string `yaml:"prefix,omitempty"`
}

// GetTTL parses the TTL string, falling back to the default on absence.
func (c *CacheConfig) GetTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 15 * time.Minute, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache TTL %q: %w", c.TTL, err)
	}
	return d, nil
}

// WatchConfig configures the etcd reload trigger.
type WatchConfig struct {
	// Endpoints is the etcd cluster endpoint list.
	Endpoints []string `yaml:"endpoints"`

	// Key is the etcd key whose changes trigger a taxonomy reload.
	Key string `yaml:"key"`
}

// Load reads and parses a configuration file, applies defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills unset fields with their documented defaults.
func (c *Config) applyDefaults() {
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.MinScore == 0 {
		c.Retrieval.MinScore = 1e-9
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Cache != nil && c.Cache.Prefix == "" {
		c.Cache.Prefix = "threatlink"
	}
}

// Validate checks the configuration for missing or inconsistent fields.
func (c *Config) Validate() error {
	if c.TaxonomyPath == "" {
		return fmt.Errorf("config: taxonomy path is required")
	}
	if c.CorpusPath == "" {
		return fmt.Errorf("config: corpus path is required")
	}
	if c.Retrieval.TopK < 0 {
		return fmt.Errorf("config: retrieval.top_k must be non-negative")
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 1 {
		return fmt.Errorf("config: retrieval.min_score must be between 0.0 and 1.0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.Cache != nil {
		if c.Cache.URL == "" {
			return fmt.Errorf("config: cache.url is required when cache is configured")
		}
		if _, err := c.Cache.GetTTL(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Watch != nil {
		if len(c.Watch.Endpoints) == 0 {
			return fmt.Errorf("config: watch.endpoints is required when watch is configured")
		}
		if c.Watch.Key == "" {
			return fmt.Errorf("config: watch.key is required when watch is configured")
		}
	}
	return nil
}
