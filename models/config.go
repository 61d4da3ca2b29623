// Package models defines data structures for configuration and documents.
package models

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPunctuation is the ASCII punctuation set stripped by the tokenizer.
const DefaultPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// HTML handling modes for fetched documents.
const (
	HTMLModeAuto    = "auto"    // extract article text when the response is HTML
	HTMLModeArticle = "article" // always run article extraction
	HTMLModeRaw     = "raw"     // count the body exactly as received
)

// Output formats for the count command.
const (
	FormatChart = "chart"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config holds runtime configuration for a word count run.
// Values come from an optional YAML file and are overridden by CLI flags.
type Config struct {
	URL            string   `yaml:"url"`
	Filter         []string `yaml:"filter,omitempty"`
	TopN           int      `yaml:"top_n"`
	Workers        int      `yaml:"workers"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`

	// Tokenizer knobs
	Punctuation string `yaml:"punctuation"`
	KeepCase    bool   `yaml:"keep_case"`
	Stopwords   bool   `yaml:"stopwords"`

	HTMLMode       string `yaml:"html_mode"`
	DetectLanguage bool   `yaml:"detect_language"`

	// Fetch cache; disabled when CacheDir is empty
	CacheDir string `yaml:"cache_dir,omitempty"`
	CacheTTL string `yaml:"cache_ttl"`

	History bool   `yaml:"history"`
	DBPath  string `yaml:"db_path,omitempty"`

	Format string `yaml:"format"`
	Output string `yaml:"output,omitempty"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		TopN:           10,
		Workers:        runtime.NumCPU(),
		TimeoutSeconds: 30,
		Punctuation:    DefaultPunctuation,
		HTMLMode:       HTMLModeAuto,
		DetectLanguage: true,
		CacheTTL:       "1h",
		History:        true,
		Format:         FormatChart,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Timeout returns the fetch timeout. Zero means no timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheMaxAge parses CacheTTL.
func (c *Config) CacheMaxAge() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl %q: %w", c.CacheTTL, err)
	}
	return d, nil
}

// FilterSet returns the filter vocabulary as a set, or nil when no filter is configured.
func (c *Config) FilterSet() map[string]struct{} {
	if len(c.Filter) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(c.Filter))
	for _, w := range c.Filter {
		w = strings.TrimSpace(w)
		if w != "" {
			set[w] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// Validate checks the config for values a run cannot start with.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("no URL provided")
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", c.TopN)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}

	switch c.HTMLMode {
	case HTMLModeAuto, HTMLModeArticle, HTMLModeRaw:
	default:
		return fmt.Errorf("unknown html_mode %q (want auto, article or raw)", c.HTMLMode)
	}

	switch c.Format {
	case FormatChart, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want chart, json or yaml)", c.Format)
	}

	if _, err := c.CacheMaxAge(); err != nil {
		return err
	}

	return nil
}
