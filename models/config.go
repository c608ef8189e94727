package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds environment-level settings for a scrape. Run parameters
// (series, page count, price floor) come from CLI flags, not from here.
type Config struct {
	// MarketplaceOrigin resolves root-relative description iframe URLs.
	MarketplaceOrigin string `yaml:"marketplace_origin"`
	UserAgent         string `yaml:"user_agent"`

	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// Politeness delay bounds (seconds) before each search page request.
	PageDelayMinSeconds float64 `yaml:"page_delay_min_seconds"`
	PageDelayMaxSeconds float64 `yaml:"page_delay_max_seconds"`

	// Delay bounds before each description detail-page request.
	DescriptionDelayMinSeconds float64 `yaml:"description_delay_min_seconds"`
	DescriptionDelayMaxSeconds float64 `yaml:"description_delay_max_seconds"`

	// ExtraKnownSeries extends the built-in corpus used by the
	// mixed-lot detector.
	ExtraKnownSeries []string `yaml:"extra_known_series"`
}

// DefaultConfig mirrors the marketplace and politeness settings the
// scraper ships with.
func DefaultConfig() Config {
	return Config{
		MarketplaceOrigin:          "https://www.ebay.com",
		UserAgent:                  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		RequestTimeoutSeconds:      60,
		PageDelayMinSeconds:        3.0,
		PageDelayMaxSeconds:        6.0,
		DescriptionDelayMinSeconds: 4.5,
		DescriptionDelayMaxSeconds: 7.5,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults. An empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MarketplaceOrigin == "" {
		cfg.MarketplaceOrigin = DefaultConfig().MarketplaceOrigin
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = DefaultConfig().RequestTimeoutSeconds
	}
	return cfg, nil
}

// RequestTimeout returns the configured timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
