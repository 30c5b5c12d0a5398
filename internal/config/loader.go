package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if QUAKESCOPE_CONFIG is set
//  3. env (prefix QUAKESCOPE_)
//  4. PORT, honored when QUAKESCOPE_ADDR is not set
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("QUAKESCOPE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: QUAKESCOPE_ADDR, QUAKESCOPE_FEED_URL, ...
	// Map env keys like QUAKESCOPE_FEED_URL -> feed_url (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("QUAKESCOPE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "quakescope_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// The hosting convention supplies only a bare port number.
	if !k.Exists("addr") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the invariants the rest of the process assumes.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot_path must not be empty", ErrInvalidConfig)
	}
	if c.FeedURL == "" {
		return fmt.Errorf("%w: feed_url must not be empty", ErrInvalidConfig)
	}
	if c.FeedTimeoutMS <= 0 {
		return fmt.Errorf("%w: feed_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.HistogramBins <= 0 {
		return fmt.Errorf("%w: histogram_bins must be positive", ErrInvalidConfig)
	}
	if c.TablePageSize <= 0 {
		return fmt.Errorf("%w: table_page_size must be positive", ErrInvalidConfig)
	}
	if c.MaxPageSize < c.TablePageSize {
		return fmt.Errorf("%w: max_page_size must be at least table_page_size", ErrInvalidConfig)
	}
	if c.BoxPlotGroups <= 0 {
		return fmt.Errorf("%w: box_plot_groups must be positive", ErrInvalidConfig)
	}
	return nil
}
