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

// Environment variable names.
const (
	envPrefix     = "TRENDBOARD_"
	envConfigFile = "TRENDBOARD_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TRENDBOARD_CONFIG is set
//  3. env (prefix TRENDBOARD_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, os.Getenv(envConfigFile))
}

// LoadFrom is Load with an explicit YAML file path. An empty path skips the
// file layer.
func LoadFrom(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TRENDBOARD_HIGH_DEMAND_THRESHOLD -> high_demand_threshold. Comma separated
	// values become slices so TRENDBOARD_CORS_ORIGINS can carry a list.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	// Lists replace the defaults rather than merging into them.
	if k.Exists("cors_origins") {
		cfg.CorsOrigins = k.Strings("cors_origins")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants that defaults cannot guarantee once overridden.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultTopN < 1:
		return fmt.Errorf("%w: default_top_n must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < c.DefaultTopN:
		return fmt.Errorf("%w: max_leaderboard_limit must be >= default_top_n", ErrInvalidConfig)
	case c.UntappedThreshold < 0 || c.HighDemandThreshold < 0:
		return fmt.Errorf("%w: thresholds must not be negative", ErrInvalidConfig)
	}

	c.HighDemandPolarity = strings.ToLower(strings.TrimSpace(c.HighDemandPolarity))
	if c.HighDemandPolarity != PolarityBelow && c.HighDemandPolarity != PolarityAbove {
		return fmt.Errorf("%w: high_demand_polarity must be %q or %q", ErrInvalidConfig, PolarityBelow, PolarityAbove)
	}

	c.IdentityBackend = strings.ToLower(strings.TrimSpace(c.IdentityBackend))
	if c.IdentityBackend != IdentityMemory && c.IdentityBackend != IdentitySQLite {
		return fmt.Errorf("%w: identity_backend must be %q or %q", ErrInvalidConfig, IdentityMemory, IdentitySQLite)
	}
	return nil
}
