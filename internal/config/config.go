// Package config loads application configuration from defaults, environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "GHMIRROR_"

// Defaults.
const (
	DefaultListenAddr = "127.0.0.1:8080"
	DefaultCacheTTL   = 60 * time.Second
	DefaultPerPage    = 25
	DefaultLogLevel   = "info"
	maxPerPage        = 100
)

// Config holds the application configuration.
type Config struct {
	// GitHubToken authenticates API calls. Empty means anonymous access.
	GitHubToken string `koanf:"github_token"`
	ListenAddr  string `koanf:"listen_addr"`
	// DemoRepos is the raw comma-separated owner/repo allow-list. Empty
	// leaves every repository reachable.
	DemoRepos  string        `koanf:"demo_repos"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
	PerPage    int           `koanf:"per_page"`
	LogLevel   string        `koanf:"log_level"`
	APIBaseURL string        `koanf:"api_base_url"`
}

// HasGitHubToken reports whether API calls will be authenticated.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// SlogLevel maps LogLevel to a slog level. Load has already validated it.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// Load reads configuration with precedence flags > environment > defaults.
// Only flags the user set explicitly override lower layers; flags may be nil.
// Flag names use kebab-case (--listen-addr) and map to snake_case keys.
//
// Environment variables: GHMIRROR_GITHUB_TOKEN, GHMIRROR_LISTEN_ADDR
// (127.0.0.1:8080), GHMIRROR_DEMO_REPOS, GHMIRROR_CACHE_TTL (60s),
// GHMIRROR_PER_PAGE (25), GHMIRROR_LOG_LEVEL (info), GHMIRROR_API_BASE_URL.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"github_token": "",
		"listen_addr":  DefaultListenAddr,
		"demo_repos":   "",
		"cache_ttl":    DefaultCacheTTL.String(),
		"per_page":     DefaultPerPage,
		"log_level":    DefaultLogLevel,
		"api_base_url": "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// GHMIRROR_CACHE_TTL -> cache_ttl
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.PerPage < 1 || c.PerPage > maxPerPage {
		errs = append(errs, fmt.Errorf("%sPER_PAGE must be between 1 and %d, got %d", EnvPrefix, maxPerPage, c.PerPage))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("%sCACHE_TTL must not be negative, got %s", EnvPrefix, c.CacheTTL))
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL must be debug, info, warn or error, got %q", EnvPrefix, c.LogLevel))
	}
	if c.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("%sLISTEN_ADDR must not be empty", EnvPrefix))
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
