// Package config resolves runtime settings from defaults and environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "ICONGRAB"

// Config carries the resolved runtime settings.
type Config struct {
	CacheDir    string        // Where normalized glyph metadata is cached
	StateFile   string        // Persisted hidden-font set
	HTTPTimeout time.Duration // Bound on every upstream fetch
	UserAgent   string        // Sent with every upstream request
}

// Load resolves the configuration. Every setting has a default and can be
// overridden through ICONGRAB_* environment variables (ICONGRAB_CACHE_DIR,
// ICONGRAB_STATE_FILE, ICONGRAB_HTTP_TIMEOUT, ICONGRAB_USER_AGENT).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cacheDir, err := defaultCacheDir()
	if err != nil {
		return nil, err
	}
	stateFile, err := defaultStateFile()
	if err != nil {
		return nil, err
	}

	v.SetDefault("cache_dir", cacheDir)
	v.SetDefault("state_file", stateFile)
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("user_agent", "icongrab/1.0")

	return &Config{
		CacheDir:    v.GetString("cache_dir"),
		StateFile:   v.GetString("state_file"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		UserAgent:   v.GetString("user_agent"),
	}, nil
}

func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache directory: %w", err)
	}
	return filepath.Join(base, "icongrab"), nil
}

func defaultStateFile() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config directory: %w", err)
	}
	return filepath.Join(base, "icongrab", "state.json"), nil
}
