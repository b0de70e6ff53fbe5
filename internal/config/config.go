package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. It is loaded once and passed
// into entry points as an immutable value; nothing reads it from ambient
// state.
type Config struct {
	// Enabled gates generation entirely; editors check it before
	// triggering anything.
	Enabled bool `yaml:"enabled"`
	Debug   bool `yaml:"debug"`

	// ClangCheck is the analysis executable, a name looked up in PATH or
	// an absolute path.
	ClangCheck string `yaml:"clang_check"`

	// BuildPath, when set, bypasses the discovery heuristic.
	BuildPath string `yaml:"build_path"`

	// Heuristic parameters for locating the compilation database.
	BuildPathComponent string `yaml:"build_path_component"`
	BuildPathUp        int    `yaml:"build_path_up"`
	BuildPathDown      int    `yaml:"build_path_down"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig controls the optional parse-result cache. The cache keys on
// content hashes, never on file names or timestamps, so staleness cannot
// silently change output.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty derives a per-user location
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Enabled:            true,
		ClangCheck:         "clang-check",
		BuildPathComponent: "build",
		BuildPathUp:        2,
		BuildPathDown:      4,
		Cache:              CacheConfig{Enabled: true},
	}
}

// Load reads the configuration file, falling back to defaults when it does
// not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultPath is the conventional per-user configuration location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "doxyclang", "config.yaml")
}

// CachePath resolves the cache database location.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "doxyclang", "cache.db"), nil
}

func (c *Config) validate() error {
	if c.ClangCheck == "" {
		return fmt.Errorf("clang_check must not be empty")
	}
	if c.BuildPathUp < 0 || c.BuildPathDown < 0 {
		return fmt.Errorf("build_path_up and build_path_down must be >= 0")
	}
	if c.BuildPath == "" && c.BuildPathComponent == "" {
		return fmt.Errorf("build_path_component required when build_path is not set")
	}
	return nil
}
