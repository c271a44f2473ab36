// Package config handles animtool configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/Faultbox/gltfanim/internal/anim"
)

// Config holds all tool settings.
type Config struct {
	Resample ResampleConfig `yaml:"resample"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ResampleConfig holds track resampling settings.
type ResampleConfig struct {
	Mode         string `yaml:"mode"`          // bracketed or legacy
	Workers      int    `yaml:"workers"`       // 0 = one per CPU
	TargetCoords bool   `yaml:"target_coords"` // remap tracks to engine coordinates
	StaticEuler  bool   `yaml:"static_euler"`  // also export rest poses as ZYX Euler
}

// CacheConfig holds the resampled document cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Resample: ResampleConfig{
			Mode:         anim.SampleBracketed.String(),
			Workers:      0,
			TargetCoords: true,
			StaticEuler:  false,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(ConfigDir(), "cache.db"),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// SamplingMode returns the parsed resample mode.
func (c *Config) SamplingMode() (anim.SamplingMode, error) {
	return anim.ParseSamplingMode(c.Resample.Mode)
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := c.SamplingMode(); err != nil {
		return fmt.Errorf("resample.mode: %w", err)
	}
	if c.Resample.Workers < 0 {
		return fmt.Errorf("resample.workers: must not be negative, got %d", c.Resample.Workers)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache.path: required when the cache is enabled")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// AnimOptions converts the resample section into resampler options.
func (c *Config) AnimOptions() (anim.Options, error) {
	mode, err := c.SamplingMode()
	if err != nil {
		return anim.Options{}, err
	}
	return anim.Options{
		Mode:         mode,
		Workers:      c.Resample.Workers,
		TargetCoords: c.Resample.TargetCoords,
	}, nil
}
