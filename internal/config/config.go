// Package config loads the gmux YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"gopkg.in/yaml.v3"

	"github.com/brianhealey/gmux/internal/hardware"
)

// DefaultPath is read when no -config flag is given. It may be absent.
const DefaultPath = "/etc/gmux.yaml"

type Config struct {
	Family         string       `yaml:"family"`
	Device         string       `yaml:"device"`
	Delays         DelaysConfig `yaml:"delays"`
	IO             IOConfig     `yaml:"io"`
	RequireVersion string       `yaml:"require_version"`
	Log            LogConfig    `yaml:"log"`
}

type DelaysConfig struct {
	Settle  time.Duration `yaml:"settle"`
	PowerOn time.Duration `yaml:"power_on"`
}

type IOConfig struct {
	MaxOpsPerSec int `yaml:"max_ops_per_sec"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Family: hardware.AlternateLayout.Name,
		Device: hardware.DefaultDevice,
		Delays: DelaysConfig{
			Settle:  100 * time.Millisecond,
			PowerOn: 500 * time.Millisecond,
		},
		IO: IOConfig{MaxOpsPerSec: hardware.DefaultMaxOpsPerSec},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  1,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// Load reads and validates the file at path. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// LoadOptional is Load, except that a missing file yields Default.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config: no config file, using defaults", "path", path)
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults replaces values that are present but unusable. The settle
// delays can be shortened but never switched off.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Family == "" {
		cfg.Family = def.Family
	}
	if cfg.Device == "" {
		cfg.Device = def.Device
	}
	if cfg.Delays.Settle <= 0 {
		slog.Warn("config: delays.settle must be positive, using default", "value", cfg.Delays.Settle, "default", def.Delays.Settle)
		cfg.Delays.Settle = def.Delays.Settle
	}
	if cfg.Delays.PowerOn <= 0 {
		slog.Warn("config: delays.power_on must be positive, using default", "value", cfg.Delays.PowerOn, "default", def.Delays.PowerOn)
		cfg.Delays.PowerOn = def.Delays.PowerOn
	}
	if cfg.IO.MaxOpsPerSec <= 0 {
		cfg.IO.MaxOpsPerSec = def.IO.MaxOpsPerSec
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
	if cfg.Log.MaxBackups < 0 {
		cfg.Log.MaxBackups = def.Log.MaxBackups
	}
	if cfg.Log.MaxAgeDays < 0 {
		cfg.Log.MaxAgeDays = def.Log.MaxAgeDays
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := hardware.LayoutByName(c.Family); err != nil {
		return fmt.Errorf("family must be 'standard' or 'alternate', got %q", c.Family)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.RequireVersion != "" {
		if _, err := semver.NewConstraint(c.RequireVersion); err != nil {
			return fmt.Errorf("require_version: invalid constraint %q: %v", c.RequireVersion, err)
		}
	}
	return nil
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s)
}
