// Package config loads and saves the hunttrack configuration file. TOML is
// the default format; a path ending in .yaml or .yml is read and written as
// YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultTickInterval     = "250ms"
	DefaultFallbackPoll     = "5s"
	DefaultAutosaveInterval = "5s"
	DefaultLogLevel         = "info"
	DefaultActivityCap      = 75
)

// Config is the on-disk configuration document.
type Config struct {
	Player  string `toml:"player" yaml:"player"`
	LogPath string `toml:"log_path" yaml:"log_path"`

	DBPath   string `toml:"db_path,omitempty" yaml:"db_path,omitempty"`
	LogFile  string `toml:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogLevel string `toml:"log_level" yaml:"log_level"`

	TickInterval     string `toml:"tick_interval" yaml:"tick_interval"`
	FallbackPoll     string `toml:"fallback_poll" yaml:"fallback_poll"`
	AutosaveInterval string `toml:"autosave_interval" yaml:"autosave_interval"`
	ActivityCap      int    `toml:"activity_cap" yaml:"activity_cap"`
}

// DefaultConfig returns a fully populated config. Player and LogPath are
// left for the user to fill in.
func DefaultConfig() Config {
	return Normalize(Config{})
}

// Normalize fills empty fields with defaults.
func Normalize(cfg Config) Config {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.TickInterval == "" {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.FallbackPoll == "" {
		cfg.FallbackPoll = DefaultFallbackPoll
	}
	if cfg.AutosaveInterval == "" {
		cfg.AutosaveInterval = DefaultAutosaveInterval
	}
	if cfg.ActivityCap == 0 {
		cfg.ActivityCap = DefaultActivityCap
	}
	return cfg
}

var allowedLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate rejects unknown log levels, unparseable or non-positive tick and
// autosave intervals, a negative fallback poll and a non-positive activity
// cap.
func Validate(cfg Config) error {
	if _, ok := allowedLevels[strings.ToLower(cfg.LogLevel)]; !ok {
		return fmt.Errorf("config: unknown log_level %q", cfg.LogLevel)
	}
	for _, f := range []struct {
		name      string
		value     string
		allowZero bool
	}{
		{"tick_interval", cfg.TickInterval, false},
		{"fallback_poll", cfg.FallbackPoll, true},
		{"autosave_interval", cfg.AutosaveInterval, false},
	} {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", f.name, err)
		}
		if d < 0 || (d == 0 && !f.allowZero) {
			return fmt.Errorf("config: %s must be positive, got %s", f.name, f.value)
		}
	}
	if cfg.ActivityCap <= 0 {
		return fmt.Errorf("config: activity_cap must be positive, got %d", cfg.ActivityCap)
	}
	return nil
}

// Tick returns the dashboard tick interval.
func (c Config) Tick() time.Duration { return mustDuration(c.TickInterval, DefaultTickInterval) }

// Fallback returns the fallback poll interval; zero disables it.
func (c Config) Fallback() time.Duration { return mustDuration(c.FallbackPoll, DefaultFallbackPoll) }

// Autosave returns the autosave interval.
func (c Config) Autosave() time.Duration {
	return mustDuration(c.AutosaveInterval, DefaultAutosaveInterval)
}

func mustDuration(v, def string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}

// WithPaths fills DBPath and LogFile from p. HUNTTRACK_DB_PATH wins over
// the file's db_path.
func (c Config) WithPaths(p *Paths) Config {
	if v := os.Getenv(EnvDBPath); v != "" || c.DBPath == "" {
		c.DBPath = p.DBPath
	}
	if c.LogFile == "" {
		c.LogFile = p.LogFile
	}
	return c
}

// Ensure loads path, writing the defaults there first if it does not exist.
func Ensure(path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg = DefaultConfig()
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads, normalizes and validates the config at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from flags or env
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save validates cfg and writes it to path atomically.
func Save(path string, cfg Config) error {
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	blob, err := Encode(path, cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Encode renders cfg in the format implied by path's extension.
func Encode(path string, cfg Config) ([]byte, error) {
	var (
		blob []byte
		err  error
	)
	if isYAML(path) {
		blob, err = yaml.Marshal(cfg)
	} else {
		blob, err = toml.Marshal(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return blob, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
