package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment overrides.
const (
	EnvHome   = "HUNTTRACK_HOME"
	EnvConfig = "HUNTTRACK_CONFIG"
	EnvDBPath = "HUNTTRACK_DB_PATH"
)

// DirName is the state directory created under the user's home.
const DirName = ".hunttrack"

// Paths holds the resolved hunttrack state file locations.
type Paths struct {
	Home       string // ~/.hunttrack or HUNTTRACK_HOME
	ConfigPath string // config.toml or HUNTTRACK_CONFIG
	DBPath     string // hunttrack.db or HUNTTRACK_DB_PATH
	LogFile    string // hunttrack.log
}

// ResolvePaths returns all hunttrack paths, respecting env var overrides.
// If HUNTTRACK_HOME is set it becomes the base for every default path; the
// specific variables override both.
func ResolvePaths() (*Paths, error) {
	home, err := resolveHome()
	if err != nil {
		return nil, err
	}
	return &Paths{
		Home:       home,
		ConfigPath: resolvePathWithEnv(EnvConfig, home, "config.toml"),
		DBPath:     resolvePathWithEnv(EnvDBPath, home, "hunttrack.db"),
		LogFile:    filepath.Join(home, "hunttrack.log"),
	}, nil
}

func resolveHome() (string, error) {
	if v := os.Getenv(EnvHome); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

func resolvePathWithEnv(envKey, base, suffix string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}
