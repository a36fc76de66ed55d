package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"shopdesk/internal/content"
)

const (
	EnvData     = "SHOPDESK_DATA"
	EnvDB       = "SHOPDESK_DB"
	EnvLogFile  = "SHOPDESK_LOG"
	EnvLogLevel = "SHOPDESK_LOG_LEVEL"

	DefaultPort = 8765
)

// Config is resolved once at startup: defaults, then environment, then
// command-line flags.
type Config struct {
	DataLocation string
	DBPath       string
	LogFile      string
	LogLevel     string
	Discover     bool
	Port         int
}

// Default returns the built-in configuration with environment overrides
// applied. Flags are bound on top of the returned value.
func Default() Config {
	c := Config{
		DataLocation: content.DefaultLocation,
		LogLevel:     "info",
		Port:         DefaultPort,
	}
	if dir, err := DataDir(); err == nil {
		c.DBPath = filepath.Join(dir, "prefs.db")
	}
	applyEnv(&c, os.Getenv)
	return c
}

func applyEnv(c *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvData)); v != "" {
		c.DataLocation = v
	}
	if v := strings.TrimSpace(getenv(EnvDB)); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(getenv(EnvLogFile)); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// DataDir is the per-user application data directory for shopdesk.
func DataDir() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "windows":
		dataDir = os.Getenv("APPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default:
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, "shopdesk"), nil
}
