package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvDataDirs     = "HEIGHTDUMP_DATA_DIRS"
	EnvListfileURL  = "HEIGHTDUMP_LISTFILE_URL"
	EnvListfilePath = "HEIGHTDUMP_LISTFILE_PATH"
	EnvLogLevel     = "HEIGHTDUMP_LOG_LEVEL"
)

// Load loads configuration with priority: defaults < file < environment < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()
	applyEnv(cfg, os.Getenv)

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./heightdump.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "HeightDump")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "HeightDump")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "heightdump")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "heightdump")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv applies environment overrides. getenv is os.Getenv outside tests.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvDataDirs); v != "" {
		cfg.Data.Dirs = strings.Split(v, string(os.PathListSeparator))
	}
	if v := getenv(EnvListfileURL); v != "" {
		cfg.Listfile.URL = v
	}
	if v := getenv(EnvListfilePath); v != "" {
		cfg.Listfile.Path = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}
