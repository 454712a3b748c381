// Package config handles heightdump configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/heightdump/pkg/listfile"
)

// Config holds all settings.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Listfile ListfileConfig `yaml:"listfile"`
	Scan     ScanConfig     `yaml:"scan"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig holds client storage locations.
type DataConfig struct {
	Dirs         []string `yaml:"dirs"`          // Base directories; the product name is appended
	CacheEntries int      `yaml:"cache_entries"` // Resolved file locations to remember
}

// ListfileConfig holds listfile download settings.
type ListfileConfig struct {
	Path     string        `yaml:"path"` // ".zst" suffix stores it compressed
	URL      string        `yaml:"url"`
	MaxAge   time.Duration `yaml:"max_age"`
	Download bool          `yaml:"download"`
}

// ScanConfig selects the files to process.
type ScanConfig struct {
	TileSuffix   string `yaml:"tile_suffix"`
	HeightPrefix string `yaml:"height_prefix"`
	HeightSuffix string `yaml:"height_suffix"`
	Limit        int    `yaml:"limit"` // Stop after N tiles with entries (0 = all)
}

// OutputConfig holds result file settings.
type OutputConfig struct {
	Dir             string `yaml:"dir"`
	CheckpointEvery int    `yaml:"checkpoint_every"` // 0 disables checkpoints
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dirs:         []string{"data"},
			CacheEntries: 64,
		},
		Listfile: ListfileConfig{
			Path:     "listfile.csv",
			URL:      listfile.DefaultURL,
			MaxAge:   listfile.DefaultMaxAge,
			Download: true,
		},
		Scan: ScanConfig{
			TileSuffix:   "tex0.adt",
			HeightPrefix: "tileset",
			HeightSuffix: "_h.blp",
			Limit:        0,
		},
		Output: OutputConfig{
			Dir:             ".",
			CheckpointEvery: 25,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
