package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLimit      = flag.Int("limit", -1, "Stop after N tiles produced entries (0 = all)")
	flagCheckpoint = flag.Int("checkpoint", -1, "Save every N new textures (0 = only at the end)")
	flagListfile   = flag.String("listfile", "", "Path to listfile (.csv or .csv.zst)")
	flagData       = flag.String("data", "", "Client data directory")
	flagNoDownload = flag.Bool("no-download", false, "Never download the listfile")
	flagWriteCfg   = flag.String("write-config", "", "Write the effective config to PATH and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the path given via --write-config.
func WriteConfigPath() string {
	return *flagWriteCfg
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLimit >= 0 {
		cfg.Scan.Limit = *flagLimit
	}
	if *flagCheckpoint >= 0 {
		cfg.Output.CheckpointEvery = *flagCheckpoint
	}
	if *flagListfile != "" {
		cfg.Listfile.Path = *flagListfile
	}
	if *flagData != "" {
		cfg.Data.Dirs = []string{*flagData}
	}
	if *flagNoDownload {
		cfg.Listfile.Download = false
	}
}
