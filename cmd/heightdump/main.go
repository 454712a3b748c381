// heightdump extracts height texture settings from terrain tiles of an
// extracted World of Warcraft client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/heightdump/internal/assets"
	"github.com/Faultbox/heightdump/internal/config"
	"github.com/Faultbox/heightdump/internal/dump"
	"github.com/Faultbox/heightdump/internal/logger"
	"github.com/Faultbox/heightdump/pkg/listfile"
	"github.com/Faultbox/heightdump/pkg/texinfo"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote config to %s\n", path)
		return
	}

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	product := args[0]
	if len(args) > 1 && args[1] != "" {
		cfg.Output.Dir = args[1]
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, product); err != nil {
		logger.Error("heightdump failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `heightdump - terrain height texture settings extractor

Usage:
  heightdump [flags] <product> [outputDir]

Arguments:
  product     Client product to read, e.g. wow or wowt. Files are read from
              <data dir>/<product> for every configured data directory.
  outputDir   Where the JSON tables are written (default: current directory)

Flags:
  -config PATH        Config file (default: ./heightdump.yaml)
  -data DIR           Client data directory
  -listfile PATH      Listfile location (.csv or .csv.zst)
  -no-download        Never download the listfile
  -limit N            Stop after N tiles produced entries
  -checkpoint N       Save every N new textures (0 = only at the end)
  -write-config PATH  Write the effective config and exit
  -debug              Enable debug logging

Example:
  heightdump -data /srv/wow wowt ./out`)
}

func run(ctx context.Context, cfg *config.Config, product string) error {
	logger.Info("=== heightdump ===", zap.String("product", product))
	logger.Sugar.Debugf("Config: %+v", cfg)

	lf, err := loadListfile(ctx, cfg.Listfile)
	if err != nil {
		return err
	}
	logger.Info("listfile loaded", zap.Int("entries", lf.Len()))

	manager, err := assets.NewManager(lf, cfg.Data.CacheEntries)
	if err != nil {
		return err
	}
	defer manager.Close()

	for _, dir := range cfg.Data.Dirs {
		root := filepath.Join(dir, product)
		if err := manager.AddRoot(root); err != nil {
			logger.Warn("skipping data directory", zap.Error(err))
			continue
		}
		logger.Info("using data directory", zap.String("root", root))
	}
	if len(manager.Roots()) == 0 {
		return fmt.Errorf("no data directory for product %q", product)
	}

	store, err := texinfo.Load(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("loading previous results: %w", err)
	}
	logger.Info("previous results loaded",
		zap.Int("ids", store.IDCount()),
		zap.Int("paths", store.PathCount()))

	runner := dump.New(lf, manager, store, dump.Options{
		TileSuffix:      cfg.Scan.TileSuffix,
		HeightPrefix:    cfg.Scan.HeightPrefix,
		HeightSuffix:    cfg.Scan.HeightSuffix,
		Limit:           cfg.Scan.Limit,
		OutputDir:       cfg.Output.Dir,
		CheckpointEvery: cfg.Output.CheckpointEvery,
	}, logger.Log)

	stats, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("done",
		zap.Int("tiles", stats.Tiles),
		zap.Int("parsed", stats.Parsed),
		zap.Int("missing", stats.Missing),
		zap.Int("failed", stats.Failed),
		zap.Int("entries", stats.Entries),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("defaults", stats.Defaults),
		zap.Bool("stopped_early", stats.Stopped))
	return nil
}

// loadListfile refreshes the listfile if allowed and loads it. A stale copy
// is still used when the download fails.
func loadListfile(ctx context.Context, cfg config.ListfileConfig) (*listfile.Listfile, error) {
	if cfg.Download {
		fetcher := &listfile.Fetcher{URL: cfg.URL, Path: cfg.Path, MaxAge: cfg.MaxAge}
		if fetcher.NeedsDownload() {
			logger.Info("downloading listfile", zap.String("url", cfg.URL))
		}
		if _, err := fetcher.Fetch(ctx); err != nil {
			if _, statErr := os.Stat(cfg.Path); statErr != nil {
				return nil, err
			}
			logger.Warn("listfile download failed, using existing copy", zap.Error(err))
		}
	}

	lf, err := listfile.Load(cfg.Path)
	if err != nil {
		return nil, err
	}
	return lf, nil
}
