// Package dump runs the extraction: it walks every tex0 tile in the
// listfile, collects height texture settings and writes the result tables.
package dump

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/heightdump/internal/logger"
	"github.com/Faultbox/heightdump/pkg/adt"
	"github.com/Faultbox/heightdump/pkg/listfile"
	"github.com/Faultbox/heightdump/pkg/texinfo"
)

// Catalog is the listfile view used by a run.
type Catalog interface {
	Path(id uint32) (string, bool)
	WithSuffix(suffix string) []listfile.Entry
	WithPrefixSuffix(prefix, suffix string) []listfile.Entry
}

// Provider returns raw file contents by file data ID.
type Provider interface {
	Exists(id uint32) bool
	Read(id uint32) ([]byte, error)
}

// Options controls a run.
type Options struct {
	TileSuffix      string
	HeightPrefix    string
	HeightSuffix    string
	Limit           int // stop after this many tiles produced entries, 0 = all
	OutputDir       string
	CheckpointEvery int // 0 = save only at the end
}

// Stats summarizes a run.
type Stats struct {
	Tiles       int // tiles considered
	Missing     int // not present in storage
	Failed      int // fetch or parse errors
	Parsed      int
	Matched     int // tiles that produced at least one entry
	Entries     int
	Conflicts   int
	Defaults    int
	Checkpoints int
	Stopped     bool // ended early by limit or cancellation
}

// Runner ties the catalog, storage and store together.
type Runner struct {
	catalog  Catalog
	provider Provider
	store    *texinfo.Store
	opts     Options
	log      *zap.Logger

	save func(s *texinfo.Store) error
}

// New creates a runner. A nil logger disables logging.
func New(catalog Catalog, provider Provider, store *texinfo.Store, opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		catalog:  catalog,
		provider: provider,
		store:    store,
		opts:     opts,
		log:      log,
	}
	r.save = r.saveOutputs
	return r
}

// Store returns the store being filled.
func (r *Runner) Store() *texinfo.Store {
	return r.store
}

// Run processes all tiles, fills gaps with defaults and saves the result.
// Cancelling ctx stops the tile scan; defaults and the final save still run.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	r.store.OnConflict = func(c texinfo.Conflict) {
		r.log.Warn("texture settings conflict",
			zap.String("key", c.Key),
			zap.String("field", string(c.Field)),
			zap.Any("old", c.Old),
			zap.Any("new", c.New))
	}

	var checkpoint *texinfo.EveryN
	if r.opts.CheckpointEvery > 0 {
		checkpoint = texinfo.NewEveryN(r.store, r.opts.CheckpointEvery, r.save)
		checkpoint.OnError = func(err error) {
			r.log.Error("checkpoint failed", zap.Error(err))
		}
		r.store.Checkpoint = checkpoint
	}
	conflictsBefore := r.store.Conflicts()

	tiles := r.catalog.WithSuffix(r.opts.TileSuffix)
	r.log.Info("scanning tiles", zap.Int("count", len(tiles)), zap.String("suffix", r.opts.TileSuffix))

	for _, tile := range tiles {
		if err := ctx.Err(); err != nil {
			r.log.Warn("scan interrupted", zap.Error(err))
			stats.Stopped = true
			break
		}

		stats.Tiles++
		n, err := r.processTile(tile)
		switch {
		case errors.Is(err, errMissing):
			stats.Missing++
			continue
		case err != nil:
			stats.Failed++
			r.log.Warn("skipping tile", logger.FileID(tile.ID), logger.Path(tile.Path), zap.Error(err))
			continue
		}

		stats.Parsed++
		stats.Entries += n
		if n > 0 {
			stats.Matched++
		}

		if r.opts.Limit > 0 && stats.Matched >= r.opts.Limit {
			r.log.Info("tile limit reached", zap.Int("limit", r.opts.Limit))
			stats.Stopped = true
			break
		}
	}

	r.store.Checkpoint = nil
	if checkpoint != nil {
		stats.Checkpoints = checkpoint.Saves()
	}

	heights := r.catalog.WithPrefixSuffix(r.opts.HeightPrefix, r.opts.HeightSuffix)
	stats.Defaults = texinfo.ApplyDefaults(r.store, heights, r.opts.HeightSuffix)
	r.log.Info("added default settings",
		zap.Int("keys", stats.Defaults),
		zap.Int("candidates", len(heights)))

	stats.Conflicts = r.store.Conflicts() - conflictsBefore

	if err := r.save(r.store); err != nil {
		return stats, fmt.Errorf("saving results: %w", err)
	}
	return stats, nil
}

var errMissing = errors.New("tile not in storage")

// processTile fetches, parses and merges one tile. It returns the number of
// entries added to the store.
func (r *Runner) processTile(tile listfile.Entry) (int, error) {
	if !r.provider.Exists(tile.ID) {
		r.log.Info("file does not exist, skipping", logger.FileID(tile.ID), logger.Path(tile.Path))
		return 0, errMissing
	}

	data, err := r.provider.Read(tile.ID)
	if err != nil {
		return 0, fmt.Errorf("reading: %w", err)
	}

	tex, err := adt.ParseTex0(data)
	if err != nil {
		return 0, fmt.Errorf("parsing: %w", err)
	}

	for _, u := range tex.Unknown {
		r.log.Warn("unexpected chunk",
			logger.FileID(tile.ID),
			zap.String("tag", u.Tag.String()),
			zap.Int("offset", u.Offset),
			zap.Uint32("size", u.Size))
	}

	for _, i := range texinfo.NonFiniteLayers(tex) {
		param := tex.TexParams[i]
		r.log.Warn("ignoring layer with invalid height values",
			logger.FileID(tile.ID),
			zap.Int("layer", i),
			zap.Float32("height", param.Height),
			zap.Float32("offset", param.Offset))
	}

	entries := texinfo.Assemble(tex, r.catalog)
	if len(entries) > 0 {
		r.log.Debug("tile parsed", logger.FileID(tile.ID), logger.Path(tile.Path), zap.Int("entries", len(entries)))
	}
	for _, e := range entries {
		r.store.Add(e)
	}

	return len(entries), nil
}

func (r *Runner) saveOutputs(s *texinfo.Store) error {
	r.log.Info("saving texture settings",
		zap.Int("ids", s.IDCount()),
		zap.Int("paths", s.PathCount()),
		zap.String("dir", texinfo.CleanDir(r.opts.OutputDir)))
	return s.Save(r.opts.OutputDir)
}
