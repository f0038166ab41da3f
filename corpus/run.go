// Package corpus drives the homoglyph pipeline over a directory of fonts:
// one co-occurrence table per font, then one aggregate over all tables.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/raster"
	"github.com/wbrown/homoglyph/tableio"
	"github.com/wbrown/homoglyph/tablestore"
)

// TableExt is the suffix of an uncompressed co-occurrence table.
const TableExt = ".csv"

// FontExts lists the font file suffixes FindFonts picks up.
var FontExts = []string{".ttf", ".otf", ".ttc", ".otc"}

// TableName returns the store name of a font's co-occurrence table.
func TableName(font string, c tableio.Compression) string {
	return homoglyph.StemName(font) + TableExt + c.Ext()
}

// TableStem recovers the font stem from a table name.
func TableStem(table string) string {
	return strings.TrimSuffix(tableio.TrimCompressionExt(filepath.Base(table)), TableExt)
}

// IsTable reports whether name looks like a co-occurrence table.
func IsTable(name string) bool {
	return strings.HasSuffix(tableio.TrimCompressionExt(name), TableExt)
}

// FindFonts lists the font files directly inside dir, skipping hidden
// files, sorted by name.
func FindFonts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read font directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, want := range FontExts {
			if ext == want {
				paths = append(paths, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Opener loads a font file into a Face.
type Opener func(path string) (homoglyph.Face, error)

type runConfig struct {
	engine       raster.Engine
	compression  tableio.Compression
	skipExisting bool
	opener       Opener
	indexOpts    []homoglyph.IndexOption
	logger       *homoglyph.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithEngine selects the render engine for the default opener.
func WithEngine(e raster.Engine) Option {
	return func(c *runConfig) { c.engine = e }
}

// WithCompression sets the codec tables are written with.
func WithCompression(comp tableio.Compression) Option {
	return func(c *runConfig) { c.compression = comp }
}

// WithSkipExisting skips fonts whose table is already in the store.
func WithSkipExisting(skip bool) Option {
	return func(c *runConfig) { c.skipExisting = skip }
}

// WithOpener replaces the font loader.
func WithOpener(o Opener) Option {
	return func(c *runConfig) { c.opener = o }
}

// WithIndexOptions passes options through to homoglyph.BuildIndex.
func WithIndexOptions(opts ...homoglyph.IndexOption) Option {
	return func(c *runConfig) { c.indexOpts = append(c.indexOpts, opts...) }
}

// WithLogger sets the run logger.
func WithLogger(l *homoglyph.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// FontResult is the outcome for one font of a run.
type FontResult struct {
	Font    string
	Table   string
	Record  homoglyph.FontRecord
	Skipped bool
	Err     error
}

// Run builds and stores the co-occurrence table of every font. A font that
// fails to load, render or store is reported in its FontResult and the run
// moves on; only cancellation of ctx stops the run early.
func Run(ctx context.Context, fonts []string, out tablestore.Store, opts ...Option) ([]FontResult, error) {
	cfg := runConfig{
		engine: raster.EngineAuto,
		logger: homoglyph.NoopLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.opener == nil {
		engine := cfg.engine
		cfg.opener = func(path string) (homoglyph.Face, error) {
			return raster.Open(path, engine)
		}
	}
	indexOpts := append([]homoglyph.IndexOption{homoglyph.WithIndexLogger(cfg.logger)}, cfg.indexOpts...)

	results := make([]FontResult, 0, len(fonts))
	for _, path := range fonts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := FontResult{Font: path, Table: TableName(path, cfg.compression)}

		if cfg.skipExisting {
			exists, err := out.Exists(ctx, res.Table)
			if err == nil && exists {
				res.Skipped = true
				results = append(results, res)
				cfg.logger.DebugContext(ctx, "font already generated", "font", path)
				continue
			}
		}

		res.Record, res.Err = processFont(ctx, path, out, res.Table, cfg, indexOpts)
		if res.Err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			cfg.logger.LogFontSkipped(ctx, path, res.Err)
		}
		results = append(results, res)
	}
	return results, nil
}

func processFont(ctx context.Context, path string, out tablestore.Store, table string, cfg runConfig, indexOpts []homoglyph.IndexOption) (homoglyph.FontRecord, error) {
	face, err := cfg.opener(path)
	if err != nil {
		return homoglyph.FontRecord{}, err
	}
	ix, err := homoglyph.BuildIndex(ctx, face, indexOpts...)
	if err != nil {
		return homoglyph.FontRecord{}, err
	}
	m := homoglyph.BuildMatrix(ix)
	data, err := tableio.MarshalMatrix(m, cfg.compression)
	if err != nil {
		return homoglyph.FontRecord{}, fmt.Errorf("encode table: %w", err)
	}
	if err := out.Put(ctx, table, data); err != nil {
		return homoglyph.FontRecord{}, fmt.Errorf("store table: %w", err)
	}
	return homoglyph.NewFontRecord(path, m), nil
}
