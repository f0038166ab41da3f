package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/corpus"
	"github.com/wbrown/homoglyph/raster"
	"github.com/wbrown/homoglyph/tableio"
	"github.com/wbrown/homoglyph/tablestore"
	"github.com/wbrown/homoglyph/tablestore/storeurl"
)

// parseCodepoint accepts decimal, 0x-prefixed hex or U+XXXX.
func parseCodepoint(s string) (rune, error) {
	if len(s) > 2 && (s[:2] == "U+" || s[:2] == "u+") {
		s = "0x" + s[2:]
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", s, err)
	}
	return rune(v), nil
}

func main() {
	inDir := flag.String("indir", "", "Directory of font files to process")
	inputFont := flag.String("font", "", "Single font file to process instead of -indir")
	outDir := flag.String("outdir", "", "Where tables are written: a directory, s3://bucket/prefix or minio://host/bucket/prefix (required)")
	size := flag.Int("size", homoglyph.DefaultSize, "Render size in points")
	ncores := flag.Int("ncores", runtime.NumCPU(), "Number of render workers per font")
	engineName := flag.String("engine", "auto", "Render engine: auto, freetype or opentype")
	compressName := flag.String("compress", "none", "Table compression: none, zstd or lz4")
	from := flag.String("from", "0", "First codepoint of the domain")
	to := flag.String("to", "0x10FFFF", "Last codepoint of the domain")
	skip := flag.Bool("skip", true, "Skip fonts whose table already exists")
	rateLimit := flag.Int("ratelimit", 0, "Limit store transfers to this many bytes per second (0 = unlimited)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if (*inDir == "") == (*inputFont == "") || *outDir == "" {
		fmt.Println("Exactly one of -indir or -font, and -outdir, are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := homoglyph.NewTextLogger(level)

	engine, err := raster.ParseEngine(*engineName)
	if err != nil {
		log.Fatalf("Invalid -engine: %v", err)
	}
	compression, err := tableio.ParseCompression(*compressName)
	if err != nil {
		log.Fatalf("Invalid -compress: %v", err)
	}
	lo, err := parseCodepoint(*from)
	if err != nil {
		log.Fatalf("Invalid -from: %v", err)
	}
	hi, err := parseCodepoint(*to)
	if err != nil {
		log.Fatalf("Invalid -to: %v", err)
	}
	domain := homoglyph.Domain{Lo: lo, Hi: hi}
	if err := domain.Validate(); err != nil {
		log.Fatalf("Invalid domain: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storeurl.Open(ctx, *outDir)
	if err != nil {
		log.Fatalf("Failed to open output store: %v", err)
	}
	store = tablestore.NewLimited(store, *rateLimit)

	fonts := []string{*inputFont}
	if *inDir != "" {
		if fonts, err = corpus.FindFonts(*inDir); err != nil {
			log.Fatalf("Failed to list fonts: %v", err)
		}
	}
	log.Printf("Finding homoglyphs in %d fonts over %s at size %d", len(fonts), domain, *size)

	start := time.Now()
	results, err := corpus.Run(ctx, fonts, store,
		corpus.WithEngine(engine),
		corpus.WithCompression(compression),
		corpus.WithSkipExisting(*skip),
		corpus.WithLogger(logger),
		corpus.WithIndexOptions(
			homoglyph.WithSize(*size),
			homoglyph.WithWorkers(*ncores),
			homoglyph.WithDomain(domain),
		),
	)

	var done, skipped, failed int
	for _, res := range results {
		switch {
		case res.Skipped:
			skipped++
		case res.Err != nil:
			failed++
		default:
			done++
			log.Printf("%s: %d codepoints, %d homoglyphs -> %s",
				res.Record.File, res.Record.Retained, res.Record.Homoglyphs, res.Table)
		}
	}
	log.Printf("Processed %d fonts (%d skipped, %d failed) in %s",
		done, skipped, failed, time.Since(start).Round(time.Millisecond))
	if err != nil {
		log.Fatalf("Run interrupted: %v", err)
	}
}
