package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/corpus"
	"github.com/wbrown/homoglyph/tableio"
	"github.com/wbrown/homoglyph/tablestore"
	"github.com/wbrown/homoglyph/tablestore/storeurl"
)

func main() {
	inDir := flag.String("indir", "", "Store holding the per-font tables (required)")
	outDir := flag.String("outdir", "", "Store the aggregate is written to (defaults to -indir)")
	prefix := flag.String("prefix", "", "Only aggregate tables whose name starts with this prefix")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of partial sums built in parallel")
	compressName := flag.String("compress", "none", "Output compression: none, zstd or lz4")
	pairs := flag.Bool("pairs", false, "Also write the long-form pair list")
	rateLimit := flag.Int("ratelimit", 0, "Limit store transfers to this many bytes per second (0 = unlimited)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *inDir == "" {
		fmt.Println("The -indir flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = *inDir
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := homoglyph.NewTextLogger(level)

	compression, err := tableio.ParseCompression(*compressName)
	if err != nil {
		log.Fatalf("Invalid -compress: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in, err := storeurl.Open(ctx, *inDir)
	if err != nil {
		log.Fatalf("Failed to open input store: %v", err)
	}
	out, err := storeurl.Open(ctx, *outDir)
	if err != nil {
		log.Fatalf("Failed to open output store: %v", err)
	}
	in = tablestore.NewLimited(in, *rateLimit)
	out = tablestore.NewLimited(out, *rateLimit)

	tables, err := corpus.ListTables(ctx, in, *prefix)
	if err != nil {
		log.Fatalf("Failed to list tables: %v", err)
	}
	log.Printf("Aggregating %d tables from %s", len(tables), *inDir)

	start := time.Now()
	res, err := corpus.AggregateStore(ctx, in, tables,
		homoglyph.WithAggregateWorkers(*workers),
		homoglyph.WithAggregateLogger(logger),
	)
	if err != nil {
		var ae *homoglyph.AlignmentError
		if errors.As(err, &ae) {
			log.Fatalf("Aggregation aborted, %s could not be aligned: %v", ae.Font, err)
		}
		log.Fatalf("Aggregation failed: %v", err)
	}

	if err := corpus.WriteAggregate(ctx, out, res, compression, *pairs); err != nil {
		log.Fatalf("Failed to write aggregate: %v", err)
	}
	log.Printf("Aggregated %d fonts over %d codepoints (%d paired) in %s",
		len(res.Records), res.Matrix.Len(), res.Matrix.PairedCount(),
		time.Since(start).Round(time.Millisecond))
}
