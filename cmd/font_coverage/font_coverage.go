package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/corpus"
	"github.com/wbrown/homoglyph/raster"
	"github.com/wbrown/homoglyph/tableio"
	"golang.org/x/sync/errgroup"
)

func main() {
	inDir := flag.String("indir", "", "Directory of font files (required)")
	outputFile := flag.String("output", "", "Path to write the DEC,COUNT table (defaults to stdout)")
	ncores := flag.Int("ncores", runtime.NumCPU(), "Number of fonts read in parallel")
	flag.Parse()

	if *inDir == "" {
		fmt.Println("The -indir flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fonts, err := corpus.FindFonts(*inDir)
	if err != nil {
		log.Fatalf("Failed to list fonts: %v", err)
	}
	log.Printf("Counting coverage of %d fonts", len(fonts))

	sets := make([]*roaring.Bitmap, len(fonts))
	var g errgroup.Group
	g.SetLimit(max(*ncores, 1))
	for i, path := range fonts {
		g.Go(func() error {
			cov, err := raster.OpenCoverage(path)
			if err != nil {
				log.Printf("Skipping %s: %v", path, err)
				return nil
			}
			sets[i] = cov.Set(homoglyph.FullDomain)
			return nil
		})
	}
	_ = g.Wait()

	var loaded []*roaring.Bitmap
	for _, s := range sets {
		if s != nil {
			loaded = append(loaded, s)
		}
	}
	counts := raster.CountCoverage(loaded)
	log.Printf("%d codepoints covered by at least one of %d fonts", len(counts), len(loaded))

	w := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *outputFile, err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	if err := tableio.WriteCoverage(bw, counts); err != nil {
		log.Fatalf("Failed to write coverage: %v", err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("Failed to write coverage: %v", err)
	}
}
