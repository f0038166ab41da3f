package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"

	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/tableio"
	"github.com/wbrown/homoglyph/tablestore/storeurl"
)

func main() {
	store := flag.String("store", ".", "Store holding the table")
	table := flag.String("table", "", "Name of the co-occurrence table within -store (required)")
	outputFile := flag.String("output", "", "Path to write the groups JSON (defaults to stdout)")
	minSize := flag.Int("min", 2, "Smallest group kept")
	maxSize := flag.Int("max", 1000, "Groups of this many codepoints or more are dropped (0 = no limit)")
	flag.Parse()

	if *table == "" {
		fmt.Println("The -table flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()
	in, err := storeurl.Open(ctx, *store)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	data, err := in.Get(ctx, *table)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *table, err)
	}
	m, err := tableio.UnmarshalMatrix(data, tableio.CompressionFor(*table))
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *table, err)
	}

	opts := []homoglyph.GroupOption{homoglyph.WithMinGroupSize(*minSize)}
	if *maxSize > 0 {
		opts = append(opts, homoglyph.WithMaxGroupSize(*maxSize))
	}
	groups := homoglyph.ExtractGroups(m, opts...)
	log.Printf("Found %d groups among %d codepoints", len(groups), m.Len())

	doc := tableio.NewGroupsDocument(path.Base(tableio.TrimCompressionExt(*table)), groups)

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
	if err := tableio.WriteGroupsJSON(bw, doc); err != nil {
		log.Fatalf("Failed to write groups: %v", err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("Failed to write groups: %v", err)
	}
}
