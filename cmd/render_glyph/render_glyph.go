package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/raster"
)

// parseRune accepts a single character, U+XXXX, 0x-prefixed hex or decimal.
func parseRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) == 1 && (s[0] < '0' || s[0] > '9') {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		s = "0x" + s[2:]
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", s, err)
	}
	return rune(v), nil
}

func main() {
	inputFont := flag.String("font", "", "Path to the font file (required)")
	size := flag.Int("size", homoglyph.DefaultSize, "Render size in points")
	engineName := flag.String("engine", "auto", "Render engine: auto, freetype or opentype")
	encodingName := flag.String("encoding", "bits", "Output encoding: raw, b64 or bits")
	flag.Parse()

	if *inputFont == "" || flag.NArg() == 0 {
		fmt.Println("Usage: render_glyph -font <path> [flags] <codepoint>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	engine, err := raster.ParseEngine(*engineName)
	if err != nil {
		log.Fatalf("Invalid -engine: %v", err)
	}
	enc, err := homoglyph.ParseEncoding(*encodingName)
	if err != nil {
		log.Fatalf("Invalid -encoding: %v", err)
	}

	face, err := raster.Open(*inputFont, engine)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	rz, err := face.NewRasterizer(*size)
	if err != nil {
		log.Fatalf("Failed to create rasterizer: %v", err)
	}
	defer rz.Close()

	for _, arg := range flag.Args() {
		r, err := parseRune(arg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		bm, err := rz.Render(r)
		if err != nil {
			log.Printf("U+%04X: %v", r, err)
			continue
		}
		out, err := bm.Encode(enc)
		if err != nil {
			log.Fatalf("Failed to encode U+%04X: %v", r, err)
		}
		w, h, ox, oy, _, ok := bm.Dims()
		fmt.Printf("U+%04X %dx%d at (%d,%d), %d bytes\n", r, w, h, ox, oy, len(bm))
		if enc == homoglyph.EncodingBits && ok {
			for y := 0; y < h; y++ {
				fmt.Printf("%s\n", out[y*w:(y+1)*w])
			}
			continue
		}
		fmt.Printf("%s\n", out)
	}
}
