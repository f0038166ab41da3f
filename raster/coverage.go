package raster

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/go-text/typesetting/font"
	"github.com/wbrown/homoglyph"
)

// Coverage reads a font's character map without rasterizing anything.
type Coverage struct {
	name string
	font *font.Font
}

// OpenCoverage parses the font file at path for cmap lookups.
func OpenCoverage(path string) (*Coverage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return ParseCoverage(homoglyph.StemName(path), data)
}

// ParseCoverage parses font bytes for cmap lookups. Font collections yield
// their first face.
func ParseCoverage(name string, data []byte) (*Coverage, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("coverage: failed to parse %s: %w", name, err)
	}
	return &Coverage{name: name, font: face.Font}, nil
}

// Name returns the font name.
func (c *Coverage) Name() string { return c.name }

// Covers reports whether the cmap maps r to a glyph.
func (c *Coverage) Covers(r rune) bool {
	_, ok := c.font.NominalGlyph(r)
	return ok
}

// Set returns the codepoints of d the font maps to a glyph.
func (c *Coverage) Set(d homoglyph.Domain) *roaring.Bitmap {
	bm := roaring.New()
	d.Each(func(r rune) {
		if c.Covers(r) {
			bm.Add(uint32(r))
		}
	})
	return bm
}

// CoverageCount is the number of fonts mapping one codepoint.
type CoverageCount struct {
	Codepoint rune
	Fonts     int
}

// CountCoverage tallies, for every codepoint covered by at least one set,
// how many sets cover it. The result is sorted by codepoint.
func CountCoverage(sets []*roaring.Bitmap) []CoverageCount {
	counts := make(map[rune]int)
	for _, bm := range sets {
		it := bm.Iterator()
		for it.HasNext() {
			counts[rune(it.Next())]++
		}
	}
	out := make([]CoverageCount, 0, len(counts))
	for r, n := range counts {
		out = append(out, CoverageCount{Codepoint: r, Fonts: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codepoint < out[j].Codepoint })
	return out
}
