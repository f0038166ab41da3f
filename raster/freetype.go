package raster

import (
	"fmt"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/homoglyph"
	"golang.org/x/image/font"
)

// FreetypeFace is a parsed TrueType font. The parsed font is read-only and
// shared; every rasterizer builds its own truetype face from it.
type FreetypeFace struct {
	name string
	font *truetype.Font
}

// ParseFreetype parses TrueType font bytes.
func ParseFreetype(name string, data []byte) (*FreetypeFace, error) {
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("freetype: failed to parse %s: %w", name, err)
	}
	return &FreetypeFace{name: name, font: f}, nil
}

// Name implements homoglyph.Face.
func (f *FreetypeFace) Name() string { return f.name }

// Covers reports whether the font's cmap maps r to a glyph other than
// notdef.
func (f *FreetypeFace) Covers(r rune) bool {
	return f.font.Index(r) != 0
}

// NewRasterizer implements homoglyph.Face.
func (f *FreetypeFace) NewRasterizer(size int) (homoglyph.Rasterizer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", homoglyph.ErrInvalidSize, size)
	}
	face := truetype.NewFace(f.font, &truetype.Options{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	return &faceRasterizer{name: f.name, size: size, face: face}, nil
}
