package raster

import (
	"fmt"

	"github.com/wbrown/homoglyph"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// OpenTypeFace is a parsed SFNT font, TrueType or CFF outlines.
type OpenTypeFace struct {
	name string
	font *opentype.Font
}

// ParseOpenType parses OpenType font bytes.
func ParseOpenType(name string, data []byte) (*OpenTypeFace, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("opentype: failed to parse %s: %w", name, err)
	}
	return &OpenTypeFace{name: name, font: f}, nil
}

// Name implements homoglyph.Face.
func (f *OpenTypeFace) Name() string { return f.name }

// Family returns the family name stored in the font, if any.
func (f *OpenTypeFace) Family() string {
	s, err := f.font.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return s
}

// NewRasterizer implements homoglyph.Face.
func (f *OpenTypeFace) NewRasterizer(size int) (homoglyph.Rasterizer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", homoglyph.ErrInvalidSize, size)
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("opentype: face for %s: %w", f.name, err)
	}
	return &faceRasterizer{name: f.name, size: size, face: face}, nil
}
