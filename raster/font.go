// Package raster adapts real font engines to the homoglyph render boundary.
//
// Two engines are supported. The freetype engine (github.com/golang/freetype)
// handles TrueType outlines; the opentype engine (golang.org/x/image) also
// reads CFF-flavoured OpenType fonts. Both rasterize each codepoint with a
// font.Face at 72 DPI with full hinting and pack the glyph's alpha mask into
// a homoglyph.Bitmap.
package raster

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/wbrown/homoglyph"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrUnsupportedEngine is returned for an unknown engine name.
var ErrUnsupportedEngine = errors.New("unsupported render engine")

// DPI is the resolution every face is rendered at, so a size in points
// equals a size in pixels.
const DPI = 72

// Engine selects the rasterizer implementation.
type Engine int

const (
	// EngineAuto tries freetype first and falls back to opentype.
	EngineAuto Engine = iota
	EngineFreetype
	EngineOpenType
)

func (e Engine) String() string {
	switch e {
	case EngineAuto:
		return "auto"
	case EngineFreetype:
		return "freetype"
	case EngineOpenType:
		return "opentype"
	}
	return fmt.Sprintf("Engine(%d)", int(e))
}

// ParseEngine maps a name onto an Engine.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return EngineAuto, nil
	case "freetype", "truetype":
		return EngineFreetype, nil
	case "opentype", "otf":
		return EngineOpenType, nil
	}
	return 0, fmt.Errorf("%w: %q (use auto, freetype or opentype)", ErrUnsupportedEngine, name)
}

// Open reads and parses the font file at path.
func Open(path string, engine Engine) (homoglyph.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return Parse(homoglyph.StemName(path), data, engine)
}

// Parse builds a Face from font bytes.
func Parse(name string, data []byte, engine Engine) (homoglyph.Face, error) {
	switch engine {
	case EngineFreetype:
		f, err := ParseFreetype(name, data)
		if err != nil {
			return nil, err
		}
		return f, nil
	case EngineOpenType:
		o, err := ParseOpenType(name, data)
		if err != nil {
			return nil, err
		}
		return o, nil
	case EngineAuto:
		f, ftErr := ParseFreetype(name, data)
		if ftErr == nil {
			return f, nil
		}
		o, otErr := ParseOpenType(name, data)
		if otErr == nil {
			return o, nil
		}
		return nil, fmt.Errorf("failed to parse font %s: %w", name, errors.Join(ftErr, otErr))
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedEngine, engine)
}

// faceRasterizer renders through any x/image font.Face. Faces cache glyph
// state, so each rasterizer owns its face.
type faceRasterizer struct {
	name string
	size int
	face font.Face
}

func (fr *faceRasterizer) Render(r rune) (homoglyph.Bitmap, error) {
	dr, mask, maskp, _, ok := fr.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, homoglyph.NewRenderError(fr.name, fr.size, r, errors.New("glyph not renderable"))
	}
	return maskBitmap(dr, mask, maskp), nil
}

func (fr *faceRasterizer) Close() error {
	return fr.face.Close()
}

// maskBitmap copies the glyph mask out of the face's reusable buffer. The
// origin offset is the mask's position relative to the dot, so glyphs that
// differ only by vertical placement (comma and apostrophe) stay distinct.
func maskBitmap(dr image.Rectangle, mask image.Image, maskp image.Point) homoglyph.Bitmap {
	w, h := dr.Dx(), dr.Dy()
	if w <= 0 || h <= 0 || mask == nil {
		return nil
	}
	pix := make([]byte, w*h)
	if alpha, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			off := alpha.PixOffset(maskp.X, maskp.Y+y)
			copy(pix[y*w:(y+1)*w], alpha.Pix[off:off+w])
		}
	} else {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
				pix[y*w+x] = uint8(a >> 8)
			}
		}
	}
	return homoglyph.NewBitmap(w, h, dr.Min.X, dr.Min.Y, pix, w)
}
