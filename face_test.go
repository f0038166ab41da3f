package homoglyph

import (
	"errors"
	"sync/atomic"
)

var errNoGlyph = errors.New("no glyph")

// shapeBitmap renders a shape name as a one-row bitmap. The empty shape is
// the empty bitmap.
func shapeBitmap(shape string) Bitmap {
	return NewBitmap(len(shape), 1, 0, 0, []byte(shape), len(shape))
}

// fakeFace draws each codepoint as a named shape. Codepoints without a
// shape draw the notdef box, those in fail cannot be rendered.
type fakeFace struct {
	name   string
	shapes map[rune]string
	fail   map[rune]bool
	notdef string

	opened atomic.Int32
	closed atomic.Int32
}

func newFakeFace(name string, shapes map[rune]string) *fakeFace {
	return &fakeFace{name: name, shapes: shapes, notdef: "notdef"}
}

func (f *fakeFace) Name() string { return f.name }

func (f *fakeFace) NewRasterizer(size int) (Rasterizer, error) {
	f.opened.Add(1)
	return &fakeRasterizer{face: f}, nil
}

type fakeRasterizer struct {
	face *fakeFace
}

func (r *fakeRasterizer) Render(c rune) (Bitmap, error) {
	if r.face.fail[c] {
		return nil, errNoGlyph
	}
	if shape, ok := r.face.shapes[c]; ok {
		return shapeBitmap(shape), nil
	}
	return shapeBitmap(r.face.notdef), nil
}

func (r *fakeRasterizer) Close() error {
	r.face.closed.Add(1)
	return nil
}

// latinGreek draws Latin A and Greek Alpha identically and Latin a apart.
func latinGreek() *fakeFace {
	return newFakeFace("latin-greek.ttf", map[rune]string{
		WhitespaceProbe: "",
		' ':             "",
		'A':             "A",
		'a':             "a",
		0x391:           "A",
	})
}
