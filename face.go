package homoglyph

// Face is a read-only font handle. A single Face is shared by every render
// worker; each worker obtains its own Rasterizer from it.
type Face interface {
	// Name identifies the font in logs and errors.
	Name() string

	// NewRasterizer returns a rasterizer for the given pixel size.
	NewRasterizer(size int) (Rasterizer, error)
}

// Rasterizer renders codepoints for one Face at one size. A Rasterizer is
// used by one goroutine at a time.
//
// Render must be deterministic: the same codepoint always yields the same
// bytes. Bitmap equality is the only basis for grouping. A codepoint the
// font cannot render is reported as an error and treated as empty.
type Rasterizer interface {
	Render(r rune) (Bitmap, error)
	Close() error
}
