package homoglyph

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	// MaxCodepoint is the largest Unicode codepoint.
	MaxCodepoint rune = 0x10FFFF

	// SurrogateMin and SurrogateMax bound the UTF-16 surrogate range. These
	// codepoints are not scalar values and are never rendered or grouped.
	SurrogateMin rune = 0xD800
	SurrogateMax rune = 0xDFFF
)

// Sentinel probe codepoints. Their bitmaps (plus the empty bitmap) mark
// glyphs that carry no meaning: the missing-glyph box at both ends of the
// codespace and the whitespace raster at U+0014.
const (
	NotdefLow       rune = 0
	NotdefHigh      rune = MaxCodepoint
	WhitespaceProbe rune = 0x14
)

// SentinelCodepoints lists the probes rendered once per font and size.
var SentinelCodepoints = []rune{NotdefLow, NotdefHigh, WhitespaceProbe}

// IsScalar reports whether r is a Unicode scalar value.
func IsScalar(r rune) bool {
	return r >= 0 && r <= MaxCodepoint && (r < SurrogateMin || r > SurrogateMax)
}

// Domain is an inclusive range of codepoints. Surrogates inside the range
// are always skipped.
type Domain struct {
	Lo rune
	Hi rune
}

// FullDomain covers every Unicode scalar value.
var FullDomain = Domain{Lo: 0, Hi: MaxCodepoint}

// Validate checks that the range lies within the codespace.
func (d Domain) Validate() error {
	if d.Lo < 0 || d.Hi > MaxCodepoint || d.Lo > d.Hi {
		return fmt.Errorf("%w: [%#x, %#x]", ErrInvalidDomain, d.Lo, d.Hi)
	}
	return nil
}

// Len returns the number of scalar values in the domain.
func (d Domain) Len() int {
	if d.Lo > d.Hi {
		return 0
	}
	n := int(d.Hi-d.Lo) + 1
	lo, hi := max(d.Lo, SurrogateMin), min(d.Hi, SurrogateMax)
	if lo <= hi {
		n -= int(hi-lo) + 1
	}
	return n
}

// Each calls fn for every scalar value in ascending order.
func (d Domain) Each(fn func(r rune)) {
	for r := d.Lo; r <= d.Hi; r++ {
		if r >= SurrogateMin && r <= SurrogateMax {
			r = SurrogateMax
			continue
		}
		fn(r)
	}
}

// Chunks partitions the domain into consecutive sub-ranges of at most size
// codepoints each, in ascending order. Ranges that would contain only
// surrogates are dropped.
func (d Domain) Chunks(size int) []Domain {
	if size <= 0 {
		size = 1
	}
	var out []Domain
	for lo := int64(d.Lo); lo <= int64(d.Hi); lo += int64(size) {
		hi := min(lo+int64(size)-1, int64(d.Hi))
		c := Domain{Lo: rune(lo), Hi: rune(hi)}
		if c.Len() > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Set returns the domain as a roaring bitmap of scalar values.
func (d Domain) Set() *roaring.Bitmap {
	bm := roaring.New()
	if d.Lo > d.Hi {
		return bm
	}
	if d.Lo < SurrogateMin {
		bm.AddRange(uint64(d.Lo), uint64(min(d.Hi, SurrogateMin-1))+1)
	}
	if d.Hi > SurrogateMax {
		bm.AddRange(uint64(max(d.Lo, SurrogateMax+1)), uint64(d.Hi)+1)
	}
	return bm
}

func (d Domain) String() string {
	return fmt.Sprintf("U+%04X..U+%04X", d.Lo, d.Hi)
}

// runesFromSet converts a roaring bitmap back into ascending codepoints.
func runesFromSet(bm *roaring.Bitmap) []rune {
	out := make([]rune, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, rune(it.Next()))
	}
	return out
}
