package homoglyph

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// Bitmap is the rendered raster of one codepoint at one font and size.
//
// The layout is a small header (uvarint width and height, zigzag varint
// origin offsets) followed by width*height row-major alpha bytes. The core
// only ever compares bitmaps for equality; the layout matters to the
// renderers that build them and to Encode.
type Bitmap []byte

// NewBitmap packs an alpha mask into a Bitmap. pix holds height rows of
// stride bytes each. A mask with no area or no inked pixel yields the empty
// bitmap.
func NewBitmap(width, height, originX, originY int, pix []byte, stride int) Bitmap {
	if width <= 0 || height <= 0 {
		return nil
	}
	inked := false
	for y := 0; y < height && !inked; y++ {
		row := pix[y*stride : y*stride+width]
		for _, a := range row {
			if a != 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		return nil
	}

	b := make([]byte, 0, 4*binary.MaxVarintLen32+width*height)
	b = binary.AppendUvarint(b, uint64(width))
	b = binary.AppendUvarint(b, uint64(height))
	b = binary.AppendVarint(b, int64(originX))
	b = binary.AppendVarint(b, int64(originY))
	for y := 0; y < height; y++ {
		b = append(b, pix[y*stride:y*stride+width]...)
	}
	return b
}

// IsEmpty reports whether the bitmap has no inked pixels.
func (b Bitmap) IsEmpty() bool { return len(b) == 0 }

// Equal reports whether two bitmaps are identical.
func (b Bitmap) Equal(o Bitmap) bool { return bytes.Equal(b, o) }

// key returns the bitmap as a comparable map key.
func (b Bitmap) key() string { return string(b) }

// Dims unpacks the header. ok is false for the empty bitmap or a malformed
// buffer.
func (b Bitmap) Dims() (width, height, originX, originY int, pix []byte, ok bool) {
	rest := []byte(b)
	w, n := binary.Uvarint(rest)
	if n <= 0 {
		return 0, 0, 0, 0, nil, false
	}
	rest = rest[n:]
	h, n := binary.Uvarint(rest)
	if n <= 0 {
		return 0, 0, 0, 0, nil, false
	}
	rest = rest[n:]
	ox, n := binary.Varint(rest)
	if n <= 0 {
		return 0, 0, 0, 0, nil, false
	}
	rest = rest[n:]
	oy, n := binary.Varint(rest)
	if n <= 0 {
		return 0, 0, 0, 0, nil, false
	}
	rest = rest[n:]
	if uint64(len(rest)) != w*h {
		return 0, 0, 0, 0, nil, false
	}
	return int(w), int(h), int(ox), int(oy), rest, true
}

// Encoding selects how a bitmap is exported.
type Encoding int

const (
	// EncodingRaw is the bitmap bytes as-is.
	EncodingRaw Encoding = iota
	// EncodingBase64 is the raw bytes in standard base64.
	EncodingBase64
	// EncodingBits flattens the mask row-major into '0' and '1' characters,
	// one per pixel, inked where alpha is nonzero.
	EncodingBits
)

var encodingNames = map[Encoding]string{
	EncodingRaw:    "raw",
	EncodingBase64: "b64",
	EncodingBits:   "bits",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// ParseEncoding maps a name onto a supported Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "raw", "bytes":
		return EncodingRaw, nil
	case "b64", "base64":
		return EncodingBase64, nil
	case "bits", "stringified":
		return EncodingBits, nil
	}
	return 0, fmt.Errorf("%w: %q (use raw, b64 or bits)", ErrUnsupportedEncoding, name)
}

// Encode exports the bitmap in the given encoding.
func (b Bitmap) Encode(enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingRaw:
		return bytes.Clone(b), nil
	case EncodingBase64:
		out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
		base64.StdEncoding.Encode(out, b)
		return out, nil
	case EncodingBits:
		if b.IsEmpty() {
			return []byte{}, nil
		}
		_, _, _, _, pix, ok := b.Dims()
		if !ok {
			return nil, fmt.Errorf("homoglyph: malformed bitmap (%d bytes)", len(b))
		}
		out := make([]byte, len(pix))
		for i, a := range pix {
			if a != 0 {
				out[i] = '1'
			} else {
				out[i] = '0'
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, enc)
}
