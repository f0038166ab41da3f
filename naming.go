package homoglyph

import (
	"path/filepath"
	"strings"
)

// FontName is a font filename split into family and variant.
type FontName struct {
	// File is the filename without directory or extension.
	File string
	// Base is the family name, e.g. "times" for "times-bold".
	Base string
	// Style is the variant with punctuation removed, e.g. "bold". Empty
	// means the filename carries no style.
	Style string
}

// isPunct reports ASCII punctuation, the set !"#$%&'()*+,-./:;<=>?@[\]^_`{|}~.
func isPunct(r rune) bool {
	return (r >= '!' && r <= '/') || (r >= ':' && r <= '@') ||
		(r >= '[' && r <= '`') || (r >= '{' && r <= '~')
}

// StemName strips directory and extension from a font path.
func StemName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFontName splits a font filename at its first punctuation character.
// Everything before it is the base, everything after it (punctuation
// removed) is the style. Without punctuation, or when the name starts with
// punctuation, the whole name is the base and there is no style.
func ParseFontName(filename string) FontName {
	return ParseFontStem(StemName(filename))
}

// ParseFontStem is ParseFontName for a name already stripped of directory
// and extension, such as "Font.Bold" from the table "Font.Bold.csv".
func ParseFontStem(name string) FontName {
	fn := FontName{File: name, Base: name}

	cut := strings.IndexFunc(name, isPunct)
	if cut <= 0 {
		return fn
	}
	fn.Base = name[:cut]
	fn.Style = strings.Map(func(r rune) rune {
		if isPunct(r) {
			return -1
		}
		return r
	}, name[cut:])
	return fn
}
