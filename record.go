package homoglyph

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// FontRecord is the per-font metadata row, keyed by File.
type FontRecord struct {
	FontName
	Retained   int
	Homoglyphs int
}

// NewFontRecord summarizes the co-occurrence matrix of the named font file.
func NewFontRecord(filename string, m *Matrix) FontRecord {
	return newFontRecord(ParseFontName(filename), m)
}

func newFontRecord(fn FontName, m *Matrix) FontRecord {
	return FontRecord{
		FontName:   fn,
		Retained:   m.Len(),
		Homoglyphs: m.HomoglyphCount(),
	}
}

// GroupRecord describes one member of one homoglyph group.
type GroupRecord struct {
	Dec      int    `json:"dec"`
	Hex      string `json:"hex"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	File     string `json:"file"`
	Font     string `json:"font"`
	Style    string `json:"style,omitempty"`
	Group    int    `json:"group"`
}

// DescribeGroups flattens groups into one record per member, with Unicode
// name and general category. Group numbers follow the order of groups.
func DescribeGroups(filename string, groups []Group) []GroupRecord {
	fn := ParseFontName(filename)
	var out []GroupRecord
	for g, members := range groups {
		for _, r := range members {
			out = append(out, GroupRecord{
				Dec:      int(r),
				Hex:      fmt.Sprintf("0x%x", r),
				Name:     runenames.Name(r),
				Category: Category(r),
				File:     fn.File,
				Font:     fn.Base,
				Style:    fn.Style,
				Group:    g,
			})
		}
	}
	return out
}

// generalCategories lists the assigned two-letter general categories. Cn
// is whatever none of them covers.
var generalCategories = []string{
	"Cc", "Cf", "Co", "Cs",
	"Ll", "Lm", "Lo", "Lt", "Lu",
	"Mc", "Me", "Mn",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Pe", "Pf", "Pi", "Po", "Ps",
	"Sc", "Sk", "Sm", "So",
	"Zl", "Zp", "Zs",
}

// Category returns the two-letter Unicode general category of r; "Cn" for
// unassigned codepoints.
func Category(r rune) string {
	for _, name := range generalCategories {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return "Cn"
}
