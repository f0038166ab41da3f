package homoglyph

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Group is a set of codepoints sharing a glyph, in ascending order.
type Group []rune

func (g Group) key() string {
	var sb strings.Builder
	for i, r := range g {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(r)))
	}
	return sb.String()
}

// ExtractGroups recovers the distinct homoglyph groups of a co-occurrence
// matrix.
//
// Every row whose sum exceeds one contributes the set of columns it is
// nonzero in, its own codepoint included. Rows of the same group produce the
// same set and are collapsed. On an aggregate matrix nonzero means the pair
// co-occurred in at least one font, so groups of different fonts that
// overlap produce distinct, overlapping sets.
//
// Groups are returned ordered by their smallest member.
func ExtractGroups(m *Matrix, opts ...GroupOption) []Group {
	cfg := groupConfig{minSize: 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	seen := make(map[string]struct{})
	var groups []Group
	for i := range m.labels {
		if m.RowSum(i) <= 1 {
			continue
		}
		row := m.Row(i)
		g := make(Group, len(row))
		for k, e := range row {
			g[k] = e.Col
		}
		if len(g) < cfg.minSize || (cfg.maxSize > 0 && len(g) >= cfg.maxSize) {
			continue
		}
		k := g.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(a, b int) bool {
		return slices.Compare(groups[a], groups[b]) < 0
	})
	return groups
}
