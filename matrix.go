package homoglyph

import (
	"fmt"
	"sort"
)

// Matrix is a square co-occurrence table indexed by codepoint. Rows and
// columns share one label order, ascending by codepoint, so row i and
// column i always name the same codepoint.
//
// Storage is sparse: only nonzero cells are kept. A Matrix is not safe for
// concurrent mutation.
type Matrix struct {
	labels []rune
	pos    map[rune]int
	rows   []map[int]uint32
}

// Entry is one nonzero cell of a matrix row.
type Entry struct {
	Col   rune
	Count uint32
}

// NewMatrix returns an all-zero matrix over labels, which must be strictly
// ascending scalar values.
func NewMatrix(labels []rune) (*Matrix, error) {
	for i, r := range labels {
		if !IsScalar(r) {
			return nil, fmt.Errorf("label %d: %#x is not a scalar value", i, r)
		}
		if i > 0 && labels[i-1] >= r {
			return nil, fmt.Errorf("label %d: %d does not ascend after %d", i, r, labels[i-1])
		}
	}
	m := &Matrix{
		labels: append([]rune(nil), labels...),
		pos:    make(map[rune]int, len(labels)),
		rows:   make([]map[int]uint32, len(labels)),
	}
	for i, r := range m.labels {
		m.pos[r] = i
	}
	return m, nil
}

// EmptyMatrix returns the matrix of a font with no retained codepoint.
func EmptyMatrix() *Matrix {
	m, _ := NewMatrix(nil)
	return m
}

// Labels returns the shared row and column labels. The slice must not be
// modified.
func (m *Matrix) Labels() []rune { return m.labels }

// Len returns the number of rows (and columns).
func (m *Matrix) Len() int { return len(m.labels) }

// Has reports whether r labels a row.
func (m *Matrix) Has(r rune) bool {
	_, ok := m.pos[r]
	return ok
}

// At returns the cell at (row, col); unknown labels read as zero.
func (m *Matrix) At(row, col rune) uint32 {
	i, ok := m.pos[row]
	if !ok {
		return 0
	}
	j, ok := m.pos[col]
	if !ok {
		return 0
	}
	return m.rows[i][j]
}

// Set stores v at (row, col). Only that cell changes; callers keep the
// matrix symmetric.
func (m *Matrix) Set(row, col rune, v uint32) error {
	i, ok := m.pos[row]
	if !ok {
		return fmt.Errorf("row label %d not in matrix", row)
	}
	j, ok := m.pos[col]
	if !ok {
		return fmt.Errorf("column label %d not in matrix", col)
	}
	m.setPos(i, j, v)
	return nil
}

func (m *Matrix) setPos(i, j int, v uint32) {
	if v == 0 {
		delete(m.rows[i], j)
		return
	}
	if m.rows[i] == nil {
		m.rows[i] = make(map[int]uint32)
	}
	m.rows[i][j] = v
}

func (m *Matrix) addPos(i, j int, v uint32) {
	if v == 0 {
		return
	}
	if m.rows[i] == nil {
		m.rows[i] = make(map[int]uint32)
	}
	m.rows[i][j] += v
}

// Row returns the nonzero cells of row i in ascending column order.
func (m *Matrix) Row(i int) []Entry {
	row := m.rows[i]
	out := make([]Entry, 0, len(row))
	for j, v := range row {
		out = append(out, Entry{Col: m.labels[j], Count: v})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Col < out[b].Col })
	return out
}

// RowSum returns the sum of row i.
func (m *Matrix) RowSum(i int) uint64 {
	var sum uint64
	for _, v := range m.rows[i] {
		sum += uint64(v)
	}
	return sum
}

// NonZero calls fn for every nonzero cell, rows ascending, columns
// ascending within a row.
func (m *Matrix) NonZero(fn func(row, col rune, v uint32)) {
	for i, r := range m.labels {
		for _, e := range m.Row(i) {
			fn(r, e.Col, e.Count)
		}
	}
}

// IsSymmetric reports whether the matrix equals its transpose.
func (m *Matrix) IsSymmetric() bool {
	for i, row := range m.rows {
		for j, v := range row {
			if m.rows[j][i] != v {
				return false
			}
		}
	}
	return true
}

// Equal reports whether both matrices have the same labels and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if len(m.labels) != len(o.labels) {
		return false
	}
	for i, r := range m.labels {
		if o.labels[i] != r || len(m.rows[i]) != len(o.rows[i]) {
			return false
		}
		for j, v := range m.rows[i] {
			if o.rows[i][j] != v {
				return false
			}
		}
	}
	return true
}

// HomoglyphCount returns the number of rows whose sum exceeds one, that is
// codepoints sharing their bitmap with at least one other codepoint.
func (m *Matrix) HomoglyphCount() int {
	n := 0
	for i := range m.rows {
		if m.RowSum(i) > 1 {
			n++
		}
	}
	return n
}

// PairedCount returns the number of rows with a nonzero off-diagonal cell,
// that is codepoints that share a bitmap with another codepoint in at least
// one font. Unlike HomoglyphCount it ignores diagonals, which in an
// aggregate count fonts rather than partners.
func (m *Matrix) PairedCount() int {
	n := 0
	for i, row := range m.rows {
		for j, v := range row {
			if j != i && v != 0 {
				n++
				break
			}
		}
	}
	return n
}

// BuildMatrix turns a group partition into its co-occurrence matrix.
//
// The matrix is the product of the group-by-codepoint indicator table with
// its transpose: each cell counts the groups holding both codepoints. With
// a partition every retained codepoint has a diagonal of one and every
// off-diagonal cell is one exactly when both share a group. An empty index
// yields an empty matrix.
func BuildMatrix(ix *Index) *Matrix {
	if ix == nil || ix.Len() == 0 {
		return EmptyMatrix()
	}
	// Codepoints is ascending, so labels are valid by construction.
	m, err := NewMatrix(ix.Codepoints)
	if err != nil {
		panic(fmt.Sprintf("homoglyph: index labels: %v", err))
	}
	members := make([][]int, ix.NumGroups)
	for i, g := range ix.Groups {
		members[g] = append(members[g], i)
	}
	for _, group := range members {
		for _, i := range group {
			for _, j := range group {
				m.addPos(i, j, 1)
			}
		}
	}
	return m
}
