// Package tableio reads and writes the tabular files exchanged between the
// per-font and corpus stages: co-occurrence matrices, font metadata, pair
// lists, coverage counts and group exports.
//
// Matrices are CSV. The header row is an empty cell followed by the
// ascending codepoint labels; every following row starts with its codepoint
// label and holds one count per column.
package tableio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wbrown/homoglyph"
)

// TableFormatError reports a malformed table.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type TableFormatError struct {
	Line   int
	Reason string
	cause  error
}

func (e *TableFormatError) Error() string {
	msg := fmt.Sprintf("table line %d: %s", e.Line, e.Reason)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *TableFormatError) Unwrap() error { return e.cause }

func formatErr(line int, cause error, format string, args ...any) error {
	return &TableFormatError{Line: line, Reason: fmt.Sprintf(format, args...), cause: cause}
}

// WriteMatrix writes m as a dense CSV table.
func WriteMatrix(w io.Writer, m *homoglyph.Matrix) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	labels := m.Labels()
	line := make([]byte, 0, 16*len(labels)+16)

	for _, r := range labels {
		line = append(line, ',')
		line = strconv.AppendInt(line, int64(r), 10)
	}
	line = append(line, '\n')
	if _, err := bw.Write(line); err != nil {
		return err
	}

	pos := make(map[rune]int, len(labels))
	for i, r := range labels {
		pos[r] = i
	}
	cells := make([]uint32, len(labels))
	for i, r := range labels {
		clear(cells)
		for _, e := range m.Row(i) {
			cells[pos[e.Col]] = e.Count
		}
		line = strconv.AppendInt(line[:0], int64(r), 10)
		for _, v := range cells {
			line = append(line, ',')
			line = strconv.AppendUint(line, uint64(v), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadLabels reads only the header row of a matrix table.
func ReadLabels(r io.Reader) ([]rune, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, formatErr(1, err, "unreadable header")
	}
	return parseLabels(header)
}

func parseLabels(header []string) ([]rune, error) {
	if len(header) == 1 && header[0] == "" {
		return nil, nil
	}
	labels := make([]rune, len(header)-1)
	for i, field := range header[1:] {
		v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return nil, formatErr(1, err, "column %d label %q is not an integer", i+1, field)
		}
		labels[i] = rune(v)
	}
	return labels, nil
}

// ReadMatrix parses a matrix table. The row labels must repeat the column
// labels in the same order.
func ReadMatrix(r io.Reader) (*homoglyph.Matrix, error) {
	cr := newCSVReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return homoglyph.EmptyMatrix(), nil
	}
	if err != nil {
		return nil, formatErr(1, err, "unreadable header")
	}
	labels, err := parseLabels(header)
	if err != nil {
		return nil, err
	}
	m, err := homoglyph.NewMatrix(labels)
	if err != nil {
		return nil, formatErr(1, err, "invalid labels")
	}

	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line := row + 2
		if err != nil {
			return nil, formatErr(line, err, "unreadable row")
		}
		if row >= len(labels) {
			return nil, formatErr(line, nil, "more rows than columns")
		}
		if len(rec) != len(labels)+1 {
			return nil, formatErr(line, nil, "%d fields, want %d", len(rec), len(labels)+1)
		}
		label, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 32)
		if err != nil {
			return nil, formatErr(line, err, "row label %q is not an integer", rec[0])
		}
		if rune(label) != labels[row] {
			return nil, formatErr(line, nil, "row label %d does not match column label %d", label, labels[row])
		}
		for j, field := range rec[1:] {
			v, err := parseCount(field)
			if err != nil {
				return nil, formatErr(line, err, "column %d", j+1)
			}
			if v != 0 {
				_ = m.Set(labels[row], labels[j], v)
			}
		}
		row++
	}
	if row != len(labels) {
		return nil, formatErr(row+2, nil, "%d rows for %d columns", row, len(labels))
	}
	return m, nil
}

// parseCount accepts non-negative integers, also when written with a zero
// fraction ("3.0") as dataframe tools do after filling missing cells.
func parseCount(field string) (uint32, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	if v, err := strconv.ParseUint(field, 10, 32); err == nil {
		return uint32(v), nil
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil || f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("count %q is not a non-negative integer", field)
	}
	return uint32(f), nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(bufio.NewReaderSize(r, 1<<16))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// MarshalMatrix encodes m with the given compression.
func MarshalMatrix(m *homoglyph.Matrix, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, c, func(w io.Writer) error { return WriteMatrix(w, m) }); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMatrix decodes a matrix table with the given compression.
func UnmarshalMatrix(data []byte, c Compression) (*homoglyph.Matrix, error) {
	var m *homoglyph.Matrix
	err := decode(data, c, func(r io.Reader) error {
		var err error
		m, err = ReadMatrix(r)
		return err
	})
	return m, err
}

// UnmarshalLabels decodes only the labels of a matrix table.
func UnmarshalLabels(data []byte, c Compression) ([]rune, error) {
	var labels []rune
	err := decode(data, c, func(r io.Reader) error {
		var err error
		labels, err = ReadLabels(r)
		return err
	})
	return labels, err
}

func encode(w io.Writer, c Compression, fn func(io.Writer) error) error {
	cw, err := NewWriter(w, c)
	if err != nil {
		return err
	}
	if err := fn(cw); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}

func decode(data []byte, c Compression, fn func(io.Reader) error) error {
	cr, err := NewReader(bytes.NewReader(data), c)
	if err != nil {
		return err
	}
	defer cr.Close()
	return fn(cr)
}
