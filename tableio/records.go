package tableio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/raster"
)

var metadataHeader = []string{"FILE", "BASE", "STYLE", "RETAINED", "HOMOGLYPHS"}

// WriteMetadata writes one CSV row per font record. An empty style is
// written as an empty cell.
func WriteMetadata(w io.Writer, records []homoglyph.FontRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(metadataHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.File,
			rec.Base,
			rec.Style,
			strconv.Itoa(rec.Retained),
			strconv.Itoa(rec.Homoglyphs),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMetadata parses a table written by WriteMetadata.
func ReadMetadata(r io.Reader) ([]homoglyph.FontRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(metadataHeader)
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, formatErr(1, err, "unreadable header")
	}
	var out []homoglyph.FontRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, formatErr(line, err, "unreadable row")
		}
		retained, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, formatErr(line, err, "RETAINED")
		}
		homoglyphs, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, formatErr(line, err, "HOMOGLYPHS")
		}
		out = append(out, homoglyph.FontRecord{
			FontName:   homoglyph.FontName{File: rec[0], Base: rec[1], Style: rec[2]},
			Retained:   retained,
			Homoglyphs: homoglyphs,
		})
	}
}

// MarshalMetadata encodes records with the given compression.
func MarshalMetadata(records []homoglyph.FontRecord, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, c, func(w io.Writer) error { return WriteMetadata(w, records) }); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMetadata decodes a metadata table with the given compression.
func UnmarshalMetadata(data []byte, c Compression) ([]homoglyph.FontRecord, error) {
	var records []homoglyph.FontRecord
	err := decode(data, c, func(r io.Reader) error {
		var err error
		records, err = ReadMetadata(r)
		return err
	})
	return records, err
}

// WritePairs writes the nonzero cells of m in long form, one DEC,PAIR,COUNT
// row per cell.
func WritePairs(w io.Writer, m *homoglyph.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"DEC", "PAIR", "COUNT"}); err != nil {
		return err
	}
	var werr error
	m.NonZero(func(row, col rune, v uint32) {
		if werr != nil {
			return
		}
		werr = cw.Write([]string{
			strconv.Itoa(int(row)),
			strconv.Itoa(int(col)),
			strconv.FormatUint(uint64(v), 10),
		})
	})
	if werr != nil {
		return werr
	}
	cw.Flush()
	return cw.Error()
}

// MarshalPairs encodes the long-form pair list with the given compression.
func MarshalPairs(m *homoglyph.Matrix, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, c, func(w io.Writer) error { return WritePairs(w, m) }); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCoverage writes DEC,COUNT rows.
func WriteCoverage(w io.Writer, counts []raster.CoverageCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"DEC", "COUNT"}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{strconv.Itoa(int(c.Codepoint)), strconv.Itoa(c.Fonts)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GroupsDocument is the JSON export of one table's homoglyph groups.
type GroupsDocument struct {
	File    string                  `json:"file"`
	Groups  []homoglyph.Group       `json:"groups"`
	Members []homoglyph.GroupRecord `json:"members"`
}

// NewGroupsDocument describes the groups found in the named table.
func NewGroupsDocument(filename string, groups []homoglyph.Group) GroupsDocument {
	if groups == nil {
		groups = []homoglyph.Group{}
	}
	members := homoglyph.DescribeGroups(filename, groups)
	if members == nil {
		members = []homoglyph.GroupRecord{}
	}
	return GroupsDocument{
		File:    homoglyph.StemName(filename),
		Groups:  groups,
		Members: members,
	}
}

// WriteGroupsJSON writes doc as indented JSON.
func WriteGroupsJSON(w io.Writer, doc GroupsDocument) error {
	b, err := gojson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// ReadGroupsJSON parses a document written by WriteGroupsJSON.
func ReadGroupsJSON(r io.Reader) (GroupsDocument, error) {
	var doc GroupsDocument
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, err
	}
	err = gojson.Unmarshal(data, &doc)
	return doc, err
}
