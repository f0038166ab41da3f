package tableio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/raster"
)

// latinGreek is the co-occurrence table of a font drawing A and Alpha alike.
func latinGreek(t *testing.T) *homoglyph.Matrix {
	t.Helper()
	m, err := homoglyph.NewMatrix([]rune{'A', 'a', 0x391})
	require.NoError(t, err)
	for _, c := range [][2]rune{{'A', 'A'}, {'a', 'a'}, {0x391, 0x391}, {'A', 0x391}, {0x391, 'A'}} {
		require.NoError(t, m.Set(c[0], c[1], 1))
	}
	return m
}

func TestWriteMatrix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, latinGreek(t)))
	assert.Equal(t, ",65,97,913\n65,1,0,1\n97,0,1,0\n913,1,0,1\n", buf.String())
}

func TestMatrixRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			m := latinGreek(t)
			data, err := MarshalMatrix(m, c)
			require.NoError(t, err)

			got, err := UnmarshalMatrix(data, c)
			require.NoError(t, err)
			assert.True(t, m.Equal(got))

			labels, err := UnmarshalLabels(data, c)
			require.NoError(t, err)
			assert.Equal(t, m.Labels(), labels)
		})
	}
}

func TestEmptyMatrixRoundTrip(t *testing.T) {
	data, err := MarshalMatrix(homoglyph.EmptyMatrix(), CompressionZstd)
	require.NoError(t, err)
	got, err := UnmarshalMatrix(data, CompressionZstd)
	require.NoError(t, err)
	assert.Zero(t, got.Len())

	got, err = ReadMatrix(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func TestReadMatrixLenient(t *testing.T) {
	// Dataframe exports quote the corner cell and write floats.
	in := `"",65,913
65,1.0,1
913,1,1.0
`
	m, err := ReadMatrix(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), m.At('A', 0x391))
	assert.Equal(t, uint32(1), m.At(0x391, 0x391))
}

func TestReadMatrixMalformed(t *testing.T) {
	for name, in := range map[string]string{
		"bad label":      ",65,x\n65,1,0\n",
		"unsorted":       ",97,65\n97,1,0\n65,0,1\n",
		"short row":      ",65,97\n65,1\n97,0,1\n",
		"row mismatch":   ",65,97\n97,1,0\n65,0,1\n",
		"missing row":    ",65,97\n65,1,0\n",
		"extra row":      ",65\n65,1\n66,1\n",
		"negative":       ",65\n65,-1\n",
		"fractional":     ",65\n65,0.5\n",
		"not a number":   ",65\n65,one\n",
		"bad row label":  ",65\nA,1\n",
		"surrogate":      ",55296\n55296,1\n",
		"duplicate cols": ",65,65\n65,1,1\n65,1,1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMatrix(strings.NewReader(in))
			var fe *TableFormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestUnmarshalWrongCodec(t *testing.T) {
	data, err := MarshalMatrix(latinGreek(t), CompressionNone)
	require.NoError(t, err)
	_, err = UnmarshalMatrix(data, CompressionZstd)
	assert.Error(t, err)
}

func TestCompressionNames(t *testing.T) {
	assert.Equal(t, CompressionZstd, CompressionFor("a.csv.zst"))
	assert.Equal(t, CompressionLZ4, CompressionFor("a.csv.lz4"))
	assert.Equal(t, CompressionNone, CompressionFor("a.csv"))
	assert.Equal(t, "a.csv", TrimCompressionExt("a.csv.zst"))
	assert.Equal(t, "a.csv", TrimCompressionExt("a.csv"))

	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	_, err = ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrUnsupportedCompression)
	_, err = NewWriter(&bytes.Buffer{}, Compression(7))
	assert.ErrorIs(t, err, ErrUnsupportedCompression)
}

func TestMetadataRoundTrip(t *testing.T) {
	records := []homoglyph.FontRecord{
		{FontName: homoglyph.ParseFontName("arial.ttf"), Retained: 3000, Homoglyphs: 120},
		{FontName: homoglyph.ParseFontName("times-bold.ttf"), Retained: 2500, Homoglyphs: 90},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMetadata(&buf, records))
	assert.Equal(t, "FILE,BASE,STYLE,RETAINED,HOMOGLYPHS\narial,arial,,3000,120\ntimes-bold,times,bold,2500,90\n", buf.String())

	got, err := ReadMetadata(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = ReadMetadata(strings.NewReader("FILE,BASE,STYLE,RETAINED,HOMOGLYPHS\na,a,,x,1\n"))
	var fe *TableFormatError
	assert.ErrorAs(t, err, &fe)
}

func TestWritePairs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePairs(&buf, latinGreek(t)))
	assert.Equal(t, "DEC,PAIR,COUNT\n65,65,1\n65,913,1\n97,97,1\n913,65,1\n913,913,1\n", buf.String())
}

func TestWriteCoverage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCoverage(&buf, []raster.CoverageCount{{Codepoint: 'A', Fonts: 3}, {Codepoint: 0x391, Fonts: 1}}))
	assert.Equal(t, "DEC,COUNT\n65,3\n913,1\n", buf.String())
}

func TestGroupsJSON(t *testing.T) {
	doc := NewGroupsDocument("fonts/go-regular.ttf", homoglyph.ExtractGroups(latinGreek(t)))
	assert.Equal(t, "go-regular", doc.File)
	require.Len(t, doc.Groups, 1)
	require.Len(t, doc.Members, 2)
	assert.Equal(t, "LATIN CAPITAL LETTER A", doc.Members[0].Name)
	assert.Equal(t, "regular", doc.Members[1].Style)

	var buf bytes.Buffer
	require.NoError(t, WriteGroupsJSON(&buf, doc))
	assert.Contains(t, buf.String(), `"hex": "0x391"`)

	got, err := ReadGroupsJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	empty := NewGroupsDocument("none.ttf", nil)
	buf.Reset()
	require.NoError(t, WriteGroupsJSON(&buf, empty))
	assert.Contains(t, buf.String(), `"groups": []`)
}
