package homoglyph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar(0))
	assert.True(t, IsScalar(MaxCodepoint))
	assert.True(t, IsScalar(SurrogateMin-1))
	assert.False(t, IsScalar(SurrogateMin))
	assert.False(t, IsScalar(SurrogateMax))
	assert.False(t, IsScalar(-1))
	assert.False(t, IsScalar(MaxCodepoint+1))
}

func TestDomainLen(t *testing.T) {
	assert.Equal(t, 0x110000-0x800, FullDomain.Len())
	assert.Equal(t, 1, Domain{Lo: 'a', Hi: 'a'}.Len())
	assert.Equal(t, 0, Domain{Lo: SurrogateMin, Hi: SurrogateMax}.Len())
	assert.Equal(t, 2, Domain{Lo: SurrogateMin - 1, Hi: SurrogateMax + 1}.Len())
	assert.Equal(t, 0, Domain{Lo: 5, Hi: 4}.Len())
}

func TestDomainEach(t *testing.T) {
	var got []rune
	Domain{Lo: SurrogateMin - 2, Hi: SurrogateMax + 1}.Each(func(r rune) {
		got = append(got, r)
	})
	assert.Equal(t, []rune{SurrogateMin - 2, SurrogateMin - 1, SurrogateMax + 1}, got)

	got = got[:0]
	Domain{Lo: SurrogateMin + 5, Hi: SurrogateMax + 2}.Each(func(r rune) {
		got = append(got, r)
	})
	assert.Equal(t, []rune{SurrogateMax + 1, SurrogateMax + 2}, got)
}

func TestDomainChunks(t *testing.T) {
	d := Domain{Lo: SurrogateMin - 10, Hi: SurrogateMax + 10}
	chunks := d.Chunks(0x100)

	total := 0
	prev := d.Lo - 1
	for _, c := range chunks {
		require.Greater(t, c.Lo, prev)
		require.LessOrEqual(t, c.Hi-c.Lo, rune(0xFF))
		require.Positive(t, c.Len())
		total += c.Len()
		prev = c.Hi
	}
	assert.Equal(t, d.Len(), total)
	assert.Equal(t, d.Hi, chunks[len(chunks)-1].Hi)

	assert.Len(t, FullDomain.Chunks(DefaultChunkSize), 0x110000/DefaultChunkSize)
}

func TestDomainSet(t *testing.T) {
	d := Domain{Lo: SurrogateMin - 3, Hi: SurrogateMax + 3}
	s := d.Set()
	assert.Equal(t, uint64(d.Len()), s.GetCardinality())
	assert.False(t, s.Contains(uint32(SurrogateMin)))
	assert.True(t, s.Contains(uint32(SurrogateMax+3)))
	assert.Equal(t, uint64(FullDomain.Len()), FullDomain.Set().GetCardinality())
}

func TestDomainValidate(t *testing.T) {
	assert.NoError(t, FullDomain.Validate())
	assert.ErrorIs(t, Domain{Lo: -1, Hi: 3}.Validate(), ErrInvalidDomain)
	assert.ErrorIs(t, Domain{Lo: 0, Hi: MaxCodepoint + 1}.Validate(), ErrInvalidDomain)
	assert.ErrorIs(t, Domain{Lo: 9, Hi: 8}.Validate(), ErrInvalidDomain)
}
