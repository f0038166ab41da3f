package homoglyph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallDomain = Domain{Lo: 0, Hi: 0x3FF}

func TestBuildIndexLatinGreek(t *testing.T) {
	ix, err := BuildIndex(context.Background(), latinGreek(), WithDomain(smallDomain))
	require.NoError(t, err)

	assert.Equal(t, []rune{'A', 'a', 0x391}, ix.Codepoints)
	assert.Equal(t, []int{0, 1, 0}, ix.Groups)
	assert.Equal(t, 2, ix.NumGroups)
	assert.Equal(t, "latin-greek.ttf", ix.Font)
	assert.Equal(t, DefaultSize, ix.Size)
	assert.Equal(t, smallDomain.Len(), ix.Rendered)
	assert.Equal(t, smallDomain.Len()-3, ix.Excluded)

	g, ok := ix.Group(0x391)
	require.True(t, ok)
	assert.Equal(t, 0, g)
	_, ok = ix.Group(' ')
	assert.False(t, ok)

	assert.Equal(t, [][]rune{{'A', 0x391}, {'a'}}, ix.Members())
}

func TestBuildIndexSentinels(t *testing.T) {
	f := newFakeFace("probe.ttf", map[rune]string{
		WhitespaceProbe: "blank",
		'\t':            "blank",
		'x':             "x",
		'y':             "notdef-twin",
		NotdefHigh:      "notdef-twin",
		'z':             "",
	})

	ix, err := BuildIndex(context.Background(), f, WithDomain(Domain{Lo: 0, Hi: 0x7F}))
	require.NoError(t, err)

	// Probes, their lookalikes, unmapped codepoints and the empty bitmap
	// are all excluded.
	assert.Equal(t, []rune{'x'}, ix.Codepoints)
	assert.Equal(t, []int{0}, ix.Groups)
}

func TestBuildIndexDeterministic(t *testing.T) {
	shapes := map[rune]string{WhitespaceProbe: ""}
	for r := rune(0x20); r < 0x300; r++ {
		shapes[r] = string(rune('a' + r%7))
	}
	for _, r := range []rune{0x40, 0x41, 0x200} {
		delete(shapes, r)
	}
	f := newFakeFace("many.ttf", shapes)

	want, err := BuildIndex(context.Background(), f,
		WithDomain(smallDomain), WithWorkers(1), WithChunkSize(DefaultChunkSize))
	require.NoError(t, err)
	require.Equal(t, 7, want.NumGroups)

	for _, tc := range []struct {
		workers, chunk int
	}{
		{2, 1}, {4, 7}, {8, 64}, {3, 1000},
	} {
		got, err := BuildIndex(context.Background(), f,
			WithDomain(smallDomain), WithWorkers(tc.workers), WithChunkSize(tc.chunk))
		require.NoError(t, err)
		assert.Equal(t, want.Codepoints, got.Codepoints, "workers=%d chunk=%d", tc.workers, tc.chunk)
		assert.Equal(t, want.Groups, got.Groups, "workers=%d chunk=%d", tc.workers, tc.chunk)
	}
}

func TestBuildIndexPartition(t *testing.T) {
	shapes := map[rune]string{WhitespaceProbe: ""}
	for r := rune(0x21); r < 0x100; r++ {
		shapes[r] = string(rune('A' + r%11))
	}
	ix, err := BuildIndex(context.Background(), newFakeFace("p.ttf", shapes),
		WithDomain(smallDomain), WithChunkSize(16))
	require.NoError(t, err)

	seen := make(map[rune]bool)
	for g, members := range ix.Members() {
		require.NotEmpty(t, members, "group %d", g)
		for _, r := range members {
			require.False(t, seen[r], "codepoint %d in two groups", r)
			seen[r] = true
		}
	}
	assert.Len(t, seen, ix.Len())

	// Group ids follow first sight in ascending codepoint order.
	next := 0
	for _, g := range ix.Groups {
		require.LessOrEqual(t, g, next)
		if g == next {
			next++
		}
	}
	assert.Equal(t, ix.NumGroups, next)
}

func TestBuildIndexRenderErrors(t *testing.T) {
	f := latinGreek()
	f.fail = map[rune]bool{'a': true, 0x100: true}

	ix, err := BuildIndex(context.Background(), f, WithDomain(smallDomain))
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 0x391}, ix.Codepoints)
	assert.Equal(t, 2, ix.RenderErrors)
}

func TestBuildIndexEmptyFont(t *testing.T) {
	f := newFakeFace("empty.ttf", nil)

	ix, err := BuildIndex(context.Background(), f, WithDomain(smallDomain))
	require.NoError(t, err)
	assert.Zero(t, ix.Len())
	assert.Zero(t, ix.NumGroups)

	m := BuildMatrix(ix)
	assert.Zero(t, m.Len())
	assert.Empty(t, ExtractGroups(m))
}

func TestBuildIndexSkipsSurrogates(t *testing.T) {
	f := newFakeFace("s.ttf", map[rune]string{WhitespaceProbe: ""})
	f.notdef = ""
	for r := SurrogateMin - 2; r <= SurrogateMax+2; r++ {
		f.shapes[r] = "same"
	}

	ix, err := BuildIndex(context.Background(), f,
		WithDomain(Domain{Lo: SurrogateMin - 2, Hi: SurrogateMax + 2}), WithChunkSize(100))
	require.NoError(t, err)
	assert.Equal(t, []rune{SurrogateMin - 2, SurrogateMin - 1, SurrogateMax + 1, SurrogateMax + 2}, ix.Codepoints)
	assert.Equal(t, 4, ix.Rendered)
}

func TestBuildIndexClosesRasterizers(t *testing.T) {
	f := latinGreek()
	_, err := BuildIndex(context.Background(), f, WithDomain(smallDomain), WithWorkers(4), WithChunkSize(32))
	require.NoError(t, err)
	assert.Equal(t, f.opened.Load(), f.closed.Load())
	// One for the sentinels plus one per worker.
	assert.Equal(t, int32(5), f.opened.Load())
}

func TestBuildIndexInvalidConfig(t *testing.T) {
	_, err := BuildIndex(context.Background(), latinGreek(), WithSize(0))
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = BuildIndex(context.Background(), latinGreek(), WithDomain(Domain{Lo: 10, Hi: 5}))
	assert.ErrorIs(t, err, ErrInvalidDomain)
}

func TestBuildIndexCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildIndex(ctx, latinGreek(), WithDomain(smallDomain), WithChunkSize(1))
	assert.ErrorIs(t, err, context.Canceled)
}
