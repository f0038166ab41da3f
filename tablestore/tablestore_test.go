package tablestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(filepath.Join(t.TempDir(), "tables"))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Put(ctx, "b.csv", []byte("b")))
	require.NoError(t, s.Put(ctx, "a.csv.zst", []byte("a")))
	require.NoError(t, s.Put(ctx, "sub/c.csv", []byte("c")))
	require.NoError(t, s.Put(ctx, ".hidden.csv", []byte("h")))

	got, err := s.Get(ctx, "sub/c.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)

	require.NoError(t, s.Put(ctx, "b.csv", []byte("bb")))
	got, err = s.Get(ctx, "b.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("bb"), got)

	_, err = s.Get(ctx, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(ctx, "a.csv.zst")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(ctx, "missing.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv.zst", "b.csv", "sub/c.csv"}, names)

	names, err = s.List(ctx, "sub/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/c.csv"}, names)

	// No temporary files are left behind.
	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestLocalStoreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewLocalStore(t.TempDir())
	assert.ErrorIs(t, s.Put(ctx, "a.csv", nil), context.Canceled)
	_, err := s.Get(ctx, "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimited(t *testing.T) {
	ctx := context.Background()
	base := NewLocalStore(t.TempDir())

	assert.Same(t, Store(base), NewLimited(base, 0))

	s := NewLimited(base, 1000)
	_, ok := s.(*Limited)
	require.True(t, ok)

	data := make([]byte, 1500)
	start := time.Now()
	// The first burst passes at once; the rest waits on the limiter.
	require.NoError(t, s.Put(ctx, "big.csv", data))
	require.NoError(t, s.Put(ctx, "big2.csv", data))
	assert.GreaterOrEqual(t, time.Since(start), 1500*time.Millisecond)

	got, err := s.Get(context.Background(), "big.csv")
	require.NoError(t, err)
	assert.Len(t, got, 1500)

	exists, err := s.Exists(ctx, "big2.csv")
	require.NoError(t, err)
	assert.True(t, exists)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Put(cctx, "never.csv", data))
	exists, err = base.Exists(ctx, "never.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}
