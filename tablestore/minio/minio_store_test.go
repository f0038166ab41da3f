package minio

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/homoglyph/tablestore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	accessKey := envOr("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := envOr("MINIO_SECRET_KEY", "minioadmin")
	bucket := "test-homoglyph"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "corpus")
	sibling := NewStore(client, bucket, "corpusX")
	t.Cleanup(func() {
		for _, key := range []string{"corpus/Font.Bold.csv", "corpus/.hidden", "corpusX/Other.csv"} {
			_ = client.RemoveObject(context.Background(), bucket, key, minio.RemoveObjectOptions{})
		}
	})

	data := []byte("0,65,97\n65,1,1\n97,1,1\n")
	require.NoError(t, store.Put(ctx, "Font.Bold.csv", data))
	require.NoError(t, store.Put(ctx, ".hidden", []byte("x")))
	require.NoError(t, sibling.Put(ctx, "Other.csv", []byte("x")))

	got, err := store.Get(ctx, "Font.Bold.csv")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = store.Get(ctx, "missing.csv")
	assert.ErrorIs(t, err, tablestore.ErrNotFound)

	ok, err := store.Exists(ctx, "Font.Bold.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "missing.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	// Neither hidden objects nor the corpusX sibling show up.
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Font.Bold.csv"}, names)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
