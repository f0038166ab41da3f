// Package storeurl opens a tablestore.Store from a location string.
//
// Supported forms:
//
//	/path/to/dir or file:///path/to/dir   local directory
//	s3://bucket/prefix                    Amazon S3, default AWS config chain
//	minio://host:port/bucket/prefix       MinIO over HTTPS, MINIO_* credentials
//	minio+http://host:port/bucket/prefix  MinIO over plain HTTP
package storeurl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wbrown/homoglyph/tablestore"
	"github.com/wbrown/homoglyph/tablestore/minio"
	"github.com/wbrown/homoglyph/tablestore/s3"
)

// Open resolves location into a Store.
func Open(ctx context.Context, location string) (tablestore.Store, error) {
	if !strings.Contains(location, "://") {
		return tablestore.NewLocalStore(location), nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid store location %q: %w", location, err)
	}
	prefix := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "file":
		return tablestore.NewLocalStore(u.Path), nil
	case "s3":
		client, err := s3.NewDefaultClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return s3.NewStore(client, u.Host, prefix), nil
	case "minio", "minio+http":
		bucket, rest, _ := strings.Cut(prefix, "/")
		if bucket == "" {
			return nil, fmt.Errorf("store location %q names no bucket", location)
		}
		client, err := minio.Dial(u.Host, u.Scheme == "minio")
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minio.NewStore(client, bucket, rest), nil
	}
	return nil, fmt.Errorf("unsupported store scheme %q", u.Scheme)
}
