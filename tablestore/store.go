// Package tablestore persists the tables produced by the per-font and
// corpus stages. Backends live in subpackages; LocalStore covers plain
// directories.
package tablestore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a table does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store holds named, immutable table blobs.
type Store interface {
	// Put writes a table atomically: readers see the old content or the new
	// content, never a partial write.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole table.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the sorted names under prefix, skipping hidden names
	// (those starting with a dot).
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether a table is present.
	Exists(ctx context.Context, name string) (bool, error)
}
