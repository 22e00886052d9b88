// Package store implements the blob area: one file per distinct content
// hash, named by the lowercase hex digest and holding the payload.
//
// The Store interface is a plain key-value abstraction over
// content-addressed blobs:
// - Put/Get/Has for basic operations
// - List for maintenance and statistics
// - Filesystem-based with an LRU read cache
package store

import "context"

// Store handles content-addressed blob storage.
type Store interface {
	// Put stores a blob and returns its hash. created is false when the
	// blob was already present.
	Put(ctx context.Context, data []byte) (hash string, created bool, err error)

	// Get retrieves a blob by hash.
	Get(ctx context.Context, hash string) ([]byte, error)

	// Has checks if a blob exists.
	Has(ctx context.Context, hash string) (bool, error)

	// Size returns the payload length of a blob.
	Size(ctx context.Context, hash string) (int64, error)

	// List reports every blob in the area.
	List(ctx context.Context) ([]BlobInfo, error)

	// Path returns the file that holds the blob for hash.
	Path(hash string) string

	// Evict removes a blob from the cache (not from disk).
	Evict(hash string)

	// Clear clears the in-memory cache.
	Clear()
}

// BlobInfo describes one blob file.
type BlobInfo struct {
	Hash string
	Size int64 // bytes on disk
}
