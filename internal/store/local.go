package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aweris/namestore/internal/atomicfile"
	"github.com/aweris/namestore/internal/compression"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidHash  = errors.New("invalid blob hash")
)

var _ Store = (*LocalStore)(nil)

// LocalStore implements Store using the local filesystem.
//
// Storage layout (flat):
//
//	dir/
//	  <hash>            (raw payload, or a zstd frame when compression is on)
//	  contentMap.json   (owned by the caller, ignored here)
//
// The directory is shared with the caller's index file, so only
// hex-named regular files count as blobs.
type LocalStore struct {
	dir        string
	cache      Cache
	compressor *compression.Compressor
}

// NewLocalStore opens the blob area in dir, which must already exist.
// cacheSize <= 0 disables the read cache.
func NewLocalStore(dir string, cacheSize int, compressionLevel int, compressionEnabled bool) (*LocalStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("blob dir %s is not a directory", dir)
	}

	var cache Cache = noCache{}
	if cacheSize > 0 {
		c, err := NewLRUCache(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache: %w", err)
		}
		cache = c
	}

	compressor, err := compression.NewCompressor(compressionLevel, compressionEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	return &LocalStore{
		dir:        dir,
		cache:      cache,
		compressor: compressor,
	}, nil
}

// Get retrieves a blob by hash.
func (s *LocalStore) Get(ctx context.Context, hash string) ([]byte, error) {
	if !IsHash(hash) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}

	// 1. Check memory cache
	if data, ok := s.cache.Get(hash); ok {
		return data, nil
	}

	// 2. Read from disk
	stored, err := os.ReadFile(s.Path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, hash)
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	data, err := s.decode(hash, stored)
	if err != nil {
		return nil, err
	}

	// 3. Cache and return
	s.cache.Add(hash, data)
	return data, nil
}

// Put stores a blob and returns its hash. An existing blob is never
// rewritten: its content is fixed by its name.
func (s *LocalStore) Put(ctx context.Context, data []byte) (string, bool, error) {
	// 1. Compute hash
	hash := Hash(data)

	// 2. Check if already exists
	path := s.Path(hash)
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return hash, false, nil
	}

	// 3. Write to disk
	if err := atomicfile.Write(path, s.compressor.Compress(data), 0644); err != nil {
		return "", false, fmt.Errorf("failed to write blob: %w", err)
	}

	// 4. Cache in memory
	s.cache.Add(hash, data)

	return hash, true, nil
}

// Has checks if a blob exists.
func (s *LocalStore) Has(ctx context.Context, hash string) (bool, error) {
	if !IsHash(hash) {
		return false, nil
	}
	if s.cache.Has(hash) {
		return true, nil
	}

	info, err := os.Stat(s.Path(hash))
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Size returns the payload length of a blob. Without compression that is
// the file size; otherwise the blob has to be read.
func (s *LocalStore) Size(ctx context.Context, hash string) (int64, error) {
	if !IsHash(hash) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}
	if s.compressor.Enabled() {
		data, err := s.Get(ctx, hash)
		if err != nil {
			return 0, err
		}
		return int64(len(data)), nil
	}

	info, err := os.Stat(s.Path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrBlobNotFound, hash)
		}
		return 0, fmt.Errorf("failed to stat blob: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s is not a regular file", ErrBlobNotFound, hash)
	}
	return info.Size(), nil
}

// decode turns a stored blob back into its payload. A blob whose bytes
// already hash to its name is raw, whatever it looks like; everything else
// was written compressed.
func (s *LocalStore) decode(hash string, stored []byte) ([]byte, error) {
	if !s.compressor.Enabled() || Hash(stored) == hash {
		return stored, nil
	}
	data, err := s.compressor.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress blob: %w", err)
	}
	return data, nil
}

// List reports all blobs, sorted by hash.
func (s *LocalStore) List(ctx context.Context) ([]BlobInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	var blobs []BlobInfo
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || !IsHash(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to stat blob %s: %w", e.Name(), err)
		}
		blobs = append(blobs, BlobInfo{Hash: e.Name(), Size: info.Size()})
	}

	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Hash < blobs[j].Hash })
	return blobs, nil
}

// Path returns the filesystem path for a blob hash: dir/<hash>.
func (s *LocalStore) Path(hash string) string {
	return filepath.Join(s.dir, hash)
}

// Evict removes a blob from cache.
func (s *LocalStore) Evict(hash string) {
	s.cache.Remove(hash)
}

// Clear clears the cache.
func (s *LocalStore) Clear() {
	s.cache.Clear()
}

// Close releases the compressor. The decoder runs without background
// goroutines, so a LocalStore that is dropped without Close holds only memory.
func (s *LocalStore) Close() error {
	return s.compressor.Close()
}
