package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, cacheSize int, compress bool) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), cacheSize, 2, compress)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocalStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 16, false)

	data := []byte("a very long string1")
	hash, created, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Hash(data), hash)
	assert.Len(t, hash, HashLen)

	// Raw payload, no framing.
	onDisk, err := os.ReadFile(filepath.Join(s.dir, hash))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	got, err := s.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStore_PutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, false)

	h1, created1, err := s.Put(ctx, []byte("same"))
	require.NoError(t, err)
	h2, created2, err := s.Put(ctx, []byte("same"))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.True(t, created1)
	assert.False(t, created2)

	blobs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, blobs, 1)
}

func TestLocalStore_GetErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, false)

	t.Run("missing blob", func(t *testing.T) {
		_, err := s.Get(ctx, Hash([]byte("never stored")))
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("invalid hash", func(t *testing.T) {
		for _, h := range []string{"", "../contentMap.json", "ABC", Hash(nil)[:10]} {
			_, err := s.Get(ctx, h)
			assert.ErrorIs(t, err, ErrInvalidHash, h)
		}
	})
}

func TestLocalStore_Has(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, false)

	hash, _, err := s.Put(ctx, []byte("x"))
	require.NoError(t, err)

	ok, err := s.Has(ctx, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Has(ctx, Hash([]byte("y")))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Has(ctx, "not-a-hash")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStore_ListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, false)

	_, _, err := s.Put(ctx, []byte("one"))
	require.NoError(t, err)
	_, _, err = s.Put(ctx, []byte("two"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "contentMap.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, ".tmp-abc"), []byte("partial"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(s.dir, Hash([]byte("dir"))), 0755))

	blobs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	assert.True(t, blobs[0].Hash < blobs[1].Hash)
	for _, b := range blobs {
		assert.Equal(t, int64(3), b.Size)
	}
}

func TestLocalStore_Cache(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 16, false)

	hash, _, err := s.Put(ctx, []byte("cached"))
	require.NoError(t, err)

	// Served from cache even after the file is gone.
	require.NoError(t, os.Remove(s.Path(hash)))
	got, err := s.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), got)

	s.Evict(hash)
	_, err = s.Get(ctx, hash)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalStore_Compression(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, true)

	data := bytes.Repeat([]byte("a very long string3 "), 100)
	hash, _, err := s.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, Hash(data), hash)

	onDisk, err := os.ReadFile(s.Path(hash))
	require.NoError(t, err)
	assert.Less(t, len(onDisk), len(data))

	got, err := s.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestNewLocalStore_MissingDir(t *testing.T) {
	_, err := NewLocalStore(filepath.Join(t.TempDir(), "missing"), 0, 0, false)
	assert.Error(t, err)
}

func TestLRUCache_Evicts(t *testing.T) {
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	c.Add("a", []byte("1"))
	c.Add("b", []byte("2"))
	_, _ = c.Get("a") // a is now most recent
	c.Add("c", []byte("3"))

	assert.True(t, c.Has("a"))
	assert.False(t, c.Has("b"))
	assert.True(t, c.Has("c"))
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestIsHash(t *testing.T) {
	assert.True(t, IsHash(Hash([]byte("x"))))
	assert.False(t, IsHash(""))
	assert.False(t, IsHash("contentMap.json"))
	upper := []byte(Hash([]byte("x")))
	for i := range upper {
		if upper[i] >= 'a' && upper[i] <= 'f' {
			upper[i] -= 'a' - 'A'
		}
	}
	assert.False(t, IsHash(string(upper)))
}

func TestLocalStore_DirectoryIsNotABlob(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, false)

	data := []byte("shadowed")
	require.NoError(t, os.Mkdir(s.Path(Hash(data)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(Hash(data)), "keep"), nil, 0644))

	ok, err := s.Has(ctx, Hash(data))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Put(ctx, data)
	assert.Error(t, err)

	_, err = s.Size(ctx, Hash(data))
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalStore_Size(t *testing.T) {
	ctx := context.Background()
	data := bytes.Repeat([]byte("a very long string3 "), 100)

	for _, compress := range []bool{false, true} {
		s := newTestStore(t, 0, compress)
		hash, _, err := s.Put(ctx, data)
		require.NoError(t, err)

		size, err := s.Size(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), size)

		_, err = s.Size(ctx, Hash([]byte("missing")))
		assert.ErrorIs(t, err, ErrBlobNotFound)
	}
}

func TestLocalStore_RawFrameWithCompression(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 0, true)

	// A payload that is itself a small zstd frame is kept raw and must come
	// back unchanged.
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	frame := enc.EncodeAll([]byte("hello"), nil)
	require.NoError(t, enc.Close())
	hash, _, err := s.Put(ctx, frame)
	require.NoError(t, err)

	got, err := s.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}
