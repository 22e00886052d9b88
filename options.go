package namestore

import (
	"io"
	"log/slog"
)

// DefaultConcurrency bounds parallel blob writes in StoreBatch.
const DefaultConcurrency = 4

// Options configures a Store.
type Options struct {
	Logger           *slog.Logger
	CacheSize        int
	Compression      bool
	CompressionLevel int
	Concurrency      int
}

// Option is a functional option for configuring Open.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Concurrency: DefaultConcurrency,
	}
}

// WithLogger sets the logger. Nil keeps the default, which discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithCacheSize keeps up to n recently read blobs in memory. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.CacheSize = n
		}
	}
}

// WithCompression stores blobs of 128 bytes or more as zstd frames.
// Level 1 is fastest, 3 compresses best. A store written with compression
// must be reopened with it.
func WithCompression(level int) Option {
	return func(o *Options) {
		o.Compression = true
		o.CompressionLevel = level
	}
}

// WithConcurrency sets the number of parallel blob writes for StoreBatch.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}
