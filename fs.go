package namestore

import (
	"context"
	"io/fs"
)

// NameStore is the behaviour of a Store, for callers that want to accept
// something other than the concrete type (tests, wrappers).
type NameStore interface {
	Store(name, content string) error
	StoreBatch(ctx context.Context, entries map[string]string) error
	Get(name string) (string, error)
	Lookup(name string) (Digest, bool)
	Has(name string) bool
	Len() int
	List(prefix string) []Entry
	Root() Digest
	Stats() (Stats, error)
	Sync() error
	FS() fs.FS
}

var _ NameStore = (*Store)(nil)
