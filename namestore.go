package namestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aweris/namestore/internal/atomicfile"
	"github.com/aweris/namestore/internal/store"
)

// IndexFile is the name of the persisted Name Index inside the store directory.
const IndexFile = "contentMap.json"

// Store maps names to content-addressed blobs kept in a single directory.
//
// A Store assumes it is the only writer of its directory. Two Stores (in one
// process or several) sharing a directory overwrite each other's index.
type Store struct {
	dir         string
	idx         *index
	blobs       *store.LocalStore
	log         *slog.Logger
	concurrency int

	mu sync.Mutex // serialises index persistence
}

// Entry is one name in the index.
type Entry struct {
	Name   string
	Digest Digest
	Size   int64 // payload bytes on disk; -1 if the blob is missing
}

// Stats summarises a Store.
type Stats struct {
	Entries int
	Blobs   int
	Bytes   int64
}

// Open creates or opens the store rooted at dir. The directory itself is
// created when missing, but not its parents.
//
// A missing or unparseable contentMap.json yields an empty index; Open never
// fails because of the index file.
func Open(dir string, opts ...Option) (*Store, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if err := os.Mkdir(dir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	blobs, err := store.NewLocalStore(dir, options.CacheSize, options.CompressionLevel, options.Compression)
	if err != nil {
		return nil, err
	}

	s := &Store{
		dir:         dir,
		idx:         &index{},
		blobs:       blobs,
		log:         options.Logger.With("dir", dir),
		concurrency: options.Concurrency,
	}
	s.loadIndex()

	return s, nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, IndexFile)
}

func (s *Store) loadIndex() {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no index, starting empty")
		} else {
			s.log.Warn("unreadable index, starting empty", "error", err)
		}
		return
	}

	skipped, err := s.idx.load(data)
	if err != nil {
		s.idx = &index{}
		s.log.Warn("unparseable index, starting empty", "error", err)
		return
	}
	if len(skipped) > 0 {
		s.log.Warn("index entries with invalid digests skipped", "names", skipped)
	}
	s.log.Debug("index loaded", "entries", s.idx.Len())
}

// Store saves content under name. Identical content is kept once on disk;
// a name that already exists is re-pointed to the new content. Names must
// be non-empty valid UTF-8.
//
// The blob is committed before the index, so the persisted index never
// names a missing blob.
func (s *Store) Store(name, content string) error {
	if err := checkName(name); err != nil {
		return err
	}

	hash, created, err := s.blobs.Put(context.Background(), []byte(content))
	if err != nil {
		return fmt.Errorf("store %q: %w", name, err)
	}
	s.log.Debug("blob", "digest", Digest(hash).Short(), "created", created, "size", len(content))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.idx.Set(name, Digest(hash))
	if err := s.persist(); err != nil {
		return fmt.Errorf("store %q: %w", name, err)
	}
	return nil
}

// Get returns the content stored under name. It returns an error wrapping
// ErrNotFound when name was never stored.
func (s *Store) Get(name string) (string, error) {
	digest, ok := s.idx.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	data, err := s.blobs.Get(context.Background(), string(digest))
	if err != nil {
		return "", fmt.Errorf("get %q: %w", name, err)
	}
	return string(data), nil
}

// Lookup returns the digest name points to.
func (s *Store) Lookup(name string) (Digest, bool) {
	return s.idx.Get(name)
}

// Has reports whether name is in the index.
func (s *Store) Has(name string) bool {
	_, ok := s.idx.Get(name)
	return ok
}

// Len returns the number of names.
func (s *Store) Len() int { return s.idx.Len() }

// Root digests the whole index. Two stores with the same names pointing at
// the same content have the same Root. It is empty for an empty store.
func (s *Store) Root() Digest { return s.idx.Hash() }

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Dirty reports whether the in-memory index has changes that failed to persist.
func (s *Store) Dirty() bool { return s.idx.dirty.Load() }

// List returns the entries whose name starts with prefix, sorted by name.
func (s *Store) List(prefix string) []Entry {
	var entries []Entry
	for _, name := range s.idx.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		digest, ok := s.idx.Get(name)
		if !ok {
			continue
		}
		size := int64(-1)
		if info, err := os.Stat(s.blobs.Path(string(digest))); err == nil {
			size = info.Size()
		}
		entries = append(entries, Entry{Name: name, Digest: digest, Size: size})
	}
	return entries
}

// Stats counts names, blobs and blob bytes on disk.
func (s *Store) Stats() (Stats, error) {
	blobs, err := s.blobs.List(context.Background())
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Entries: s.idx.Len(), Blobs: len(blobs)}
	for _, b := range blobs {
		st.Bytes += b.Size
	}
	return st, nil
}

// Sync persists the index if an earlier write of it failed.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.idx.dirty.Load() {
		return nil
	}
	return s.persist()
}

// persist rewrites the whole index file. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := s.idx.serialize()
	if err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	if err := atomicfile.Write(s.indexPath(), data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	s.idx.dirty.Store(false)
	s.log.Debug("index persisted", "entries", s.idx.Len())
	return nil
}
