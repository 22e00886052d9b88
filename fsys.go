package namestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aweris/namestore/internal/store"
)

// FS returns a read-only io/fs view of the store. Names without a slash
// that are valid fs paths are regular files holding their content, listed
// in the root directory ".". Names containing a slash are not part of the
// view.
func (s *Store) FS() fs.FS { return storeFS{s: s} }

type storeFS struct{ s *Store }

var (
	_ fs.ReadFileFS = storeFS{}
	_ fs.StatFS     = storeFS{}
	_ fs.ReadDirFS  = storeFS{}
)

func (f storeFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		entries, err := f.ReadDir(".")
		if err != nil {
			return nil, err
		}
		return &dirFile{node: f.rootNode(), entries: entries}, nil
	}

	n, err := f.stat("open", name)
	if err != nil {
		return nil, err
	}
	content, err := f.s.Get(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &file{node: n, content: []byte(content)}, nil
}

func (f storeFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	if _, err := f.stat("readfile", name); err != nil {
		return nil, err
	}
	content, err := f.s.Get(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return []byte(content), nil
}

func (f storeFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return f.rootNode(), nil
	}
	n, err := f.stat("stat", name)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ReadDir lists the root. Names whose blob is missing are left out.
func (f storeFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry
	for _, n := range f.s.idx.Names() {
		if !visible(n) {
			continue
		}
		info, err := f.stat("readdir", n)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				f.s.log.Debug("fs: skipping name with missing blob", "name", n)
				continue
			}
			return nil, err
		}
		entries = append(entries, info)
	}
	return entries, nil
}

func visible(name string) bool {
	return name != "." && !strings.Contains(name, "/") && fs.ValidPath(name)
}

func (f storeFS) rootNode() *node {
	n := &node{name: ".", mode: fs.ModeDir | 0555}
	if info, err := os.Stat(f.s.dir); err == nil {
		n.modTime = info.ModTime()
	}
	return n
}

// stat builds the file node for name from its blob file without reading
// the payload unless the store is compressed.
func (f storeFS) stat(op, name string) (*node, error) {
	digest, ok := f.s.idx.Get(name)
	if !ok || !visible(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}

	size, err := f.s.blobs.Size(context.Background(), string(digest))
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			err = fs.ErrNotExist
		}
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	n := &node{name: name, mode: 0444, size: size}
	if info, err := os.Stat(f.s.blobs.Path(string(digest))); err == nil {
		n.modTime = info.ModTime()
	}
	return n, nil
}

// node implements fs.FileInfo and fs.DirEntry.
type node struct {
	name    string
	mode    fs.FileMode
	size    int64
	modTime time.Time // of the blob file
}

var (
	_ fs.FileInfo = (*node)(nil)
	_ fs.DirEntry = (*node)(nil)
)

func (n *node) Name() string               { return n.name }
func (n *node) Size() int64                { return n.size }
func (n *node) Mode() fs.FileMode          { return n.mode }
func (n *node) ModTime() time.Time         { return n.modTime }
func (n *node) IsDir() bool                { return n.mode.IsDir() }
func (n *node) Sys() any                   { return nil }
func (n *node) Type() fs.FileMode          { return n.mode.Type() }
func (n *node) Info() (fs.FileInfo, error) { return n, nil }

type file struct {
	node    *node
	content []byte
	offset  int64
	closed  bool
}

func (f *file) Read(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	if f.offset >= int64(len(f.content)) {
		return 0, io.EOF
	}
	n := copy(p, f.content[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *file) Stat() (fs.FileInfo, error) { return f.node, nil }

func (f *file) Close() error {
	if f.closed {
		return fs.ErrClosed
	}
	f.closed = true
	return nil
}

type dirFile struct {
	node    *node
	entries []fs.DirEntry
	offset  int
}

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.node.name, Err: fs.ErrInvalid}
}

func (d *dirFile) Stat() (fs.FileInfo, error) { return d.node, nil }
func (d *dirFile) Close() error               { return nil }

func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
