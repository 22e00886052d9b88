package namestore

import "github.com/aweris/namestore/internal/store"

// Digest is the lowercase hex SHA-256 of a payload. It is also the blob's
// file name inside the store directory.
type Digest string

// HashContent returns the Digest of content.
func HashContent(content string) Digest {
	return Digest(store.Hash([]byte(content)))
}

// Valid reports whether d is a well-formed digest.
func (d Digest) Valid() bool { return store.IsHash(string(d)) }

func (d Digest) String() string { return string(d) }

// Short returns the first 12 characters, for display.
func (d Digest) Short() string {
	if len(d) > 12 {
		return string(d[:12])
	}
	return string(d)
}
