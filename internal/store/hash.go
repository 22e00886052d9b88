package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLen is the length of a hex-encoded SHA-256 digest.
const HashLen = sha256.Size * 2

// Hash returns the lowercase hex SHA-256 digest of data.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// IsHash reports whether s is a lowercase hex digest as produced by Hash.
func IsHash(s string) bool {
	if len(s) != HashLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
