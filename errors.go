package namestore

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrNotFound  = errors.New("namestore: not found")
	ErrEmptyName = errors.New("namestore: empty name")

	// ErrInvalidName is returned for names that are not valid UTF-8. The
	// JSON index cannot hold them without rewriting them.
	ErrInvalidName = errors.New("namestore: name is not valid UTF-8")
)

func checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
