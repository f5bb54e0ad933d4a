package storage

import (
	"errors"

	"polis/pkg/platform/sentinel"
)

// ErrNotFound and ErrConflict alias the platform sentinels so callers can
// match with either package.
var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
