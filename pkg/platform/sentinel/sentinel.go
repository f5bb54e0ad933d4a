package sentinel

import "errors"

// Sentinel errors for store facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors.
//
//   - ErrNotFound: record does not exist
//   - ErrConflict: write collides with an immutable record (declared positions)
//   - ErrInvalidState: record in wrong state for the requested write
//   - ErrUnavailable: backing store temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
