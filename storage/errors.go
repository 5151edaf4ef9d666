package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a debate record is not found.
	ErrNotFound = errors.New("debate not found")
)
