package store

import "errors"

var (
	// ErrStorageNotReady indicates the underlying database could not be
	// opened or reached.
	ErrStorageNotReady = errors.New("store: storage not ready")

	// ErrNotFound indicates no row matched the requested identifier.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidCursor indicates a pagination token that this store did not
	// produce or that has been corrupted.
	ErrInvalidCursor = errors.New("store: invalid cursor")
)
