// Package backend defines the pluggable persistence contract for store
// snapshots and provides file and in-memory implementations.
//
// A backend moves one opaque blob: the manager serializes the store with
// the binary codec, hands the bytes to Commit, and rebuilds the store
// from the bytes Load returns. Dirty tracking and auto-commit policy
// live in the manager, not here.
package backend

import (
	"errors"
)

// Backend errors.
var (
	// ErrNotFound is returned by Load when no snapshot has been committed.
	ErrNotFound = errors.New("backend: no snapshot found")
	// ErrReadFailed wraps medium-level load failures.
	ErrReadFailed = errors.New("backend: read failed")
	// ErrWriteFailed wraps medium-level commit failures.
	ErrWriteFailed = errors.New("backend: write failed")
)

// Backend is the injected persistence strategy. Commit and Load may
// block for as long as the external medium needs; the core treats their
// latency as opaque.
type Backend interface {
	// Commit durably stores the snapshot, replacing any previous one.
	Commit(data []byte) error

	// Load returns the last committed snapshot, or ErrNotFound.
	Load() ([]byte, error)
}
