// Package filestore defines the Store interface for the distributed
// working filesystem that holds job output directories.
//
// Paths are slash-separated and rooted at the configured working root.
// The reconciler only lists, probes and deletes; it never writes.
package filestore

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by Store implementations.
var (
	// ErrNotFound is returned when the requested path does not exist.
	ErrNotFound = errors.New("filestore: path not found")
)

// PathError wraps an error with the path for context.
type PathError struct {
	Op   string // Operation that failed (e.g., "ListChildren", "Delete")
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("filestore: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Store is the listing and deletion interface over the working filesystem.
type Store interface {
	// ListChildren returns the names (not full paths) of the immediate
	// children of dir. A missing dir yields an empty list, not an error.
	ListChildren(ctx context.Context, dir string) ([]string, error)

	// Exists reports whether path exists, as a file or a directory.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path recursively. Deleting an absent path is a no-op.
	Delete(ctx context.Context, path string) error
}
