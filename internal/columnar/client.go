// Package columnar defines the admin client for the fast-query columnar
// store that backs cube segments. The reconciler only needs listing and
// retirement operations; table creation happens in the build engine.
package columnar

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by Client implementations.
var (
	// ErrTableNotFound is returned when the named table does not exist.
	ErrTableNotFound = errors.New("columnar: table not found")
)

// OpError wraps an error with the table name for context.
type OpError struct {
	Op    string // Operation that failed (e.g., "Disable", "Drop")
	Table string // Table name
	Err   error  // Underlying error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("columnar: %s %q: %v", e.Op, e.Table, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Table describes a physical columnar-store table.
type Table struct {
	// Name is the physical table name.
	Name string

	// OwnerTag identifies the deployment that created the table. Several
	// deployments may share one physical cluster; the reconciler must only
	// touch tables tagged with its own identity.
	OwnerTag string
}

// Client is the admin interface of the columnar store.
//
// All mutating operations accept a context; a stuck Disable or Drop must
// honor cancellation so a per-item deadline can abandon it.
type Client interface {
	// ListTables returns all tables whose name starts with prefix,
	// together with their owner tags.
	ListTables(ctx context.Context, prefix string) ([]Table, error)

	// TableExists reports whether the named table exists.
	TableExists(ctx context.Context, name string) (bool, error)

	// IsEnabled reports whether the named table is enabled for serving.
	IsEnabled(ctx context.Context, name string) (bool, error)

	// Disable takes the named table out of serving.
	Disable(ctx context.Context, name string) error

	// Drop removes the named table. The table must be disabled first.
	Drop(ctx context.Context, name string) error
}
