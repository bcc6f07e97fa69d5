// Package staging defines the client for the staging database where build
// jobs materialize intermediate flat tables. The reconciler lists table
// names and executes batched DROP statements; it never reads table data.
package staging

import (
	"context"
	"fmt"
)

// BatchError wraps a failure of a batched statement execution. The
// reconciler treats it as degrading the run: the drop batch is abandoned
// and the dependent external-path cleanup is skipped.
type BatchError struct {
	Statements int // number of statements in the failed batch
	Err        error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("staging: batch of %d statements failed: %v", e.Statements, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Client is the admin interface of the staging database.
type Client interface {
	// ListTables returns the names of all tables in the given database.
	ListTables(ctx context.Context, database string) ([]string, error)

	// ExecBatch executes the given statements as one batch, in order.
	// A failure anywhere surfaces as a *BatchError.
	ExecBatch(ctx context.Context, statements []string) error
}
