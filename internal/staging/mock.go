package staging

import (
	"context"
	"sort"
	"sync"
)

// MockClient is an in-memory implementation of the Client interface for testing.
type MockClient struct {
	mu     sync.RWMutex
	tables map[string]map[string]struct{} // database -> table names

	batchErr error
	listErr  error
	batches  [][]string
}

// NewMockClient creates a new MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		tables: make(map[string]map[string]struct{}),
	}
}

// AddTable registers a table in the given database.
func (c *MockClient) AddTable(database, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tables[database] == nil {
		c.tables[database] = make(map[string]struct{})
	}
	c.tables[database][name] = struct{}{}
}

// FailBatch makes subsequent ExecBatch calls return err.
func (c *MockClient) FailBatch(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchErr = err
}

// FailList makes subsequent ListTables calls return err.
func (c *MockClient) FailList(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErr = err
}

// Batches returns the statement batches executed so far.
func (c *MockClient) Batches() [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([][]string, len(c.batches))
	copy(out, c.batches)
	return out
}

// HasTable reports whether the table still exists in the database.
func (c *MockClient) HasTable(database, name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[database][name]
	return ok
}

func (c *MockClient) ListTables(ctx context.Context, database string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.listErr != nil {
		return nil, c.listErr
	}

	var names []string
	for name := range c.tables[database] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ExecBatch records the batch and applies DROP TABLE IF EXISTS statements
// against the in-memory table set, honoring a preceding USE statement.
func (c *MockClient) ExecBatch(ctx context.Context, statements []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.batchErr != nil {
		return &BatchError{Statements: len(statements), Err: c.batchErr}
	}

	batch := make([]string, len(statements))
	copy(batch, statements)
	c.batches = append(c.batches, batch)

	database := ""
	for _, stmt := range statements {
		if db, table, ok := parseMockStatement(stmt); ok {
			if db != "" {
				database = db
				continue
			}
			if c.tables[database] != nil {
				delete(c.tables[database], table)
			}
		}
	}
	return nil
}
