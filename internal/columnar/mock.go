package columnar

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MockClient is an in-memory implementation of the Client interface for testing.
type MockClient struct {
	mu     sync.RWMutex
	tables map[string]*mockTable

	// blockDisable names tables whose Disable call hangs until the
	// context is cancelled. Used to exercise the per-item deadline.
	blockDisable map[string]struct{}

	dropErr map[string]error
	listErr error
}

type mockTable struct {
	ownerTag string
	enabled  bool
}

// NewMockClient creates a new MockClient.
func NewMockClient() *MockClient {
	return &MockClient{
		tables:       make(map[string]*mockTable),
		blockDisable: make(map[string]struct{}),
		dropErr:      make(map[string]error),
	}
}

// AddTable registers a table with the given owner tag, enabled by default.
func (c *MockClient) AddTable(name, ownerTag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[name] = &mockTable{ownerTag: ownerTag, enabled: true}
}

// BlockDisable makes Disable on the named table hang until ctx is done.
func (c *MockClient) BlockDisable(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockDisable[name] = struct{}{}
}

// FailDrop makes Drop on the named table return err.
func (c *MockClient) FailDrop(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropErr[name] = err
}

// FailList makes subsequent ListTables calls return err.
func (c *MockClient) FailList(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErr = err
}

// HasTable reports whether the named table is still present.
func (c *MockClient) HasTable(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[name]
	return ok
}

func (c *MockClient) ListTables(ctx context.Context, prefix string) ([]Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.listErr != nil {
		return nil, c.listErr
	}

	var out []Table
	for name, t := range c.tables {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Table{Name: name, OwnerTag: t.ownerTag})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *MockClient) TableExists(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[name]
	return ok, nil
}

func (c *MockClient) IsEnabled(ctx context.Context, name string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return false, ErrTableNotFound
	}
	return t.enabled, nil
}

func (c *MockClient) Disable(ctx context.Context, name string) error {
	c.mu.RLock()
	_, blocked := c.blockDisable[name]
	c.mu.RUnlock()

	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[name]
	if !ok {
		return ErrTableNotFound
	}
	t.enabled = false
	return nil
}

func (c *MockClient) Drop(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.dropErr[name]; ok {
		return err
	}
	if _, ok := c.tables[name]; !ok {
		return ErrTableNotFound
	}
	delete(c.tables, name)
	return nil
}
