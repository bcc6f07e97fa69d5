package filestore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MockStore is an in-memory implementation of the Store interface for testing.
// It stores flat slash-separated file paths; directories exist implicitly.
type MockStore struct {
	mu    sync.RWMutex
	files map[string]struct{}

	deleteErr map[string]error
	listErr   error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		files:     make(map[string]struct{}),
		deleteErr: make(map[string]error),
	}
}

// AddFile records a file at the given path.
func (s *MockStore) AddFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[strings.TrimSuffix(path, "/")] = struct{}{}
}

// AddDir records a directory by adding a marker child under it.
func (s *MockStore) AddDir(path string) {
	s.AddFile(strings.TrimSuffix(path, "/") + "/.dir")
}

// FailDelete makes Delete on the given path return err.
func (s *MockStore) FailDelete(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr[strings.TrimSuffix(path, "/")] = err
}

// FailList makes subsequent ListChildren calls return err.
func (s *MockStore) FailList(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// HasPath reports whether the path still exists as a file or directory.
func (s *MockStore) HasPath(path string) bool {
	ok, _ := s.Exists(context.Background(), path)
	return ok
}

func (s *MockStore) ListChildren(ctx context.Context, dir string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	prefix := strings.TrimSuffix(dir, "/") + "/"
	seen := make(map[string]struct{})
	for f := range s.files {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		rest := strings.TrimPrefix(f, prefix)
		name, _, _ := strings.Cut(rest, "/")
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		if name == ".dir" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MockStore) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path = strings.TrimSuffix(path, "/")
	if _, ok := s.files[path]; ok {
		return true, nil
	}
	prefix := path + "/"
	for f := range s.files {
		if strings.HasPrefix(f, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MockStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path = strings.TrimSuffix(path, "/")
	if err, ok := s.deleteErr[path]; ok {
		return err
	}

	delete(s.files, path)
	prefix := path + "/"
	for f := range s.files {
		if strings.HasPrefix(f, prefix) {
			delete(s.files, f)
		}
	}
	return nil
}
