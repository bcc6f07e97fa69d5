package metadata

import (
	"context"
	"sync"
)

// MockStore is an in-memory implementation of the Store interface for testing.
type MockStore struct {
	mu    sync.RWMutex
	jobs  []Job
	cubes []CubeInstance

	// listJobsErr and listCubesErr, when set, are returned by the
	// corresponding call to simulate metadata store failures.
	listJobsErr  error
	listCubesErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// AddJob adds a job to the store.
func (s *MockStore) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// AddCube adds a cube instance to the store.
func (s *MockStore) AddCube(cube CubeInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cubes = append(s.cubes, cube)
}

// FailListJobs makes subsequent ListJobs calls return err.
func (s *MockStore) FailListJobs(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listJobsErr = err
}

// FailListCubes makes subsequent ListCubes calls return err.
func (s *MockStore) FailListCubes(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCubesErr = err
}

func (s *MockStore) ListJobs(ctx context.Context) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listJobsErr != nil {
		return nil, s.listJobsErr
	}
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	return out, nil
}

func (s *MockStore) ListCubes(ctx context.Context) ([]CubeInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listCubesErr != nil {
		return nil, s.listCubesErr
	}
	out := make([]CubeInstance, len(s.cubes))
	copy(out, s.cubes)
	return out, nil
}
