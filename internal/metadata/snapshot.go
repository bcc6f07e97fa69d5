package metadata

import (
	"context"
	"fmt"
)

// Store is the read-only view of the warehouse metadata service.
//
// Implementations must return the current job and cube lists without
// side effects. Any error is treated as fatal by the reconciler: a run
// must not proceed on a partial or uncertain snapshot.
type Store interface {
	// ListJobs returns all jobs with their current state and parameters.
	ListJobs(ctx context.Context) ([]Job, error)

	// ListCubes returns all cube instances with their segments.
	ListCubes(ctx context.Context) ([]CubeInstance, error)
}

// Snapshot is one consistent read of the live metadata. A reconciliation
// run takes exactly one snapshot before any listing or deletion and never
// caches it across runs.
type Snapshot struct {
	Jobs  []Job
	Cubes []CubeInstance
}

// TakeSnapshot reads the job and cube lists once.
func TakeSnapshot(ctx context.Context, store Store) (*Snapshot, error) {
	jobs, err := store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("metadata: list jobs: %w", err)
	}

	cubes, err := store.ListCubes(ctx)
	if err != nil {
		return nil, fmt.Errorf("metadata: list cubes: %w", err)
	}

	return &Snapshot{Jobs: jobs, Cubes: cubes}, nil
}

// NonFinalJobs returns the jobs still able to produce or depend on
// storage artifacts.
func (s *Snapshot) NonFinalJobs() []Job {
	var out []Job
	for _, j := range s.Jobs {
		if !j.State.IsFinal() {
			out = append(out, j)
		}
	}
	return out
}

// SegmentToJob maps each segment ID to the job that builds it, extracted
// from the segmentId parameter of every job that carries one.
func (s *Snapshot) SegmentToJob() map[string]string {
	m := make(map[string]string)
	for _, j := range s.Jobs {
		if segID := j.SegmentID(); segID != "" {
			m[segID] = j.ID
		}
	}
	return m
}

// LiveSegmentIDs returns the set of segment IDs owned by any non-final
// job. A staging table whose embedded segment ID is in this set is in use.
func (s *Snapshot) LiveSegmentIDs() map[string]struct{} {
	set := make(map[string]struct{})
	for _, j := range s.Jobs {
		if j.State.IsFinal() {
			continue
		}
		if segID := j.SegmentID(); segID != "" {
			set[segID] = struct{}{}
		}
	}
	return set
}
