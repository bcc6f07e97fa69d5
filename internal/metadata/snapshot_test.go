package metadata

import (
	"context"
	"errors"
	"testing"
)

func TestJobStateIsFinal(t *testing.T) {
	tests := []struct {
		state JobState
		final bool
	}{
		{JobPending, false},
		{JobReady, false},
		{JobRunning, false},
		{JobError, false},
		{JobStopped, false},
		{JobSucceeded, true},
		{JobDiscarded, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.state), func(t *testing.T) {
			if got := tc.state.IsFinal(); got != tc.final {
				t.Errorf("IsFinal(%s) = %v, want %v", tc.state, got, tc.final)
			}
		})
	}
}

func TestJobSegmentID(t *testing.T) {
	j := Job{ID: "j1", Params: map[string]string{SegmentIDParam: "seg-1"}}
	if got := j.SegmentID(); got != "seg-1" {
		t.Errorf("SegmentID() = %q, want seg-1", got)
	}

	noParams := Job{ID: "j2"}
	if got := noParams.SegmentID(); got != "" {
		t.Errorf("SegmentID() on job without params = %q, want empty", got)
	}
}

func TestTakeSnapshot(t *testing.T) {
	store := NewMockStore()
	store.AddJob(Job{ID: "j1", State: JobRunning})
	store.AddCube(CubeInstance{Name: "c1", Status: "READY"})

	snap, err := TakeSnapshot(context.Background(), store)
	if err != nil {
		t.Fatalf("TakeSnapshot failed: %v", err)
	}
	if len(snap.Jobs) != 1 || len(snap.Cubes) != 1 {
		t.Errorf("snapshot = %d jobs, %d cubes; want 1 and 1", len(snap.Jobs), len(snap.Cubes))
	}
}

func TestTakeSnapshotPropagatesJobError(t *testing.T) {
	store := NewMockStore()
	cause := errors.New("connection refused")
	store.FailListJobs(cause)

	_, err := TakeSnapshot(context.Background(), store)
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped job listing error, got %v", err)
	}
}

func TestTakeSnapshotPropagatesCubeError(t *testing.T) {
	store := NewMockStore()
	cause := errors.New("connection refused")
	store.FailListCubes(cause)

	_, err := TakeSnapshot(context.Background(), store)
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cube listing error, got %v", err)
	}
}

func TestSnapshotNonFinalJobs(t *testing.T) {
	snap := &Snapshot{Jobs: []Job{
		{ID: "running", State: JobRunning},
		{ID: "done", State: JobSucceeded},
		{ID: "stopped", State: JobStopped},
		{ID: "discarded", State: JobDiscarded},
	}}

	got := snap.NonFinalJobs()
	if len(got) != 2 {
		t.Fatalf("NonFinalJobs() returned %d jobs, want 2", len(got))
	}
	if got[0].ID != "running" || got[1].ID != "stopped" {
		t.Errorf("NonFinalJobs() = [%s, %s], want [running, stopped]", got[0].ID, got[1].ID)
	}
}

func TestSnapshotSegmentToJob(t *testing.T) {
	snap := &Snapshot{Jobs: []Job{
		{ID: "j1", State: JobSucceeded, Params: map[string]string{SegmentIDParam: "seg-1"}},
		{ID: "j2", State: JobRunning, Params: map[string]string{SegmentIDParam: "seg-2"}},
		{ID: "j3", State: JobRunning}, // not a build job
	}}

	m := snap.SegmentToJob()
	if len(m) != 2 {
		t.Fatalf("SegmentToJob() has %d entries, want 2", len(m))
	}
	if m["seg-1"] != "j1" || m["seg-2"] != "j2" {
		t.Errorf("SegmentToJob() = %v", m)
	}
}

func TestSnapshotLiveSegmentIDs(t *testing.T) {
	snap := &Snapshot{Jobs: []Job{
		{ID: "j1", State: JobSucceeded, Params: map[string]string{SegmentIDParam: "seg-done"}},
		{ID: "j2", State: JobRunning, Params: map[string]string{SegmentIDParam: "seg-live"}},
		{ID: "j3", State: JobError, Params: map[string]string{SegmentIDParam: "seg-retry"}},
	}}

	live := snap.LiveSegmentIDs()
	if _, ok := live["seg-done"]; ok {
		t.Error("segment of a final job must not be live")
	}
	if _, ok := live["seg-live"]; !ok {
		t.Error("segment of a running job must be live")
	}
	if _, ok := live["seg-retry"]; !ok {
		t.Error("segment of a resumable errored job must be live")
	}
}
