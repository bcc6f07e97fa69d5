package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/strata-io/strata/internal/metadata"
)

func TestFilesystemPass_FinalJobDirsAreCandidates(t *testing.T) {
	f := newFixture(t, testOptions())

	// strata-abc belongs to a finished job, strata-def to a running one.
	f.meta.AddJob(metadata.Job{ID: "abc", State: metadata.JobSucceeded})
	f.meta.AddJob(metadata.Job{ID: "def", State: metadata.JobRunning})
	f.files.AddDir("/strata/strata-abc")
	f.files.AddDir("/strata/strata-def")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"/strata/strata-abc"}
	if !equalStrings(rep.Filesystem.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Filesystem.Candidates, want)
	}
}

func TestFilesystemPass_ResumableJobDirsAreKept(t *testing.T) {
	f := newFixture(t, testOptions())

	// ERROR and STOPPED jobs can be resumed; their dirs must survive.
	f.meta.AddJob(metadata.Job{ID: "err1", State: metadata.JobError})
	f.meta.AddJob(metadata.Job{ID: "stop1", State: metadata.JobStopped})
	f.meta.AddJob(metadata.Job{ID: "disc1", State: metadata.JobDiscarded})
	f.files.AddDir("/strata/strata-err1")
	f.files.AddDir("/strata/strata-stop1")
	f.files.AddDir("/strata/strata-disc1")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"/strata/strata-disc1"}
	if !equalStrings(rep.Filesystem.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Filesystem.Candidates, want)
	}
}

func TestFilesystemPass_SegmentLastBuildDirKeptPastJobCompletion(t *testing.T) {
	f := newFixture(t, testOptions())

	// The job is final, but a current segment still records it as its
	// last build. Its dir survives for as long as the segment does.
	f.meta.AddJob(metadata.Job{ID: "build-7", State: metadata.JobSucceeded})
	f.meta.AddCube(metadata.CubeInstance{
		Name:   "sales_cube",
		Status: "READY",
		Segments: []metadata.CubeSegment{
			{Name: "seg1", StorageLocationIdentifier: "STRATA_T1", LastBuildJobID: "build-7"},
		},
	})
	f.files.AddDir("/strata/strata-build-7")
	f.files.AddDir("/strata/strata-build-6")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"/strata/strata-build-6"}
	if !equalStrings(rep.Filesystem.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Filesystem.Candidates, want)
	}
}

func TestFilesystemPass_IgnoresForeignDirs(t *testing.T) {
	f := newFixture(t, testOptions())

	// Only children carrying the job dir prefix are in scope; anything
	// else under the working root belongs to someone else.
	f.files.AddDir("/strata/strata-dead")
	f.files.AddDir("/strata/shared-exports")
	f.files.AddFile("/strata/README")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"/strata/strata-dead"}
	if !equalStrings(rep.Filesystem.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Filesystem.Candidates, want)
	}
}

func TestFilesystemPass_DeleteRemovesDirRecursively(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeDelete
	f := newFixture(t, opts)

	f.meta.AddJob(metadata.Job{ID: "live", State: metadata.JobRunning})
	f.files.AddFile("/strata/strata-dead/fact/part-00000")
	f.files.AddFile("/strata/strata-dead/fact/part-00001")
	f.files.AddFile("/strata/strata-live/fact/part-00000")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !equalStrings(rep.Filesystem.Deleted, []string{"/strata/strata-dead"}) {
		t.Errorf("deleted = %v, want [/strata/strata-dead]", rep.Filesystem.Deleted)
	}
	if f.files.HasPath("/strata/strata-dead") {
		t.Error("dead job dir still present after delete run")
	}
	if !f.files.HasPath("/strata/strata-live/fact/part-00000") {
		t.Error("live job dir contents were removed")
	}
}

func TestFilesystemPass_DeleteFailureIsolatedPerPath(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeDelete
	f := newFixture(t, opts)

	f.files.AddDir("/strata/strata-bad")
	f.files.AddDir("/strata/strata-good")
	f.files.FailDelete("/strata/strata-bad", errors.New("lease conflict"))

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !equalStrings(rep.Filesystem.Failed, []string{"/strata/strata-bad"}) {
		t.Errorf("failed = %v, want [/strata/strata-bad]", rep.Filesystem.Failed)
	}
	if !equalStrings(rep.Filesystem.Deleted, []string{"/strata/strata-good"}) {
		t.Errorf("deleted = %v, want [/strata/strata-good]", rep.Filesystem.Deleted)
	}
}

func TestFilesystemPass_ListFailureDegradesPassOnly(t *testing.T) {
	f := newFixture(t, testOptions())

	f.files.FailList(errors.New("namenode unreachable"))
	f.col.AddTable("STRATA_ORPHAN", "prod-a")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !rep.Filesystem.Degraded {
		t.Error("expected filesystem pass to be degraded")
	}
	if !equalStrings(rep.Columnar.Candidates, []string{"STRATA_ORPHAN"}) {
		t.Errorf("columnar candidates = %v, want [STRATA_ORPHAN]", rep.Columnar.Candidates)
	}
}

func TestFilesystemPass_EmptyWorkingRoot(t *testing.T) {
	f := newFixture(t, testOptions())

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rep.Filesystem.Candidates) != 0 {
		t.Errorf("empty root produced candidates: %v", rep.Filesystem.Candidates)
	}
	if rep.Filesystem.Degraded {
		t.Error("empty root must not degrade the pass")
	}
}
