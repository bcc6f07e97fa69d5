package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strata-io/strata/internal/metadata"
)

func TestColumnarPass_ExcludesSegmentBackedTables(t *testing.T) {
	f := newFixture(t, testOptions())

	// One segment backs STRATA_T1; STRATA_T2 has no owner in metadata.
	f.meta.AddCube(metadata.CubeInstance{
		Name:   "sales_cube",
		Status: "READY",
		Segments: []metadata.CubeSegment{
			{Name: "20260101000000_20260201000000", StorageLocationIdentifier: "STRATA_T1"},
		},
	})
	f.col.AddTable("STRATA_T1", "prod-a")
	f.col.AddTable("STRATA_T2", "prod-a")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"STRATA_T2"}
	if !equalStrings(rep.Columnar.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Columnar.Candidates, want)
	}
}

func TestColumnarPass_DisabledCubeStillProtectsTables(t *testing.T) {
	f := newFixture(t, testOptions())

	// Cube status never matters for columnar liveness: a disabled cube
	// can be re-enabled without a rebuild, so its tables stay.
	f.meta.AddCube(metadata.CubeInstance{
		Name:   "archived_cube",
		Status: "DISABLED",
		Segments: []metadata.CubeSegment{
			{Name: "seg1", StorageLocationIdentifier: "STRATA_T1"},
		},
	})
	f.col.AddTable("STRATA_T1", "prod-a")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rep.Columnar.Candidates) != 0 {
		t.Errorf("disabled cube's table became a candidate: %v", rep.Columnar.Candidates)
	}
}

func TestColumnarPass_SkipsForeignDeploymentTables(t *testing.T) {
	f := newFixture(t, testOptions())

	f.col.AddTable("STRATA_OURS", "prod-a")
	f.col.AddTable("STRATA_THEIRS", "prod-b")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"STRATA_OURS"}
	if !equalStrings(rep.Columnar.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Columnar.Candidates, want)
	}
}

func TestColumnarPass_OwnerTagComparedCaseInsensitively(t *testing.T) {
	f := newFixture(t, testOptions())

	f.col.AddTable("STRATA_UPPER", "PROD-A")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"STRATA_UPPER"}
	if !equalStrings(rep.Columnar.Candidates, want) {
		t.Errorf("candidates = %v, want %v", rep.Columnar.Candidates, want)
	}
}

func TestColumnarPass_DeleteDisablesThenDrops(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeDelete
	f := newFixture(t, opts)

	f.col.AddTable("STRATA_ORPHAN", "prod-a")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !equalStrings(rep.Columnar.Deleted, []string{"STRATA_ORPHAN"}) {
		t.Errorf("deleted = %v, want [STRATA_ORPHAN]", rep.Columnar.Deleted)
	}
	if f.col.HasTable("STRATA_ORPHAN") {
		t.Error("orphan table still present after delete run")
	}
}

func TestColumnarPass_DropFailureIsolatedPerTable(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeDelete
	f := newFixture(t, opts)

	f.col.AddTable("STRATA_A", "prod-a")
	f.col.AddTable("STRATA_B", "prod-a")
	f.col.FailDrop("STRATA_A", errors.New("region server down"))

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !equalStrings(rep.Columnar.Failed, []string{"STRATA_A"}) {
		t.Errorf("failed = %v, want [STRATA_A]", rep.Columnar.Failed)
	}
	if !equalStrings(rep.Columnar.Deleted, []string{"STRATA_B"}) {
		t.Errorf("deleted = %v, want [STRATA_B]", rep.Columnar.Deleted)
	}
}

func TestColumnarPass_HungDeletionAbandonedOnDeadline(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeDelete
	opts.DeleteTimeout = 50 * time.Millisecond
	f := newFixture(t, opts)

	f.col.AddTable("STRATA_HUNG", "prod-a")
	f.col.AddTable("STRATA_OK", "prod-a")
	f.col.BlockDisable("STRATA_HUNG")

	start := time.Now()
	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("run blocked on hung deletion for %v", elapsed)
	}

	if !equalStrings(rep.Columnar.TimedOut, []string{"STRATA_HUNG"}) {
		t.Errorf("timedOut = %v, want [STRATA_HUNG]", rep.Columnar.TimedOut)
	}
	if !equalStrings(rep.Columnar.Deleted, []string{"STRATA_OK"}) {
		t.Errorf("deleted = %v, want [STRATA_OK] (run must continue past the timeout)", rep.Columnar.Deleted)
	}
	if !f.col.HasTable("STRATA_HUNG") {
		t.Error("abandoned table should survive for the next run to retry")
	}
}

func TestColumnarPass_ListFailureDegradesPassOnly(t *testing.T) {
	f := newFixture(t, testOptions())

	f.col.FailList(errors.New("admin endpoint unreachable"))
	f.files.AddDir("/strata/strata-dead")

	rep, err := f.rec.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !rep.Columnar.Degraded {
		t.Error("expected columnar pass to be degraded")
	}
	if len(rep.Columnar.Candidates) != 0 {
		t.Errorf("degraded pass produced candidates: %v", rep.Columnar.Candidates)
	}
	// The other passes still ran.
	if !equalStrings(rep.Filesystem.Candidates, []string{"/strata/strata-dead"}) {
		t.Errorf("filesystem candidates = %v, want [/strata/strata-dead]", rep.Filesystem.Candidates)
	}
}

func TestColumnarPass_RunCancellationStopsDeleting(t *testing.T) {
	opts := testOptions()
	opts.Mode = ModeDelete
	f := newFixture(t, opts)

	f.col.AddTable("STRATA_A", "prod-a")
	f.col.AddTable("STRATA_B", "prod-a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := f.rec.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rep.Columnar.Deleted) != 0 {
		t.Errorf("cancelled run deleted tables: %v", rep.Columnar.Deleted)
	}
	if !f.col.HasTable("STRATA_A") || !f.col.HasTable("STRATA_B") {
		t.Error("cancelled run removed tables")
	}
}
