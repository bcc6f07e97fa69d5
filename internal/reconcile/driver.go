package reconcile

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/strata-io/strata/internal/columnar"
	"github.com/strata-io/strata/internal/filestore"
	"github.com/strata-io/strata/internal/logging"
	"github.com/strata-io/strata/internal/metadata"
	"github.com/strata-io/strata/internal/metrics"
	"github.com/strata-io/strata/internal/staging"
)

// Mode selects what a run does with its drop candidates.
type Mode int

const (
	// ModeReport enumerates and prints candidates, mutating nothing.
	ModeReport Mode = iota
	// ModeDelete enumerates and actually removes candidates.
	ModeDelete
)

func (m Mode) String() string {
	if m == ModeDelete {
		return "delete"
	}
	return "report"
}

// DefaultDeleteTimeout bounds a single columnar-table deletion.
const DefaultDeleteTimeout = 10 * time.Minute

// Options configures a reconciliation run.
type Options struct {
	// Mode selects report or delete for the whole run.
	Mode Mode

	// Force widens the staging-table drop set to every matching-prefix
	// table regardless of liveness. It has no effect on the other two
	// domains. Dangerous; requires explicit operator acknowledgement.
	Force bool

	// TablePrefix is the naming prefix of this system's columnar tables.
	TablePrefix string

	// DeploymentID is this deployment's identity. Columnar tables whose
	// owner tag differs were created by another deployment sharing the
	// physical cluster and are never touched. Compared case-insensitively.
	DeploymentID string

	// WorkingRoot is the filesystem working root holding job output dirs.
	WorkingRoot string

	// JobDirPrefix is the reserved name prefix of job output directories.
	JobDirPrefix string

	// StagingDatabase is the database holding intermediate staging tables.
	StagingDatabase string

	// StagingTablePrefix is the reserved name prefix of staging tables.
	StagingTablePrefix string

	// DeleteTimeout bounds each columnar-table deletion.
	// Zero means DefaultDeleteTimeout.
	DeleteTimeout time.Duration
}

// DomainReport aggregates the outcome of one reconciliation pass.
type DomainReport struct {
	// Candidates is the drop-candidate set, in enumeration order.
	Candidates []string

	// Deleted, Failed and TimedOut partition the candidates actually
	// attempted in delete mode. All three are empty in report mode.
	Deleted  []string
	Failed   []string
	TimedOut []string

	// Degraded marks a pass that gave up on part of its work (a failed
	// enumeration or a failed staging drop batch).
	Degraded bool
}

// Report is the aggregated outcome of one reconciliation run.
type Report struct {
	RunID string
	Mode  Mode

	Staging    DomainReport
	Filesystem DomainReport
	Columnar   DomainReport
}

// Degraded reports whether any pass gave up on part of its work.
func (r *Report) Degraded() bool {
	return r.Staging.Degraded || r.Filesystem.Degraded || r.Columnar.Degraded
}

// Reconciler drives the three reconciliation passes over one metadata
// snapshot. It holds no state across runs: every Run re-reads current
// metadata and physical listings from scratch.
type Reconciler struct {
	meta     metadata.Store
	columnar columnar.Client
	files    filestore.Store
	staging  staging.Client
	opts     Options
	logger   *logging.Logger
	metrics  *metrics.ReconcileMetrics

	// stdout receives the delimited candidate blocks in report mode.
	stdout io.Writer
}

// New creates a Reconciler.
func New(meta metadata.Store, col columnar.Client, files filestore.Store, stg staging.Client, opts Options, logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if opts.DeleteTimeout <= 0 {
		opts.DeleteTimeout = DefaultDeleteTimeout
	}
	return &Reconciler{
		meta:     meta,
		columnar: col,
		files:    files,
		staging:  stg,
		opts:     opts,
		logger:   logger,
		stdout:   os.Stdout,
	}
}

// SetMetrics attaches run metrics. Optional.
func (r *Reconciler) SetMetrics(m *metrics.ReconcileMetrics) {
	r.metrics = m
}

// SetOutput redirects report-mode candidate blocks. Used by tests.
func (r *Reconciler) SetOutput(w io.Writer) {
	r.stdout = w
}

// Run executes one reconciliation run: one metadata snapshot, then the
// staging, filesystem and columnar passes in that order. The order is a
// convenience, not a dependency: the passes are independent pipelines
// sharing only the snapshot.
//
// The only fatal error is a failed snapshot read; everything after that
// is isolated per pass or per item.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	report := &Report{
		RunID: uuid.NewString(),
		Mode:  r.opts.Mode,
	}

	logger := r.logger.WithRunID(report.RunID)
	ctx = logging.WithLoggerCtx(ctx, logger)

	logger.Infof("starting reconciliation run", map[string]any{
		"mode":  r.opts.Mode.String(),
		"force": r.opts.Force,
	})

	metaSnap, err := metadata.TakeSnapshot(ctx, r.meta)
	if err != nil {
		logger.Errorf("metadata snapshot failed, aborting run", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("reconcile: snapshot: %w", err)
	}
	logger.Infof("metadata snapshot taken", map[string]any{
		"jobs":  len(metaSnap.Jobs),
		"cubes": len(metaSnap.Cubes),
	})

	snap := deriveSnapshot(metaSnap)

	r.runStagingPass(ctx, snap, &report.Staging)
	r.runFilesystemPass(ctx, snap, &report.Filesystem)
	r.runColumnarPass(ctx, snap, &report.Columnar)

	if r.metrics != nil {
		r.metrics.ObserveRun(r.opts.Mode.String(), time.Since(start), report.Degraded())
	}

	logger.Infof("reconciliation run finished", map[string]any{
		"stagingCandidates":    len(report.Staging.Candidates),
		"filesystemCandidates": len(report.Filesystem.Candidates),
		"columnarCandidates":   len(report.Columnar.Candidates),
		"degraded":             report.Degraded(),
		"elapsed":              time.Since(start).String(),
	})

	return report, nil
}

// printCandidates writes the delimited report-mode block for one domain.
func (r *Reconciler) printCandidates(title string, candidates []string) {
	fmt.Fprintf(r.stdout, "--------------- %s ---------------\n", title)
	for _, c := range candidates {
		fmt.Fprintln(r.stdout, c)
	}
	fmt.Fprintln(r.stdout, "----------------------------------------------------")
}

// recordPass updates per-domain metrics after a pass.
func (r *Reconciler) recordPass(domain string, rep *DomainReport) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordPass(domain, len(rep.Candidates), len(rep.Deleted), len(rep.Failed), len(rep.TimedOut))
}
