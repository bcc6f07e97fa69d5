package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/strata-io/strata/internal/logging"
	"github.com/strata-io/strata/internal/staging"
)

// runStagingPass reconciles intermediate staging tables. A table is a
// drop candidate iff it carries the staging prefix, embeds a parseable
// segment UUID in its last 36 characters (underscores standing in for
// hyphens), and that segment is not owned by any non-final job. Anything
// unparseable is kept: an unreadable suffix is not proof of staleness.
//
// The force override widens the drop set to every matching-prefix table
// regardless of liveness. It exists for operators rebuilding a staging
// database and bypasses every safety check in this domain.
func (r *Reconciler) runStagingPass(ctx context.Context, snap *snapshot, rep *DomainReport) {
	logger := logging.FromCtx(ctx)

	names, err := r.staging.ListTables(ctx, r.opts.StagingDatabase)
	if err != nil {
		logger.Errorf("staging table listing failed, skipping pass", map[string]any{
			"database": r.opts.StagingDatabase,
			"error":    err.Error(),
		})
		rep.Degraded = true
		return
	}

	var working []string
	for _, job := range snap.Jobs {
		if !job.State.IsFinal() {
			working = append(working, fmt.Sprintf("%s(%s)", job.ID, job.State))
		}
	}
	logger.Infof("working jobs", map[string]any{"jobs": strings.Join(working, ", ")})

	for _, name := range names {
		if !strings.HasPrefix(name, r.opts.StagingTablePrefix) {
			continue
		}
		logger.Infof("checking staging table", map[string]any{"table": name})

		if r.opts.Force {
			logger.Warn("force override active: dropping staging table regardless of liveness")
			rep.Candidates = append(rep.Candidates, name)
			continue
		}

		segID, ok := SegmentIDFromTableName(name, r.opts.StagingTablePrefix)
		if !ok {
			logger.Infof("keep staging table, suffix is not a segment id", map[string]any{
				"table": name,
			})
			continue
		}

		if _, live := snap.liveSegmentIDs[segID]; live {
			logger.Infof("keep staging table, segment owned by a working job", map[string]any{
				"table":   name,
				"segment": segID,
				"job":     snap.segmentToJob[segID],
			})
			continue
		}

		rep.Candidates = append(rep.Candidates, name)
	}

	if r.opts.Mode != ModeDelete {
		r.printCandidates("Staging Tables To Be Dropped", rep.Candidates)
		r.recordPass("staging", rep)
		return
	}

	r.dropStagingTables(ctx, snap, rep)
	r.recordPass("staging", rep)
}

// dropStagingTables drops the candidates as one batched statement, then
// cleans up each dropped table's external data path. A batch failure
// abandons only the external cleanup, not the run.
func (r *Reconciler) dropStagingTables(ctx context.Context, snap *snapshot, rep *DomainReport) {
	if len(rep.Candidates) == 0 {
		return
	}
	logger := logging.FromCtx(ctx)

	statements := make([]string, 0, len(rep.Candidates)+1)
	statements = append(statements, staging.UseStatement(r.opts.StagingDatabase))
	for _, name := range rep.Candidates {
		statements = append(statements, staging.DropTableStatement(name))
		logger.Infof("dropping staging table", map[string]any{"table": name})
	}

	if err := r.staging.ExecBatch(ctx, statements); err != nil {
		logger.Errorf("staging drop batch failed, skipping external path cleanup", map[string]any{
			"error": err.Error(),
		})
		rep.Failed = append(rep.Failed, rep.Candidates...)
		rep.Degraded = true
		return
	}
	rep.Deleted = append(rep.Deleted, rep.Candidates...)

	// Some staging tables keep their flat data at an external path under
	// the owning job's working dir; drop that alongside the table.
	for _, name := range rep.Candidates {
		r.deleteExternalPath(ctx, snap, name)
	}
}

// deleteExternalPath removes the external data path of one dropped
// staging table, when its owning job can be resolved from the snapshot.
func (r *Reconciler) deleteExternalPath(ctx context.Context, snap *snapshot, table string) {
	logger := logging.FromCtx(ctx)

	if len(table) < uuidLength {
		// Only reachable under force, where unparseable names are dropped too.
		logger.Warnf("staging table name too short to resolve a segment, skipping external path", map[string]any{
			"table": table,
		})
		return
	}
	segID := strings.ReplaceAll(table[len(table)-uuidLength:], "_", "-")

	jobID, ok := snap.segmentToJob[segID]
	if !ok {
		logger.Warnf("no job recorded for staging table's segment, skipping external path", map[string]any{
			"table":   table,
			"segment": segID,
		})
		return
	}

	path := JobWorkingDir(r.opts.WorkingRoot, r.opts.JobDirPrefix, jobID) + "/" + table

	exists, err := r.files.Exists(ctx, path)
	if err != nil {
		logger.Errorf("failed to probe external staging path", map[string]any{
			"table": table,
			"path":  path,
			"error": err.Error(),
		})
		return
	}
	if !exists {
		// Normal when the build engine is not configured to keep flat tables.
		logger.Infof("external staging path does not exist", map[string]any{
			"table": table,
			"path":  path,
		})
		return
	}

	if err := r.files.Delete(ctx, path); err != nil {
		logger.Errorf("failed to delete external staging path", map[string]any{
			"table": table,
			"path":  path,
			"error": err.Error(),
		})
		return
	}
	logger.Infof("deleted external staging path", map[string]any{
		"table": table,
		"path":  path,
	})
}
