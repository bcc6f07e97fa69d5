package reconcile

import (
	"context"
	"strings"

	"github.com/strata-io/strata/internal/logging"
)

// runFilesystemPass reconciles job output directories under the working
// root. A directory is kept iff it is the canonical working dir of a
// non-final job, or the working dir of the last build job of a current
// segment. A segment's last successful build path survives as long as the
// segment does, even when that job itself is final.
func (r *Reconciler) runFilesystemPass(ctx context.Context, snap *snapshot, rep *DomainReport) {
	logger := logging.FromCtx(ctx)

	children, err := r.files.ListChildren(ctx, r.opts.WorkingRoot)
	if err != nil {
		logger.Errorf("working root listing failed, skipping pass", map[string]any{
			"root":  r.opts.WorkingRoot,
			"error": err.Error(),
		})
		rep.Degraded = true
		return
	}

	keep := make(map[string]struct{})
	for _, job := range snap.Jobs {
		if job.State.IsFinal() {
			continue
		}
		path := JobWorkingDir(r.opts.WorkingRoot, r.opts.JobDirPrefix, job.ID)
		keep[path] = struct{}{}
		logger.Infof("keep path, belongs to a working job", map[string]any{
			"path":  path,
			"job":   job.ID,
			"state": string(job.State),
		})
	}
	for _, cube := range snap.Cubes {
		for _, seg := range cube.Segments {
			if seg.LastBuildJobID == "" {
				continue
			}
			path := JobWorkingDir(r.opts.WorkingRoot, r.opts.JobDirPrefix, seg.LastBuildJobID)
			if _, ok := keep[path]; !ok {
				keep[path] = struct{}{}
				logger.Infof("keep path, belongs to a segment", map[string]any{
					"path":    path,
					"segment": seg.Name,
					"cube":    cube.Name,
				})
			}
		}
	}

	root := strings.TrimSuffix(r.opts.WorkingRoot, "/")
	for _, name := range children {
		if !strings.HasPrefix(name, r.opts.JobDirPrefix) {
			continue
		}
		path := root + "/" + name
		if _, ok := keep[path]; ok {
			continue
		}
		rep.Candidates = append(rep.Candidates, path)
	}

	if r.opts.Mode != ModeDelete {
		r.printCandidates("Filesystem Paths To Be Deleted", rep.Candidates)
		r.recordPass("filesystem", rep)
		return
	}

	for _, path := range rep.Candidates {
		if ctx.Err() != nil {
			return
		}
		if err := r.deleteFilesystemPath(ctx, path); err != nil {
			logger.Errorf("failed to delete filesystem path", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
			rep.Failed = append(rep.Failed, path)
			continue
		}
		rep.Deleted = append(rep.Deleted, path)
	}
	r.recordPass("filesystem", rep)
}

// deleteFilesystemPath removes one candidate recursively. An absent path
// is a successful no-op, which tolerates races with concurrent cleanup.
func (r *Reconciler) deleteFilesystemPath(ctx context.Context, path string) error {
	logger := logging.FromCtx(ctx)
	logger.Infof("deleting filesystem path", map[string]any{"path": path})

	exists, err := r.files.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		logger.Infof("filesystem path does not exist", map[string]any{"path": path})
		return nil
	}

	if err := r.files.Delete(ctx, path); err != nil {
		return err
	}
	logger.Infof("deleted filesystem path", map[string]any{"path": path})
	return nil
}
