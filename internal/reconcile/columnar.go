package reconcile

import (
	"context"
	"errors"
	"strings"

	"github.com/strata-io/strata/internal/logging"
)

// runColumnarPass reconciles columnar-store tables: every table carrying
// this deployment's prefix and owner tag is a drop candidate unless some
// segment of some cube, regardless of cube status, names it as its
// storage location.
func (r *Reconciler) runColumnarPass(ctx context.Context, snap *snapshot, rep *DomainReport) {
	logger := logging.FromCtx(ctx)

	tables, err := r.columnar.ListTables(ctx, r.opts.TablePrefix)
	if err != nil {
		logger.Errorf("columnar table listing failed, skipping pass", map[string]any{
			"error": err.Error(),
		})
		rep.Degraded = true
		return
	}

	live := snap.segmentTables

	for _, t := range tables {
		if !strings.EqualFold(t.OwnerTag, r.opts.DeploymentID) {
			// Created by another deployment on the shared cluster.
			continue
		}
		if owner, ok := live[t.Name]; ok {
			logger.Infof("exclude table from drop list, backs a segment", map[string]any{
				"table":  t.Name,
				"cube":   owner.cube,
				"status": owner.status,
			})
			continue
		}
		rep.Candidates = append(rep.Candidates, t.Name)
	}

	if r.opts.Mode != ModeDelete {
		r.printCandidates("Columnar Tables To Be Dropped", rep.Candidates)
		r.recordPass("columnar", rep)
		return
	}

	r.deleteColumnarTables(ctx, rep)
	r.recordPass("columnar", rep)
}

// deleteColumnarTables deletes the candidates one at a time, each bounded
// by the configured deadline. Never more than one deletion is in flight;
// the bound exists to stop a hung deletion from stalling the whole run,
// not to add throughput.
func (r *Reconciler) deleteColumnarTables(ctx context.Context, rep *DomainReport) {
	logger := logging.FromCtx(ctx)

	for _, name := range rep.Candidates {
		if ctx.Err() != nil {
			return
		}

		itemCtx, cancel := context.WithTimeout(ctx, r.opts.DeleteTimeout)

		done := make(chan error, 1)
		go func(table string) {
			done <- r.deleteOneTable(itemCtx, table)
		}(name)

		timedOut := func() {
			logger.Warnf("columnar table deletion exceeded deadline, abandoning item", map[string]any{
				"table":   name,
				"timeout": r.opts.DeleteTimeout.String(),
			})
			rep.TimedOut = append(rep.TimedOut, name)
		}

		select {
		case err := <-done:
			cancel()
			if err == nil {
				rep.Deleted = append(rep.Deleted, name)
				continue
			}
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				timedOut()
				continue
			}
			logger.Errorf("failed to delete columnar table", map[string]any{
				"table": name,
				"error": err.Error(),
			})
			rep.Failed = append(rep.Failed, name)
		case <-itemCtx.Done():
			cancel()
			if errors.Is(itemCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				timedOut()
				continue
			}
			// Run-level cancellation; remaining candidates are left for
			// the next run to reconsider.
			return
		}
	}
}

// deleteOneTable disables the table if enabled, then drops it. An absent
// table is a successful no-op.
func (r *Reconciler) deleteOneTable(ctx context.Context, name string) error {
	logger := logging.FromCtx(ctx)
	logger.Infof("deleting columnar table", map[string]any{"table": name})

	exists, err := r.columnar.TableExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		logger.Infof("columnar table does not exist", map[string]any{"table": name})
		return nil
	}

	enabled, err := r.columnar.IsEnabled(ctx, name)
	if err != nil {
		return err
	}
	if enabled {
		if err := r.columnar.Disable(ctx, name); err != nil {
			return err
		}
	}

	if err := r.columnar.Drop(ctx, name); err != nil {
		return err
	}

	logger.Infof("deleted columnar table", map[string]any{"table": name})
	return nil
}
