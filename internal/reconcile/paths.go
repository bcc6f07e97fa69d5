// Package reconcile implements the garbage-collection reconciler: for each
// storage backend it computes the difference between everything that
// physically exists under this deployment's naming convention and
// everything still reachable from live metadata, then reports or deletes
// the remainder.
package reconcile

import (
	"strings"

	"github.com/google/uuid"
)

// uuidLength is the length of a canonical textual UUID (8-4-4-4-12).
const uuidLength = 36

// JobWorkingDir returns the canonical working directory of a job under the
// working root. The same join convention is used at creation time by the
// build engine, so keep-set membership is exact string equality.
func JobWorkingDir(root, jobDirPrefix, jobID string) string {
	return strings.TrimSuffix(root, "/") + "/" + jobDirPrefix + jobID
}

// SegmentIDFromTableName extracts the segment ID embedded in a staging
// table name. Staging table names cannot contain hyphens, so the UUID is
// encoded with underscores at creation time.
//
// Returns ("", false) when the name does not carry the staging prefix,
// is too short to hold a UUID suffix, or the suffix does not match the
// canonical UUID grammar. Callers must treat false as "keep": an
// unparseable suffix is not proof of staleness.
func SegmentIDFromTableName(name, stagingPrefix string) (string, bool) {
	if !strings.HasPrefix(name, stagingPrefix) {
		return "", false
	}
	if len(name) < len(stagingPrefix)+uuidLength {
		return "", false
	}

	segID := strings.ReplaceAll(name[len(name)-uuidLength:], "_", "-")
	if _, err := uuid.Parse(segID); err != nil {
		return "", false
	}
	return segID, true
}
