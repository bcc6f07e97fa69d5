package reconcile

import (
	"github.com/strata-io/strata/internal/metadata"
)

// segmentOwner names the cube a live columnar table belongs to, kept for
// keep-decision logging.
type segmentOwner struct {
	cube   string
	status string
}

// snapshot wraps the metadata snapshot with the indexes the passes need,
// derived once per run. Liveness filtering is pure membership testing
// against these sets, so enumeration order never affects the outcome.
type snapshot struct {
	*metadata.Snapshot

	// segmentTables maps every segment's storage location identifier to
	// its owning cube, across all cubes regardless of status.
	segmentTables map[string]segmentOwner

	// liveSegmentIDs is the set of segment IDs owned by non-final jobs.
	liveSegmentIDs map[string]struct{}

	// segmentToJob maps segment IDs to the job that builds them.
	segmentToJob map[string]string
}

func deriveSnapshot(s *metadata.Snapshot) *snapshot {
	tables := make(map[string]segmentOwner)
	for _, cube := range s.Cubes {
		for _, seg := range cube.Segments {
			if seg.StorageLocationIdentifier != "" {
				tables[seg.StorageLocationIdentifier] = segmentOwner{cube: cube.Name, status: cube.Status}
			}
		}
	}

	return &snapshot{
		Snapshot:       s,
		segmentTables:  tables,
		liveSegmentIDs: s.LiveSegmentIDs(),
		segmentToJob:   s.SegmentToJob(),
	}
}
