// Package metadata defines the warehouse metadata model consumed by the
// reconciler: build jobs, cube instances and their segments, and the
// point-in-time Snapshot the reconciliation passes are computed from.
package metadata

// JobState is the lifecycle state of a build job.
type JobState string

const (
	JobPending   JobState = "PENDING"
	JobReady     JobState = "READY"
	JobRunning   JobState = "RUNNING"
	JobError     JobState = "ERROR"
	JobStopped   JobState = "STOPPED"
	JobSucceeded JobState = "SUCCEEDED"
	JobDiscarded JobState = "DISCARDED"
)

// IsFinal reports whether the job can no longer produce, depend on, or
// retry against a storage artifact. ERROR and STOPPED jobs are resumable
// and therefore not final.
func (s JobState) IsFinal() bool {
	return s == JobSucceeded || s == JobDiscarded
}

// SegmentIDParam is the job parameter naming the segment a build job owns.
// Jobs that are not build jobs do not carry it.
const SegmentIDParam = "segmentId"

// Job is a warehouse job as recorded in the metadata store.
type Job struct {
	ID     string            `json:"id"`
	State  JobState          `json:"state"`
	Params map[string]string `json:"params,omitempty"`
}

// SegmentID returns the segment this job builds, or "" when the job is
// not a build job.
func (j Job) SegmentID() string {
	return j.Params[SegmentIDParam]
}

// CubeSegment is a time-bounded partition of a cube, backed by one
// columnar table.
type CubeSegment struct {
	Name string `json:"name"`

	// StorageLocationIdentifier is the columnar table backing this segment.
	StorageLocationIdentifier string `json:"storageLocationIdentifier"`

	// LastBuildJobID names the job that last built this segment. May be
	// empty for segments created before job tracking existed.
	LastBuildJobID string `json:"lastBuildJobId,omitempty"`
}

// CubeInstance is a cube with its current segment list.
type CubeInstance struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Segments []CubeSegment `json:"segments,omitempty"`
}
