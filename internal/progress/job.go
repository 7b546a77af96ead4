// Package progress fans out sermon processing progress to any number of
// independent subscribers.
package progress

// Status is the lifecycle stage of a processing step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the processing state of one sermon: overall transcription and
// study-guide statuses plus a per-chunk breakdown.
type Job struct {
	SermonID            string
	TranscriptionStatus Status
	StudyGuideStatus    Status
	ChunkStatuses       []Status
}

// NewJob returns a pending job for a sermon with chunkCount chunks.
func NewJob(sermonID string, chunkCount int) Job {
	statuses := make([]Status, chunkCount)
	for i := range statuses {
		statuses[i] = StatusPending
	}
	return Job{
		SermonID:            sermonID,
		TranscriptionStatus: StatusPending,
		StudyGuideStatus:    StatusPending,
		ChunkStatuses:       statuses,
	}
}

// Update is one progress notification delivered to subscribers.
type Update struct {
	Job      Job
	Progress float64
}

// ProgressPercent converts progress to a whole percentage, truncating rather
// than rounding: 0.333 reports 33.
func (u Update) ProgressPercent() int {
	return int(u.Progress * 100)
}
