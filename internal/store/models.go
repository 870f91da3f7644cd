package store

import "time"

// JobStatus represents the lifecycle of a pipeline job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Terminal reports whether the status is final. Terminal statuses are written
// exactly once per job and never mutated afterwards.
func (s JobStatus) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// VideoStatus represents the lifecycle of the parent video entity.
type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoProcessing VideoStatus = "processing"
	VideoDone       VideoStatus = "done"
	VideoFailed     VideoStatus = "failed"
)

// Job is one unit of pipeline work persisted in SQLite.
type Job struct {
	ID           string
	VideoID      string
	SourceRef    string
	Status       JobStatus
	Progress     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Video is the parent entity a job's segments belong to.
type Video struct {
	ID        string
	Title     string
	Status    VideoStatus
	UpdatedAt time.Time
}

// PersistedSegment is a segment row read back from the database.
type PersistedSegment struct {
	ID         int64
	VideoID    string
	SongID     string
	StartSec   float64
	EndSec     float64
	Confidence float64
	Evidence   string
	CreatedAt  time.Time
}
