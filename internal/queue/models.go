package queue

import "time"

// JobKind distinguishes the two queues sharing one store.
type JobKind string

const (
	KindTranscription JobKind = "transcription"
	KindRoughCut      JobKind = "roughcut"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether a job in this status will never run again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one unit of background work. Transcription jobs key on the media
// file path; rough-cut jobs key on the footage directory.
type Job struct {
	ID              int64
	UUID            string
	Kind            JobKind
	Status          Status
	InputPath       string
	ProjectDir      string
	Style           string
	UseAudioMarkers bool
	ResultPath      string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Stats summarizes one kind's queue for status reporting.
type Stats struct {
	Kind      JobKind
	Pending   int
	Running   int
	Completed int
	Failed    int
}

// Depth returns the number of jobs still waiting to run.
func (s Stats) Depth() int {
	return s.Pending
}
