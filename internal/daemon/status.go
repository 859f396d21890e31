package daemon

import (
	"context"
	"time"

	"roughcut/internal/queue"
)

// Status reports queue depths and per-state counts for both queues.
type Status struct {
	Running       bool
	Transcription queue.Stats
	RoughCut      queue.Stats
	QueueDBPath   string
	LockFilePath  string
}

// GetStatus snapshots the daemon and its queues.
func (d *Daemon) GetStatus(ctx context.Context) (Status, error) {
	transcription, err := d.store.StatsByKind(ctx, queue.KindTranscription)
	if err != nil {
		return Status{}, err
	}
	roughCut, err := d.store.StatsByKind(ctx, queue.KindRoughCut)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Running:       d.Running(),
		Transcription: transcription,
		RoughCut:      roughCut,
		QueueDBPath:   d.store.Path(),
		LockFilePath:  d.lockPath,
	}, nil
}

// JobDetail is one job serialized for status output: paths as strings,
// timestamps as ISO-8601, status by name.
type JobDetail struct {
	UUID            string `json:"uuid"`
	Kind            string `json:"kind"`
	Status          string `json:"status"`
	InputPath       string `json:"input_path"`
	ProjectDir      string `json:"project_dir,omitempty"`
	Style           string `json:"style,omitempty"`
	UseAudioMarkers bool   `json:"use_audio_markers,omitempty"`
	ResultPath      string `json:"result_path,omitempty"`
	Error           string `json:"error,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	StartedAt       string `json:"started_at,omitempty"`
	CompletedAt     string `json:"completed_at,omitempty"`
}

// GetJobDetails returns every known job, newest first.
func (d *Daemon) GetJobDetails(ctx context.Context) ([]JobDetail, error) {
	jobs, err := d.store.List(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]JobDetail, 0, len(jobs))
	for _, job := range jobs {
		details = append(details, DetailFromJob(job))
	}
	return details, nil
}

// DetailFromJob serializes one job for status output.
func DetailFromJob(job queue.Job) JobDetail {
	detail := JobDetail{
		UUID:            job.UUID,
		Kind:            string(job.Kind),
		Status:          string(job.Status),
		InputPath:       job.InputPath,
		ProjectDir:      job.ProjectDir,
		Style:           job.Style,
		UseAudioMarkers: job.UseAudioMarkers,
		ResultPath:      job.ResultPath,
		Error:           job.ErrorMessage,
		CreatedAt:       isoTime(job.CreatedAt),
		UpdatedAt:       isoTime(job.UpdatedAt),
	}
	if job.StartedAt != nil {
		detail.StartedAt = isoTime(*job.StartedAt)
	}
	if job.CompletedAt != nil {
		detail.CompletedAt = isoTime(*job.CompletedAt)
	}
	return detail
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
