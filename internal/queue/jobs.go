package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNoPendingJobs signals an empty queue to a polling worker.
var ErrNoPendingJobs = errors.New("no pending jobs")

const jobColumns = `id, uuid, kind, status, input_path, project_dir, style,
	use_audio_markers, result_path, error_message,
	created_at, updated_at, started_at, completed_at`

// Enqueue inserts a new pending job. When a pending or running job with
// the same kind and input path already exists the call is a no-op and
// the existing job is returned with coalesced=true.
func (s *Store) Enqueue(ctx context.Context, job Job) (Job, bool, error) {
	ctx = ensureContext(ctx)
	now := timestamp(time.Now())

	res, err := s.execWithRetry(ctx, `
		INSERT INTO jobs (uuid, kind, status, input_path, project_dir, style,
			use_audio_markers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, input_path) WHERE status IN ('pending', 'running')
		DO NOTHING`,
		uuid.NewString(), string(job.Kind), string(StatusPending),
		job.InputPath, job.ProjectDir, job.Style, boolToInt(job.UseAudioMarkers),
		now, now)
	if err != nil {
		return Job{}, false, fmt.Errorf("enqueue %s job: %w", job.Kind, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return Job{}, false, fmt.Errorf("enqueue %s job: %w", job.Kind, err)
	}
	existing, err := s.activeJob(ctx, job.Kind, job.InputPath)
	if err != nil {
		return Job{}, false, err
	}
	return existing, affected == 0, nil
}

func (s *Store) activeJob(ctx context.Context, kind JobKind, inputPath string) (Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE kind = ? AND input_path = ? AND status IN ('pending', 'running')
		LIMIT 1`,
		string(kind), inputPath)
	job, err := scanJob(row)
	if err != nil {
		return Job{}, fmt.Errorf("load active %s job for %s: %w", kind, inputPath, err)
	}
	return job, nil
}

// ClaimNext atomically transitions the oldest pending job of a kind to
// running and returns it. ErrNoPendingJobs when the queue is empty.
func (s *Store) ClaimNext(ctx context.Context, kind JobKind) (Job, error) {
	ctx = ensureContext(ctx)
	now := timestamp(time.Now())

	var job Job
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var id int64
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM jobs
			WHERE kind = ? AND status = 'pending'
			ORDER BY id LIMIT 1`,
			string(kind)).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoPendingJobs
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE jobs SET status = 'running', started_at = ?, updated_at = ?
			WHERE id = ? AND status = 'pending'`,
			now, now, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNoPendingJobs
		}

		row := tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
		if job, err = scanJob(row); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		if errors.Is(err, ErrNoPendingJobs) {
			return Job{}, ErrNoPendingJobs
		}
		return Job{}, fmt.Errorf("claim %s job: %w", kind, err)
	}
	return job, nil
}

// MarkCompleted finishes a job successfully and records its artifact.
func (s *Store) MarkCompleted(ctx context.Context, id int64, resultPath string) error {
	return s.finish(ctx, id, StatusCompleted, resultPath, "")
}

// MarkFailed finishes a job with an error message.
func (s *Store) MarkFailed(ctx context.Context, id int64, message string) error {
	return s.finish(ctx, id, StatusFailed, "", message)
}

func (s *Store) finish(ctx context.Context, id int64, status Status, resultPath, message string) error {
	now := timestamp(time.Now())
	res, err := s.execWithRetry(ensureContext(ctx), `
		UPDATE jobs SET status = ?, result_path = ?, error_message = ?,
			completed_at = ?, updated_at = ?
		WHERE id = ? AND status = 'running'`,
		string(status), resultPath, message, now, now, id)
	if err != nil {
		return fmt.Errorf("mark job %d %s: %w", id, status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark job %d %s: %w", id, status, err)
	}
	if affected == 0 {
		return fmt.Errorf("mark job %d %s: job is not running", id, status)
	}
	return nil
}

// ResetStale requeues jobs left running by a previous daemon process.
func (s *Store) ResetStale(ctx context.Context) (int, error) {
	now := timestamp(time.Now())
	res, err := s.execWithRetry(ensureContext(ctx), `
		UPDATE jobs SET status = 'pending', started_at = NULL, updated_at = ?
		WHERE status = 'running'`,
		now)
	if err != nil {
		return 0, fmt.Errorf("reset stale jobs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset stale jobs: %w", err)
	}
	return int(affected), nil
}

// JobByUUID looks up a single job for detail reporting.
func (s *Store) JobByUUID(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs WHERE uuid = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, fmt.Errorf("job %s: not found", id)
	}
	if err != nil {
		return Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	return job, nil
}

// List returns every known job, newest first.
func (s *Store) List(ctx context.Context) ([]Job, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// StatsByKind counts jobs per state for one queue.
func (s *Store) StatsByKind(ctx context.Context, kind JobKind) (Stats, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT status, COUNT(1) FROM jobs WHERE kind = ? GROUP BY status`,
		string(kind))
	if err != nil {
		return Stats{}, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{Kind: kind}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("queue stats: %w", err)
		}
		switch Status(status) {
		case StatusPending:
			stats.Pending = count
		case StatusRunning:
			stats.Running = count
		case StatusCompleted:
			stats.Completed = count
		case StatusFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var (
		job           Job
		kind, status  string
		markers       int
		createdAt     string
		updatedAt     string
		started, done sql.NullString
	)
	err := row.Scan(&job.ID, &job.UUID, &kind, &status, &job.InputPath,
		&job.ProjectDir, &job.Style, &markers, &job.ResultPath,
		&job.ErrorMessage, &createdAt, &updatedAt, &started, &done)
	if err != nil {
		return Job{}, err
	}
	job.Kind = JobKind(kind)
	job.Status = Status(status)
	job.UseAudioMarkers = markers != 0
	job.CreatedAt = parseTimestamp(createdAt)
	job.UpdatedAt = parseTimestamp(updatedAt)
	if started.Valid {
		t := parseTimestamp(started.String)
		job.StartedAt = &t
	}
	if done.Valid {
		t := parseTimestamp(done.String)
		job.CompletedAt = &t
	}
	return job, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
