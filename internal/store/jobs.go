package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrJobNotFound indicates the requested job row does not exist.
var ErrJobNotFound = errors.New("job not found")

// UpsertJob inserts the job row if absent, or refreshes its source fields if
// present. Re-delivered queue messages reuse the existing row so a re-run
// overwrites prior progress instead of duplicating the job.
func (s *Store) UpsertJob(ctx context.Context, job Job) error {
	if strings.TrimSpace(job.ID) == "" {
		return errors.New("job id must not be empty")
	}
	status := job.Status
	if status == "" {
		status = JobQueued
	}
	now := nowUTC()
	_, err := s.execWithRetry(ctx, `
		INSERT INTO jobs (id, video_id, source_ref, status, progress, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			video_id = excluded.video_id,
			source_ref = excluded.source_ref,
			updated_at = excluded.updated_at`,
		job.ID, job.VideoID, job.SourceRef, string(status), job.Progress, job.ErrorMessage, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", job.ID, err)
	}
	return nil
}

// RecordProgress writes one progress update for the job. The orchestrator owns
// monotonicity and the single-terminal-write contract; the store applies
// updates verbatim.
func (s *Store) RecordProgress(ctx context.Context, jobID string, status JobStatus, progress int, errMsg string) error {
	res, err := s.execWithRetry(ctx, `
		UPDATE jobs SET status = ?, progress = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		string(status), progress, errMsg, nowUTC(), jobID,
	)
	if err != nil {
		return fmt.Errorf("record progress for job %s: %w", jobID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record progress for job %s: %w", jobID, err)
	}
	if affected == 0 {
		return fmt.Errorf("record progress for job %s: %w", jobID, ErrJobNotFound)
	}
	return nil
}

// GetJob returns a single job row.
func (s *Store) GetJob(ctx context.Context, jobID string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `
		SELECT id, video_id, source_ref, status, progress, error_message, created_at, updated_at
		FROM jobs WHERE id = ?`, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

// ListJobs returns jobs ordered by most recent update.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT id, video_id, source_ref, status, progress, error_message, created_at, updated_at
		FROM jobs ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(scanner rowScanner) (*Job, error) {
	var (
		job       Job
		status    string
		createdAt string
		updatedAt string
	)
	if err := scanner.Scan(&job.ID, &job.VideoID, &job.SourceRef, &status, &job.Progress, &job.ErrorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	job.Status = JobStatus(status)
	job.CreatedAt = parseTime(createdAt)
	job.UpdatedAt = parseTime(updatedAt)
	return &job, nil
}

// UpsertVideo inserts or refreshes the parent video row.
func (s *Store) UpsertVideo(ctx context.Context, video Video) error {
	if strings.TrimSpace(video.ID) == "" {
		return errors.New("video id must not be empty")
	}
	status := video.Status
	if status == "" {
		status = VideoPending
	}
	_, err := s.execWithRetry(ctx, `
		INSERT INTO videos (id, title, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE videos.title END,
			updated_at = excluded.updated_at`,
		video.ID, video.Title, string(status), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert video %s: %w", video.ID, err)
	}
	return nil
}

// UpdateVideoStatus moves the parent video through its lifecycle. The row is
// created on demand so jobs for unseen videos still track parent status.
func (s *Store) UpdateVideoStatus(ctx context.Context, videoID string, status VideoStatus) error {
	if strings.TrimSpace(videoID) == "" {
		return errors.New("video id must not be empty")
	}
	_, err := s.execWithRetry(ctx, `
		INSERT INTO videos (id, title, status, updated_at)
		VALUES (?, '', ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		videoID, string(status), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("update video %s status: %w", videoID, err)
	}
	return nil
}

// GetVideo returns a single video row.
func (s *Store) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	var (
		video     Video
		status    string
		updatedAt string
	)
	err := s.db.QueryRowContext(ensureContext(ctx), `
		SELECT id, title, status, updated_at FROM videos WHERE id = ?`, videoID).
		Scan(&video.ID, &video.Title, &status, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video %s not found", videoID)
		}
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}
	video.Status = VideoStatus(status)
	video.UpdatedAt = parseTime(updatedAt)
	return &video, nil
}
