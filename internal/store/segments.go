package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"songscan/internal/analyzer"
)

// segmentInsertParallelism bounds the fan-out of per-segment inserts. SQLite
// serializes writers, so this limits goroutine churn rather than raising
// throughput; the busy-retry helper absorbs lock contention.
const segmentInsertParallelism = 4

// ReplaceSegments atomically swaps the persisted segments for a video. The
// previous rows are deleted first so re-running a job overwrites its earlier
// results, then the new rows are written with a bounded fan-out. A partial
// write is treated as total failure: on any insert error the video's segments
// are cleared again so a failed job never leaves partial results behind.
func (s *Store) ReplaceSegments(ctx context.Context, videoID string, segments []analyzer.Segment) error {
	ctx = ensureContext(ctx)
	if err := s.deleteSegments(ctx, videoID); err != nil {
		return err
	}
	if len(segments) == 0 {
		return nil
	}

	now := nowUTC()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(segmentInsertParallelism)
	for _, segment := range segments {
		seg := segment
		group.Go(func() error {
			evidence := "{}"
			if len(seg.Evidence) > 0 {
				evidence = string(seg.Evidence)
			}
			if _, err := s.execWithRetry(groupCtx, `
				INSERT INTO segments (video_id, song_id, start_sec, end_sec, confidence, evidence_json, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				videoID, seg.SongID, seg.StartSec, seg.EndSec, seg.Confidence, evidence, now,
			); err != nil {
				return fmt.Errorf("insert segment for song %s: %w", seg.SongID, err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		// Best effort; the next successful run replaces the rows anyway.
		_ = s.deleteSegments(ctx, videoID)
		return fmt.Errorf("persist segments for video %s: %w", videoID, err)
	}
	return nil
}

func (s *Store) deleteSegments(ctx context.Context, videoID string) error {
	if _, err := s.execWithRetry(ctx, "DELETE FROM segments WHERE video_id = ?", videoID); err != nil {
		return fmt.Errorf("clear segments for video %s: %w", videoID, err)
	}
	return nil
}

// SegmentsForVideo returns the persisted segments ordered by start offset.
func (s *Store) SegmentsForVideo(ctx context.Context, videoID string) ([]PersistedSegment, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT id, video_id, song_id, start_sec, end_sec, confidence, evidence_json, created_at
		FROM segments WHERE video_id = ? ORDER BY start_sec`, videoID)
	if err != nil {
		return nil, fmt.Errorf("segments for video %s: %w", videoID, err)
	}
	defer rows.Close()

	var segments []PersistedSegment
	for rows.Next() {
		var (
			segment   PersistedSegment
			createdAt string
		)
		if err := rows.Scan(&segment.ID, &segment.VideoID, &segment.SongID, &segment.StartSec, &segment.EndSec, &segment.Confidence, &segment.Evidence, &createdAt); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segment.CreatedAt = parseTime(createdAt)
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}
