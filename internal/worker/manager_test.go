package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"songscan/internal/analyzer"
	"songscan/internal/media"
	"songscan/internal/queue"
	"songscan/internal/store"
	"songscan/internal/testsupport"
)

func TestManagerProcessesQueuedJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Queue.Workers = 2
	cfg.Queue.DequeueBlockSeconds = 1
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedSong(t, st, "song1", "First Song", "Artist One")

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := queue.NewFromRedis(rdb, cfg.Queue.Topic)

	acquirer, err := media.FromConfig(cfg)
	if err != nil {
		t.Fatalf("media.FromConfig: %v", err)
	}
	pipeline := NewPipeline(cfg, st, acquirer, media.NewNormalizer(cfg), analyzer.NewFixed("song1"), nil)
	manager := NewManager(cfg, q, pipeline, nil)

	ctx := context.Background()
	jobs := []queue.Message{
		{JobID: "j1", VideoID: "v1", SourceRef: "refA"},
		{JobID: "j2", VideoID: "v2", SourceRef: "refB"},
		{JobID: "j3", VideoID: "v3", SourceRef: "refC"},
	}
	for _, msg := range jobs {
		if err := q.Enqueue(ctx, msg); err != nil {
			t.Fatalf("Enqueue %s: %v", msg.JobID, err)
		}
	}

	if err := manager.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(manager.Stop)

	deadline := time.After(15 * time.Second)
	for {
		done := 0
		for _, msg := range jobs {
			job, err := st.GetJob(ctx, msg.JobID)
			if err != nil {
				continue
			}
			if job.Status == store.JobDone {
				done++
			}
			if job.Status == store.JobFailed {
				t.Fatalf("job %s failed: %s", msg.JobID, job.ErrorMessage)
			}
		}
		if done == len(jobs) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("jobs did not finish, %d of %d done", done, len(jobs))
		case <-time.After(50 * time.Millisecond):
		}
	}

	for _, msg := range jobs {
		segments, err := st.SegmentsForVideo(ctx, msg.VideoID)
		if err != nil {
			t.Fatalf("SegmentsForVideo %s: %v", msg.VideoID, err)
		}
		if len(segments) != 2 {
			t.Fatalf("video %s expected 2 segments, got %d", msg.VideoID, len(segments))
		}
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("Depth failed: %v", err)
	}
	if depth != 0 {
		t.Fatalf("expected drained queue, depth %d", depth)
	}
}

func TestManagerStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Queue.DequeueBlockSeconds = 1
	st := testsupport.MustOpenStore(t, cfg)

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := queue.NewFromRedis(rdb, cfg.Queue.Topic)

	acquirer, err := media.FromConfig(cfg)
	if err != nil {
		t.Fatalf("media.FromConfig: %v", err)
	}
	pipeline := NewPipeline(cfg, st, acquirer, media.NewNormalizer(cfg), analyzer.NewFixed("song1"), nil)
	manager := NewManager(cfg, q, pipeline, nil)

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(manager.Stop)

	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("second Start should fail")
	}
}

func TestManagerStopIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Queue.DequeueBlockSeconds = 1
	st := testsupport.MustOpenStore(t, cfg)

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := queue.NewFromRedis(rdb, cfg.Queue.Topic)

	acquirer, err := media.FromConfig(cfg)
	if err != nil {
		t.Fatalf("media.FromConfig: %v", err)
	}
	pipeline := NewPipeline(cfg, st, acquirer, media.NewNormalizer(cfg), analyzer.NewFixed("song1"), nil)
	manager := NewManager(cfg, q, pipeline, nil)

	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	manager.Stop()
	manager.Stop()
}
