package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromRedis(rdb, "songscan:test")
}

func TestEnqueueDequeueRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	msg := Message{JobID: "job-1", VideoID: "vid-1", SourceRef: "abc123"}
	if err := client.Enqueue(ctx, msg); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	depth, err := client.Depth(ctx)
	if err != nil {
		t.Fatalf("Depth failed: %v", err)
	}
	if depth != 1 {
		t.Fatalf("expected depth 1, got %d", depth)
	}

	got, err := client.Dequeue(ctx, time.Second)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected message, got nil")
	}
	if *got != msg {
		t.Fatalf("round trip mismatch: got %+v want %+v", *got, msg)
	}
}

func TestDequeueOrderIsFIFO(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		msg := Message{JobID: id, VideoID: "vid-" + id, SourceRef: "ref-" + id}
		if err := client.Enqueue(ctx, msg); err != nil {
			t.Fatalf("Enqueue %s failed: %v", id, err)
		}
	}

	for _, want := range []string{"a", "b", "c"} {
		got, err := client.Dequeue(ctx, time.Second)
		if err != nil {
			t.Fatalf("Dequeue failed: %v", err)
		}
		if got == nil || got.JobID != want {
			t.Fatalf("expected job %s, got %+v", want, got)
		}
	}
}

func TestDequeueTimeoutReturnsNil(t *testing.T) {
	client := newTestClient(t)

	got, err := client.Dequeue(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("expected nil error on empty queue, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil message on empty queue, got %+v", got)
	}
}

func TestEnqueueRejectsInvalidMessage(t *testing.T) {
	client := newTestClient(t)

	cases := []Message{
		{VideoID: "vid", SourceRef: "ref"},
		{JobID: "job", SourceRef: "ref"},
		{JobID: "job", VideoID: "vid"},
	}
	for _, msg := range cases {
		if err := client.Enqueue(context.Background(), msg); err == nil {
			t.Fatalf("expected validation error for %+v", msg)
		}
	}
}

func TestDequeueRejectsMalformedPayload(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	client := NewFromRedis(rdb, "songscan:test")

	if _, err := srv.Lpush("songscan:test", "not json"); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	if _, err := client.Dequeue(context.Background(), time.Second); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}
