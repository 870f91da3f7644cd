package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"songscan/internal/config"
)

const connectTimeout = 5 * time.Second

// Message is one job delivery consumed from the queue. The wire field names
// are the queue contract shared with job submitters.
type Message struct {
	JobID     string `json:"jobId"`
	VideoID   string `json:"parentId"`
	SourceRef string `json:"sourceRef"`
}

// Validate rejects messages the pipeline cannot act on.
func (m Message) Validate() error {
	if strings.TrimSpace(m.JobID) == "" {
		return errors.New("queue message missing jobId")
	}
	if strings.TrimSpace(m.VideoID) == "" {
		return errors.New("queue message missing parentId")
	}
	if strings.TrimSpace(m.SourceRef) == "" {
		return errors.New("queue message missing sourceRef")
	}
	return nil
}

// Client wraps the Redis list that carries job messages. Delivery and
// redelivery semantics belong to Redis; the pipeline only assumes each
// message is handed to one worker at a time.
type Client struct {
	rdb   *redis.Client
	topic string
}

// New connects to Redis using the queue settings and verifies reachability.
func New(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.RedisAddr,
		Password: cfg.Queue.RedisPassword,
		DB:       cfg.Queue.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromRedis(rdb, cfg.Queue.Topic), nil
}

// NewFromRedis wraps an existing Redis client (used in tests).
func NewFromRedis(rdb *redis.Client, topic string) *Client {
	if topic == "" {
		topic = "songscan:jobs"
	}
	return &Client{rdb: rdb, topic: topic}
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks queue reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Enqueue pushes one job message onto the queue.
func (c *Client) Enqueue(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode queue message: %w", err)
	}
	if err := c.rdb.LPush(ctx, c.topic, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job %s: %w", msg.JobID, err)
	}
	return nil
}

// Dequeue blocks up to the given duration for the next job message. A nil
// message with nil error means the block window elapsed without work; callers
// loop on that so shutdown stays responsive.
func (c *Client) Dequeue(ctx context.Context, block time.Duration) (*Message, error) {
	values, err := c.rdb.BRPop(ctx, block, c.topic).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	// BRPOP returns [key, value].
	if len(values) != 2 {
		return nil, fmt.Errorf("dequeue: unexpected reply of %d values", len(values))
	}
	var msg Message
	if err := json.Unmarshal([]byte(values[1]), &msg); err != nil {
		return nil, fmt.Errorf("decode queue message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	return &msg, nil
}

// Depth reports how many messages are waiting on the queue.
func (c *Client) Depth(ctx context.Context) (int64, error) {
	depth, err := c.rdb.LLen(ctx, c.topic).Result()
	if err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return depth, nil
}
