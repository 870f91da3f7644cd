package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"songscan/internal/config"
	"songscan/internal/logging"
	"songscan/internal/queue"
	"songscan/internal/services"
)

// Manager runs a pool of workers that consume job messages from the queue
// and feed them through the pipeline. Each worker processes one job at a
// time; jobs never share state beyond the queue and the store.
type Manager struct {
	queue    *queue.Client
	pipeline *Pipeline
	logger   *slog.Logger

	workers    int
	blockFor   time.Duration
	errorRetry time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager constructs a manager from configuration.
func NewManager(cfg *config.Config, q *queue.Client, pipeline *Pipeline, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		queue:      q,
		pipeline:   pipeline,
		logger:     logger,
		workers:    cfg.Queue.Workers,
		blockFor:   time.Duration(cfg.Queue.DequeueBlockSeconds) * time.Second,
		errorRetry: time.Duration(cfg.Queue.ErrorRetrySeconds) * time.Second,
	}
}

// Start launches the worker pool. It returns immediately; workers run until
// Stop is called or the context is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("manager already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		worker := i
		go func() {
			defer m.wg.Done()
			m.runWorker(runCtx, worker)
		}()
	}
	m.logger.Info("worker pool started", logging.Int("workers", m.workers))
	return nil
}

// Stop cancels in-flight work and waits for the workers to exit. A job
// interrupted mid-stage records its terminal failed status before the worker
// returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("worker pool stopped")
}

// Wait blocks until all workers have exited.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) runWorker(ctx context.Context, worker int) {
	log := m.logger.With(logging.Int("worker", worker))
	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := m.queue.Dequeue(ctx, m.blockFor)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("dequeue failed", logging.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.errorRetry):
			}
			continue
		}
		if msg == nil {
			continue
		}

		// Correlation id ties together every log line this delivery produces,
		// including re-deliveries of the same job id.
		jobCtx := services.WithRequestID(ctx, uuid.NewString())
		log.Info("job dequeued",
			logging.String(logging.FieldJobID, msg.JobID),
			logging.String(logging.FieldVideoID, msg.VideoID),
		)
		if err := m.pipeline.Process(jobCtx, *msg); err != nil {
			log.Error("job processing failed",
				logging.String(logging.FieldJobID, msg.JobID),
				logging.Error(err),
			)
		}
	}
}
