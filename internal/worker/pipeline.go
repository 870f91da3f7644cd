package worker

import (
	"context"
	"log/slog"

	"songscan/internal/analyzer"
	"songscan/internal/catalog"
	"songscan/internal/config"
	"songscan/internal/logging"
	"songscan/internal/media"
	"songscan/internal/queue"
	"songscan/internal/services"
	"songscan/internal/store"
)

// Progress checkpoints recorded at stage boundaries. Values only ever
// increase over a job's lifetime.
const (
	progressPreconditions = 5
	progressAcquired      = 25
	progressNormalized    = 50
	progressAnalyzed      = 80
	progressDone          = 100
)

// Normalizer converts acquired media to the canonical analysis format.
// Satisfied by *media.Normalizer.
type Normalizer interface {
	Normalize(ctx context.Context, mediaPath string) (string, error)
}

// Sink is the persistence surface the pipeline writes through. Satisfied by
// *store.Store.
type Sink interface {
	UpsertJob(ctx context.Context, job store.Job) error
	UpsertVideo(ctx context.Context, video store.Video) error
	UpdateVideoStatus(ctx context.Context, videoID string, status store.VideoStatus) error
	RecordProgress(ctx context.Context, jobID string, status store.JobStatus, progress int, errMsg string) error
	ListSongs(ctx context.Context) ([]catalog.Song, error)
	ReplaceSegments(ctx context.Context, videoID string, segments []analyzer.Segment) error
}

// Pipeline turns one job message into a sequence of stage executions with
// progress reporting. Each invocation is independent; jobs share nothing but
// the queue and the store, so re-running a job simply overwrites its prior
// progress and segments.
type Pipeline struct {
	sink           Sink
	acquirer       media.Acquirer
	normalizer     Normalizer
	analyzer       analyzer.Analyzer
	requireCatalog bool
	logger         *slog.Logger
}

// NewPipeline wires the pipeline's collaborators together.
func NewPipeline(cfg *config.Config, sink Sink, acquirer media.Acquirer, normalizer Normalizer, an analyzer.Analyzer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		sink:           sink,
		acquirer:       acquirer,
		normalizer:     normalizer,
		analyzer:       an,
		requireCatalog: cfg.Workflow.RequireCatalog,
		logger:         logger,
	}
}

// Process executes the full stage sequence for one job message. Every
// failure is converted into a single terminal failed write; the returned
// error mirrors what was recorded so callers can log it.
func (p *Pipeline) Process(ctx context.Context, msg queue.Message) error {
	ctx = services.WithJobID(ctx, msg.JobID)
	ctx = services.WithVideoID(ctx, msg.VideoID)
	log := logging.WithContext(ctx, p.logger)

	run := &jobRun{pipeline: p, msg: msg, logger: log}
	if err := run.ensureRows(ctx); err != nil {
		// Nothing was recorded for this job; surface the storage error so
		// the manager can log it and the queue's redelivery policy applies.
		return err
	}

	err := run.execute(ctx)
	if err != nil {
		run.finalizeFailure(ctx, err)
	}
	run.releaseMedia()
	return err
}

type jobRun struct {
	pipeline *Pipeline
	msg      queue.Message
	logger   *slog.Logger

	progress    int
	acquisition *media.Acquisition
	terminal    bool
	videoDirty  bool
}

// ensureRows makes the job and parent video visible in the store before any
// progress is recorded. Messages can come from external submitters that never
// created rows themselves.
func (r *jobRun) ensureRows(ctx context.Context) error {
	job := store.Job{
		ID:        r.msg.JobID,
		VideoID:   r.msg.VideoID,
		SourceRef: r.msg.SourceRef,
		Status:    store.JobQueued,
	}
	if err := r.pipeline.sink.UpsertJob(ctx, job); err != nil {
		return err
	}
	return r.pipeline.sink.UpsertVideo(ctx, store.Video{ID: r.msg.VideoID, Status: store.VideoPending})
}

func (r *jobRun) execute(ctx context.Context) error {
	st := r.pipeline.sink

	if err := r.checkpoint(ctx, progressPreconditions); err != nil {
		return err
	}

	songs, err := st.ListSongs(ctx)
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "preconditions", "catalog", "load song catalog", err)
	}
	if r.pipeline.requireCatalog && len(songs) == 0 {
		return services.Wrap(services.ErrPrecondition, "preconditions", "catalog", "song catalog is empty", nil)
	}

	// From here on the parent video reflects pipeline activity.
	if err := st.UpdateVideoStatus(ctx, r.msg.VideoID, store.VideoProcessing); err != nil {
		return services.Wrap(services.ErrPersistence, "preconditions", "video", "mark video processing", err)
	}
	r.videoDirty = true

	acq, err := r.pipeline.acquirer.Acquire(ctx, r.msg.JobID, r.msg.SourceRef)
	if err != nil {
		return err
	}
	r.acquisition = acq
	if err := r.checkpoint(ctx, progressAcquired); err != nil {
		return err
	}
	r.logger.Info("media acquired", logging.String("path", acq.Path), logging.String(logging.FieldStage, "acquire"))

	normalized, err := r.pipeline.normalizer.Normalize(ctx, acq.Path)
	if err != nil {
		return err
	}
	if err := r.checkpoint(ctx, progressNormalized); err != nil {
		return err
	}

	segments, err := r.pipeline.analyzer.Analyze(ctx, normalized, songs)
	if err != nil {
		return err
	}
	if err := r.checkpoint(ctx, progressAnalyzed); err != nil {
		return err
	}
	r.logger.Info("analysis complete", logging.Int("segments", len(segments)), logging.String(logging.FieldStage, "analyze"))

	if err := st.ReplaceSegments(ctx, r.msg.VideoID, segments); err != nil {
		return err
	}
	if err := st.UpdateVideoStatus(ctx, r.msg.VideoID, store.VideoDone); err != nil {
		return services.Wrap(services.ErrPersistence, "persist", "video", "mark video done", err)
	}

	if err := st.RecordProgress(ctx, r.msg.JobID, store.JobDone, progressDone, ""); err != nil {
		return services.Wrap(services.ErrPersistence, "persist", "job", "record terminal status", err)
	}
	r.terminal = true
	r.logger.Info("job done", logging.Int("progress", progressDone))
	return nil
}

// checkpoint records a non-terminal running update at the given progress value.
func (r *jobRun) checkpoint(ctx context.Context, progress int) error {
	if progress < r.progress {
		progress = r.progress
	}
	if err := r.pipeline.sink.RecordProgress(ctx, r.msg.JobID, store.JobRunning, progress, ""); err != nil {
		return services.Wrap(services.ErrPersistence, "progress", "job", "record progress", err)
	}
	r.progress = progress
	return nil
}

// finalizeFailure writes the single terminal failed status. Progress keeps
// its last checkpoint value so the recorded sequence stays non-decreasing.
func (r *jobRun) finalizeFailure(ctx context.Context, cause error) {
	if r.terminal {
		return
	}
	r.terminal = true

	// The cause may be the run context itself being cancelled at shutdown;
	// the terminal write still has to land or the job stays running forever
	// with its message already consumed from the queue.
	ctx = context.WithoutCancel(ctx)

	message := services.FailureMessage(cause)
	if err := r.pipeline.sink.RecordProgress(ctx, r.msg.JobID, store.JobFailed, r.progress, message); err != nil {
		r.logger.Error("record terminal failure", logging.Error(err))
	}
	if r.videoDirty {
		if err := r.pipeline.sink.UpdateVideoStatus(ctx, r.msg.VideoID, store.VideoFailed); err != nil {
			r.logger.Error("mark video failed", logging.Error(err))
		}
	}
	r.logger.Warn("job failed", logging.String("error", message), logging.Int("progress", r.progress))
}

// releaseMedia invokes the acquisition cleanup exactly once. Cleanup errors
// are logged, never folded into the job outcome.
func (r *jobRun) releaseMedia() {
	if r.acquisition == nil || r.acquisition.Cleanup == nil {
		return
	}
	cleanup := r.acquisition.Cleanup
	r.acquisition = nil
	if err := cleanup(); err != nil {
		r.logger.Warn("release acquired media", logging.Error(err))
	}
}
