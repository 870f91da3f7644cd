package media

import (
	"context"
	"fmt"
	"os"

	"songscan/internal/config"
	"songscan/internal/services"
)

// Acquisition is the result of fetching source media for one job. Path points
// at the raw media inside a job-scoped scratch directory; Cleanup removes the
// scratch directory and everything in it.
type Acquisition struct {
	Path    string
	Cleanup func() error
}

// Acquirer fetches the raw media for a source reference into local scratch
// space. Implementations must confine all intermediate files to the returned
// acquisition's scratch directory so Cleanup leaves nothing behind.
type Acquirer interface {
	Acquire(ctx context.Context, jobID, sourceRef string) (*Acquisition, error)
}

// FromConfig constructs the acquirer variant selected by configuration.
func FromConfig(cfg *config.Config, opts ...Option) (Acquirer, error) {
	settings := newOptions(opts...)
	switch cfg.Acquisition.Mode {
	case config.AcquisitionModeRemote:
		return newRemoteAcquirer(cfg, settings.exec), nil
	case config.AcquisitionModeLocal:
		return newLocalAcquirer(cfg), nil
	case config.AcquisitionModeFixture:
		return newFixtureAcquirer(cfg), nil
	default:
		return nil, fmt.Errorf("acquisition mode %q not recognized", cfg.Acquisition.Mode)
	}
}

// Option configures media components.
type Option func(*options)

type options struct {
	exec Executor
}

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(o *options) {
		if exec != nil {
			o.exec = exec
		}
	}
}

func newOptions(opts ...Option) options {
	settings := options{exec: commandExecutor{}}
	for _, opt := range opts {
		opt(&settings)
	}
	return settings
}

// newScratchDir creates a per-job scratch directory under the work dir. The
// returned cleanup removes the whole directory tree.
func newScratchDir(workDir, jobID string) (string, func() error, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", nil, services.Wrap(services.ErrAcquisition, "acquire", "scratch", "create work directory", err)
	}
	dir, err := os.MkdirTemp(workDir, "job-"+jobID+"-")
	if err != nil {
		return "", nil, services.Wrap(services.ErrAcquisition, "acquire", "scratch", "create scratch directory", err)
	}
	cleanup := func() error {
		return os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}
