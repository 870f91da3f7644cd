package media

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"songscan/internal/config"
	"songscan/internal/services"
)

// localAcquirer copies source media from a directory on disk. The source
// reference names a file relative to the configured source path.
type localAcquirer struct {
	sourceDir string
	workDir   string
}

func newLocalAcquirer(cfg *config.Config) *localAcquirer {
	return &localAcquirer{
		sourceDir: cfg.Acquisition.LocalSourcePath,
		workDir:   cfg.Paths.WorkDir,
	}
}

func (a *localAcquirer) Acquire(ctx context.Context, jobID, sourceRef string) (*Acquisition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := filepath.Join(a.sourceDir, filepath.Clean("/"+sourceRef))
	src, err := os.Open(source)
	if err != nil {
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "copy", "open source "+source, err)
	}
	defer src.Close()

	dir, cleanup, err := newScratchDir(a.workDir, jobID)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(dir, "source"+filepath.Ext(source))
	dst, err := os.Create(dest)
	if err != nil {
		_ = cleanup()
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "copy", "create "+dest, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = cleanup()
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "copy", "copy media into scratch", err)
	}
	if err := dst.Close(); err != nil {
		_ = cleanup()
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "copy", "flush "+dest, err)
	}
	return &Acquisition{Path: dest, Cleanup: cleanup}, nil
}
