package media

import (
	"context"
	"path/filepath"
	"strings"

	"songscan/internal/config"
	"songscan/internal/services"
)

// remoteAcquirer downloads source media with yt-dlp. Source references are
// joined onto the configured base URL unless they already carry a scheme.
type remoteAcquirer struct {
	binary  string
	baseURL string
	workDir string
	exec    Executor
}

func newRemoteAcquirer(cfg *config.Config, exec Executor) *remoteAcquirer {
	return &remoteAcquirer{
		binary:  cfg.YtdlpBinary(),
		baseURL: cfg.Acquisition.SourceBaseURL,
		workDir: cfg.Paths.WorkDir,
		exec:    exec,
	}
}

func (a *remoteAcquirer) Acquire(ctx context.Context, jobID, sourceRef string) (*Acquisition, error) {
	dir, cleanup, err := newScratchDir(a.workDir, jobID)
	if err != nil {
		return nil, err
	}

	url := a.sourceURL(sourceRef)
	template := filepath.Join(dir, "source.%(ext)s")
	args := []string{
		"--no-playlist",
		"--format", "bestaudio/best",
		"--output", template,
		url,
	}
	if err := a.exec.Run(ctx, a.binary, args, nil); err != nil {
		_ = cleanup()
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "download", "download "+url, err)
	}

	path, err := locateDownload(dir)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	return &Acquisition{Path: path, Cleanup: cleanup}, nil
}

func (a *remoteAcquirer) sourceURL(ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	// Base URLs like ".../watch?v=" join bare; path-style bases need a slash.
	if strings.HasSuffix(a.baseURL, "=") || strings.HasSuffix(a.baseURL, "/") {
		return a.baseURL + ref
	}
	return a.baseURL + "/" + ref
}

// locateDownload finds the single file yt-dlp produced; the extension depends
// on the source format so it cannot be predicted up front.
func locateDownload(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "source.*"))
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "locate", "scan scratch directory", err)
	}
	if len(matches) == 0 {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "locate", "downloader produced no output file", nil)
	}
	// Partial-download artifacts keep a .part suffix; prefer the finished file.
	for _, match := range matches {
		if filepath.Ext(match) != ".part" {
			return match, nil
		}
	}
	return "", services.Wrap(services.ErrAcquisition, "acquire", "locate", "download did not complete", nil)
}
