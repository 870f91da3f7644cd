package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"songscan/internal/services"
	"songscan/internal/testsupport"
)

type fakeExecutor struct {
	calls   [][]string
	runFunc func(binary string, args []string) error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	f.calls = append(f.calls, append([]string{binary}, args...))
	if f.runFunc != nil {
		return f.runFunc(binary, args)
	}
	return nil
}

func TestFixtureAcquirerProducesCanonicalWAV(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	acq, err := acquirer.Acquire(context.Background(), "job-1", "ref-1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	t.Cleanup(func() { _ = acq.Cleanup() })

	info, err := os.Stat(acq.Path)
	if err != nil {
		t.Fatalf("fixture file missing: %v", err)
	}
	if info.Size() <= 44 {
		t.Fatalf("fixture file too small: %d bytes", info.Size())
	}

	canonical, err := isCanonicalWAV(acq.Path)
	if err != nil {
		t.Fatalf("isCanonicalWAV failed: %v", err)
	}
	if !canonical {
		t.Fatal("fixture output should be canonical WAV")
	}
}

func TestFixtureCleanupRemovesScratchDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	acq, err := acquirer.Acquire(context.Background(), "job-1", "ref-1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	dir := filepath.Dir(acq.Path)
	if err := acq.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected scratch directory removed, stat returned %v", err)
	}
}

func TestLocalAcquirerCopiesSource(t *testing.T) {
	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "clip.mp4"), []byte("media-bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	cfg := testsupport.NewConfig(t, testsupport.WithLocalSource(sourceDir))

	acquirer, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	acq, err := acquirer.Acquire(context.Background(), "job-2", "clip.mp4")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	t.Cleanup(func() { _ = acq.Cleanup() })

	data, err := os.ReadFile(acq.Path)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "media-bytes" {
		t.Fatalf("copy content mismatch: %q", data)
	}
	if !strings.HasPrefix(acq.Path, cfg.Paths.WorkDir) {
		t.Fatalf("copy %s escaped work dir %s", acq.Path, cfg.Paths.WorkDir)
	}
}

func TestLocalAcquirerMissingSourceIsAcquisitionError(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLocalSource(t.TempDir()))
	acquirer, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	_, err = acquirer.Acquire(context.Background(), "job-3", "missing.mp4")
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
}

func TestRemoteAcquirerBuildsSourceURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Acquisition.SourceBaseURL = "https://media.example.com/watch/"

	exec := &fakeExecutor{
		runFunc: func(binary string, args []string) error {
			// Simulate the downloader writing its output file.
			for i, arg := range args {
				if arg == "--output" {
					dir := filepath.Dir(args[i+1])
					return os.WriteFile(filepath.Join(dir, "source.webm"), []byte("audio"), 0o644)
				}
			}
			return errors.New("no output template in args")
		},
	}
	acquirer := &remoteAcquirer{
		binary:  cfg.YtdlpBinary(),
		baseURL: cfg.Acquisition.SourceBaseURL,
		workDir: cfg.Paths.WorkDir,
		exec:    exec,
	}

	acq, err := acquirer.Acquire(context.Background(), "job-4", "abc123")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	t.Cleanup(func() { _ = acq.Cleanup() })

	if len(exec.calls) != 1 {
		t.Fatalf("expected one downloader invocation, got %d", len(exec.calls))
	}
	call := exec.calls[0]
	url := call[len(call)-1]
	if url != "https://media.example.com/watch/abc123" {
		t.Fatalf("unexpected source URL %q", url)
	}
}

func TestRemoteAcquirerPassesThroughAbsoluteURL(t *testing.T) {
	a := &remoteAcquirer{baseURL: "https://media.example.com"}
	got := a.sourceURL("https://other.example.com/v/xyz")
	if got != "https://other.example.com/v/xyz" {
		t.Fatalf("absolute ref rewritten to %q", got)
	}
}

func TestRemoteAcquirerDownloadFailureCleansUp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	exec := &fakeExecutor{
		runFunc: func(string, []string) error { return errors.New("exit status 1") },
	}
	acquirer := &remoteAcquirer{
		binary:  "yt-dlp",
		baseURL: "https://media.example.com",
		workDir: cfg.Paths.WorkDir,
		exec:    exec,
	}

	_, err := acquirer.Acquire(context.Background(), "job-5", "abc123")
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
	entries, readErr := os.ReadDir(cfg.Paths.WorkDir)
	if readErr != nil {
		t.Fatalf("read work dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected scratch cleanup after failure, found %d entries", len(entries))
	}
}

func TestNormalizePassesThroughCanonicalWAV(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.wav")
	if err := writeSilentWAV(path, cfg.Audio.SampleRate, 1); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	exec := &fakeExecutor{}
	n := NewNormalizer(cfg, WithExecutor(exec))
	out, err := n.Normalize(context.Background(), path)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out != path {
		t.Fatalf("canonical input should pass through, got %q", out)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("transcoder should not run for canonical input, ran %d times", len(exec.calls))
	}
}

func TestNormalizeTranscodesNonCanonicalMedia(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(path, []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	exec := &fakeExecutor{
		runFunc: func(binary string, args []string) error {
			out := args[len(args)-1]
			return os.WriteFile(out, []byte("RIFFxxxxWAVE"), 0o644)
		},
	}
	n := NewNormalizer(cfg, WithExecutor(exec))
	out, err := n.Normalize(context.Background(), path)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if filepath.Dir(out) != dir {
		t.Fatalf("output %s left the scratch directory", out)
	}
	if !strings.HasSuffix(out, ".wav") {
		t.Fatalf("output %s is not a wav path", out)
	}

	call := exec.calls[0]
	joined := strings.Join(call, " ")
	for _, want := range []string{"-vn", "-acodec pcm_s16le", "-ac 1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("transcode args missing %q: %s", want, joined)
		}
	}
}

func TestNormalizeTruncatedWAVHeaderIsTranscoded(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(t.TempDir(), "short.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	exec := &fakeExecutor{
		runFunc: func(binary string, args []string) error {
			out := args[len(args)-1]
			return os.WriteFile(out, []byte("RIFFxxxxWAVE"), 0o644)
		},
	}
	n := NewNormalizer(cfg, WithExecutor(exec))
	out, err := n.Normalize(context.Background(), path)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out == path {
		t.Fatal("a file too short to hold a RIFF header must not pass through")
	}
	if len(exec.calls) != 1 {
		t.Fatalf("expected one transcoder invocation, got %d", len(exec.calls))
	}
}

func TestNormalizeTranscodeFailureIsNormalizationError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(t.TempDir(), "in.mp4")
	if err := os.WriteFile(path, []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	exec := &fakeExecutor{
		runFunc: func(string, []string) error { return errors.New("exit status 1") },
	}
	n := NewNormalizer(cfg, WithExecutor(exec))
	if _, err := n.Normalize(context.Background(), path); !errors.Is(err, services.ErrNormalization) {
		t.Fatalf("expected normalization error, got %v", err)
	}
}
