package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"songscan/internal/config"
	"songscan/internal/services"
)

// Normalizer converts acquired media to the canonical analysis format:
// 16-bit PCM WAV, single channel, at the configured sample rate.
type Normalizer struct {
	binary     string
	sampleRate int
	exec       Executor
}

// NewNormalizer constructs a normalizer from configuration.
func NewNormalizer(cfg *config.Config, opts ...Option) *Normalizer {
	settings := newOptions(opts...)
	return &Normalizer{
		binary:     cfg.FFmpegBinary(),
		sampleRate: cfg.Audio.SampleRate,
		exec:       settings.exec,
	}
}

// Normalize returns a path to canonical-format audio for the given media.
// Media already in canonical form passes through untouched; everything else
// is transcoded into a sibling file inside the same scratch directory.
func (n *Normalizer) Normalize(ctx context.Context, mediaPath string) (string, error) {
	canonical, err := isCanonicalWAV(mediaPath)
	if err != nil {
		return "", services.Wrap(services.ErrNormalization, "normalize", "sniff", "inspect "+mediaPath, err)
	}
	if canonical {
		return mediaPath, nil
	}

	outPath := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".normalized.wav"
	args := []string{
		"-y",
		"-i", mediaPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(n.sampleRate),
		"-ac", "1",
		outPath,
	}
	if err := n.exec.Run(ctx, n.binary, args, nil); err != nil {
		return "", services.Wrap(services.ErrNormalization, "normalize", "transcode", "transcode "+mediaPath, err)
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", services.Wrap(services.ErrNormalization, "normalize", "transcode", "transcode produced no output", err)
	}
	return outPath, nil
}

// isCanonicalWAV checks the extension and the RIFF/WAVE magic. Container
// sniffing beyond the header is left to the transcoder.
func isCanonicalWAV(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return false, nil
	}
	return bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")), nil
}
