package media

import (
	"bufio"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"songscan/internal/config"
	"songscan/internal/services"
)

// fixtureAcquirer synthesizes a silent mono WAV instead of fetching anything.
// It gives the pipeline a deterministic media file for tests and dry runs.
type fixtureAcquirer struct {
	workDir         string
	durationSeconds int
	sampleRate      int
}

func newFixtureAcquirer(cfg *config.Config) *fixtureAcquirer {
	return &fixtureAcquirer{
		workDir:         cfg.Paths.WorkDir,
		durationSeconds: cfg.Acquisition.FixtureDurationSeconds,
		sampleRate:      cfg.Audio.SampleRate,
	}
}

func (a *fixtureAcquirer) Acquire(ctx context.Context, jobID, sourceRef string) (*Acquisition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, cleanup, err := newScratchDir(a.workDir, jobID)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "source.wav")
	if err := writeSilentWAV(path, a.sampleRate, a.durationSeconds); err != nil {
		_ = cleanup()
		return nil, services.Wrap(services.ErrAcquisition, "acquire", "fixture", "write fixture media", err)
	}
	return &Acquisition{Path: path, Cleanup: cleanup}, nil
}

// writeSilentWAV emits a canonical PCM WAV file: 16-bit signed little-endian
// samples, single channel, all zero.
func writeSilentWAV(path string, sampleRate, durationSeconds int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const (
		channels      = 1
		bitsPerSample = 16
	)
	sampleCount := sampleRate * durationSeconds
	dataSize := uint32(sampleCount * channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate * channels * bitsPerSample / 8)
	blockAlign := uint16(channels * bitsPerSample / 8)

	w := bufio.NewWriter(f)
	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(36+dataSize))
	w.WriteString("WAVE")

	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(w, binary.LittleEndian, uint16(channels))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(w, binary.LittleEndian, byteRate)
	binary.Write(w, binary.LittleEndian, blockAlign)
	binary.Write(w, binary.LittleEndian, uint16(bitsPerSample))

	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, dataSize)
	silence := make([]byte, 32*1024)
	remaining := int(dataSize)
	for remaining > 0 {
		chunk := len(silence)
		if remaining < chunk {
			chunk = remaining
		}
		if _, err := w.Write(silence[:chunk]); err != nil {
			return err
		}
		remaining -= chunk
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
