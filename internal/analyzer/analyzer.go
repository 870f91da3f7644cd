package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"songscan/internal/catalog"
	"songscan/internal/config"
)

// Segment is one confirmed song match inside the analyzed media. Segments are
// immutable once produced; the pipeline persists them verbatim.
type Segment struct {
	SongID     string          `json:"songId"`
	StartSec   float64         `json:"startSec"`
	EndSec     float64         `json:"endSec"`
	Confidence float64         `json:"confidence"`
	Evidence   json.RawMessage `json:"evidence,omitempty"`
}

// Validate checks the invariants the pipeline relies on.
func (s Segment) Validate() error {
	if s.SongID == "" {
		return fmt.Errorf("segment missing song id")
	}
	if s.EndSec <= s.StartSec {
		return fmt.Errorf("segment for %s: end %.2f must be after start %.2f", s.SongID, s.EndSec, s.StartSec)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("segment for %s: confidence %.2f outside [0,1]", s.SongID, s.Confidence)
	}
	return nil
}

// Analyzer turns normalized media plus a song catalog into matched segments.
// Implementations must return an empty slice (not an error) for an empty but
// valid catalog or an empty result; errors are reserved for transport and
// protocol failures.
type Analyzer interface {
	Analyze(ctx context.Context, mediaPath string, songs []catalog.Song) ([]Segment, error)
}

// FromConfig constructs the analyzer variant selected by configuration.
// The variant is fixed at startup, not per call.
func FromConfig(cfg *config.Config) (Analyzer, error) {
	switch cfg.Analyzer.Mode {
	case config.AnalyzerModeRemote:
		return NewRemote(RemoteConfig{
			Endpoint:       cfg.Analyzer.Endpoint,
			TimeoutSeconds: cfg.Analyzer.TimeoutSeconds,
		}), nil
	case config.AnalyzerModeFixed:
		return NewFixed(cfg.Analyzer.FallbackSongID), nil
	default:
		return nil, fmt.Errorf("analyzer mode %q not recognized", cfg.Analyzer.Mode)
	}
}
