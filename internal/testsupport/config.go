package testsupport

import (
	"path/filepath"
	"testing"

	"songscan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Acquisition and analysis default to their deterministic modes so tests
// never reach external tools or services.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Acquisition.Mode = config.AcquisitionModeFixture
	cfg.Analyzer.Mode = config.AnalyzerModeFixed
	cfg.Queue.Workers = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAnalyzerEndpoint switches the test config to the remote analyzer.
func WithAnalyzerEndpoint(endpoint string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Analyzer.Mode = config.AnalyzerModeRemote
		cfg.Analyzer.Endpoint = endpoint
	}
}

// WithLocalSource switches acquisition to local-copy mode rooted at path.
func WithLocalSource(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Acquisition.Mode = config.AcquisitionModeLocal
		cfg.Acquisition.LocalSourcePath = path
	}
}
