package preflight

import (
	"context"

	"songscan/internal/config"
	"songscan/internal/queue"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config, q *queue.Client) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	if q != nil {
		results = append(results, CheckQueue(ctx, q))
	}

	if cfg.Analyzer.Mode == config.AnalyzerModeRemote {
		results = append(results, CheckAnalyzer(ctx, cfg.Analyzer.Endpoint))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
