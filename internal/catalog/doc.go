// Package catalog defines the song match targets handed to the analyzer.
//
// The catalog is read-only from the pipeline's perspective: the store loads it
// once per job and the analyzer treats it as context. An empty catalog is
// valid input for analyzer variants but fails a job's precondition check when
// the require_catalog toggle is on.
package catalog
