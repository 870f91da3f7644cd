// Package worker drives job messages through the analysis pipeline: validate
// preconditions, acquire media, normalize its format, invoke the analyzer,
// and persist segments. It owns progress reporting, the single terminal
// status write per job, and release of acquired media.
package worker
