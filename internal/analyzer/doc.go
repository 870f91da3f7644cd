// Package analyzer abstracts the song-matching service behind a single
// Analyze capability with two interchangeable variants.
//
// The remote variant serializes the media reference and song catalog to the
// configured analyzer endpoint and enforces a request timeout; the fixed
// variant returns a deterministic segment pair for deployments without an
// analyzer service. Both treat an empty catalog or empty result as valid and
// only fail on transport or protocol errors.
package analyzer
