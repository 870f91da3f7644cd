// Package services holds the cross-cutting error taxonomy and context plumbing
// shared by pipeline stages.
//
// Stage code wraps failures with services.Wrap so the worker can record a
// terminal error message attributable to the originating stage, and tags
// contexts with job/video/stage identifiers so log lines stay correlated
// without threading extra parameters through every call.
package services
