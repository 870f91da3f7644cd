// Package store persists jobs, videos, songs, and matched segments in SQLite.
//
// The Store is the pipeline's result sink and catalog source: workers record
// job progress through it, replace a video's segments on completion, and load
// the song catalog at job start. The schema is embedded and versioned; schema
// changes bump the version in schema.go and require clearing the database.
//
// All writes run through a busy-retry helper because multiple workers share
// one database file in WAL mode.
package store
