// Package config loads, normalizes, and validates songscan configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: queue connection, worker pool size, acquisition mode,
// analyzer selection, and external tool overrides.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical mode strings, and clear validation errors.
package config
