// Package daemon combines the queue consumer, worker pool, and result store
// into a single lifecycle with flock-based locking to prevent multiple
// instances from sharing one data directory.
package daemon
