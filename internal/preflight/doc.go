// Package preflight validates the runtime environment before the daemon
// starts accepting work: directory permissions, queue reachability, the
// analyzer endpoint, and external binaries.
package preflight
