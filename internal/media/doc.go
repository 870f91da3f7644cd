// Package media acquires source media into per-job scratch directories and
// normalizes it to the canonical analysis format. Acquisition variants cover
// remote download, local copy, and a deterministic synthesized fixture.
package media
