package domain

import "time"

// LedgerEntry is one row of the persisted historical id ledger.
// The ledger is append-only: ids are recorded when first seen and
// marked retired when they disappear from the source tree. A retired
// id reappearing is a reuse attempt and fails validation, so the
// never-reuse guarantee holds across builds and time, not just within
// one run.
type LedgerEntry struct {
	// ID is the permanent document id.
	ID string

	// Path is the source path the id was last seen at.
	Path string

	// FirstSeen is when the id first entered the ledger.
	FirstSeen time.Time

	// LastSeen is the most recent clean validation run including the id.
	LastSeen time.Time

	// RetiredAt is set when the id vanished from the tree. Nil while
	// the id is active.
	RetiredAt *time.Time
}

// Retired reports whether the id has been retired.
func (e *LedgerEntry) Retired() bool {
	return e.RetiredAt != nil
}

// PublishedVersion records a corpus version that has been built and
// published. Rebuilding a published version with a different integrity
// hash is a policy violation and is rejected.
type PublishedVersion struct {
	// RunID is an opaque identifier for the publishing build run.
	RunID string

	// Version is the corpus version string.
	Version string

	// Integrity is the manifest integrity hash of the published build.
	Integrity string

	// DocCount and ChunkCount mirror the published manifest.
	DocCount   int
	ChunkCount int

	// PublishedAt is when the version was recorded.
	PublishedAt time.Time
}
