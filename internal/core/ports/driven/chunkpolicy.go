package driven

import "github.com/refcorpus/corpusctl/internal/core/domain"

// ChunkPolicy deterministically partitions a document body into an
// ordered sequence of chunks. The splitting rule is pluggable and
// versioned: the manifest records which policy produced an export,
// since chunk boundaries are a compatibility surface for downstream
// consumers.
//
// Implementations must be pure: same input bytes always produce the
// same chunk boundaries and identifiers, independent of wall-clock
// time, file-system order, or random state. Re-invoking on the same
// document yields the identical sequence.
type ChunkPolicy interface {
	// Name returns the policy identifier used in configuration and the
	// manifest, e.g. "h2para".
	Name() string

	// Version returns the policy revision, e.g. "v1". Any change to the
	// splitting rule must bump the version.
	Version() string

	// Chunk splits the document body. Chunks are returned in order with
	// 0-based ordinals assigned.
	Chunk(doc *domain.Document) ([]domain.Chunk, error)
}
