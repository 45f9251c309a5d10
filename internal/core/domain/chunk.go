package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Chunk represents a deterministically bounded sub-span of a document
// body, the unit of retrieval and citation in the exported corpus.
//
// Chunk ids are a pure function of (document id, ordinal position,
// splitting rule). They never depend on wall-clock time, file system
// iteration order, or random state: re-running the builder on unchanged
// input yields byte-identical ids and ordering.
type Chunk struct {
	// DocID is the owning document's permanent id.
	DocID string

	// ID is the deterministic chunk identifier,
	// e.g. "swd.api.valid.001#h2:overview#p:0001".
	ID string

	// Ordinal is the stable position within the document (0-based).
	Ordinal int

	// Section is the H2 section title the chunk belongs to,
	// or "root" for content before the first H2.
	Section string

	// HeadingPath is the document H1 followed by the section title.
	HeadingPath []string

	// Content is the chunk text.
	Content string
}

// SHA256 returns the hex sha256 of the chunk content.
func (c *Chunk) SHA256() string {
	sum := sha256.Sum256([]byte(c.Content))
	return hex.EncodeToString(sum[:])
}
