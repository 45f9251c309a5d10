package driven

import "github.com/refcorpus/corpusctl/internal/core/domain"

// Parser splits raw file content into front matter and body text.
// Parse is a pure function of its input: no side effects, no state.
type Parser interface {
	// Parse extracts the front-matter block and body from content.
	// relPath is recorded on the returned document for reporting.
	// Returns a domain.ErrParse-wrapped error when the front-matter
	// marker is missing, the block is not well-formed YAML, or the
	// delimiters are unbalanced.
	Parse(relPath string, content []byte) (*domain.Document, error)
}
