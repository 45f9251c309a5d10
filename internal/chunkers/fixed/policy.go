// Package fixed implements a fixed-size chunk policy: the document
// body is cut into character windows of a configured width.
package fixed

import (
	"fmt"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/markdown"
)

// PolicyName identifies this policy in configuration and manifests.
const PolicyName = "fixed"

// PolicyVersion is bumped on any change to the splitting rule.
const PolicyVersion = "v1"

// DefaultWindow is the default chunk width in runes.
const DefaultWindow = 1200

// Ensure Policy implements the interface.
var _ driven.ChunkPolicy = (*Policy)(nil)

// Policy cuts the body into consecutive rune windows. Chunk ids are
// <doc_id>#pos:NNNN with a 1-based, 4-digit window ordinal. Windows
// never overlap, so concatenating chunks reconstructs the body exactly.
type Policy struct {
	window int
}

// Option configures the policy.
type Option func(*Policy)

// WithWindow sets the chunk width in runes.
func WithWindow(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.window = n
		}
	}
}

// New creates the policy with the given options.
func New(opts ...Option) *Policy {
	p := &Policy{window: DefaultWindow}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the policy identifier.
func (p *Policy) Name() string { return PolicyName }

// Version returns the policy revision.
func (p *Policy) Version() string { return PolicyVersion }

// Chunk splits the document body into rune windows.
func (p *Policy) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	if doc.Body == "" {
		return nil, nil
	}

	h1 := markdown.ExtractH1(doc.Body)
	if h1 == "" {
		h1 = doc.Title
	}

	runes := []rune(doc.Body)
	chunks := make([]domain.Chunk, 0, len(runes)/p.window+1)

	for start := 0; start < len(runes); start += p.window {
		end := start + p.window
		if end > len(runes) {
			end = len(runes)
		}
		ordinal := len(chunks)
		chunks = append(chunks, domain.Chunk{
			DocID:       doc.ID,
			ID:          fmt.Sprintf("%s#pos:%04d", doc.ID, ordinal+1),
			Ordinal:     ordinal,
			Section:     "root",
			HeadingPath: []string{h1, "root"},
			Content:     string(runes[start:end]),
		})
	}

	return chunks, nil
}
