package driven

import (
	"context"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

// FrontMatterSchema validates a decoded front-matter map against the
// repository's structural schema. Violations are returned as messages,
// one per failed constraint, so the validator can report them all.
type FrontMatterSchema interface {
	Check(meta map[string]any) ([]string, error)
}

// TaxonomyLoader loads the controlled vocabulary and the front-matter
// schema. Called once per build; the returned taxonomy is shared
// read-only by all validation calls.
type TaxonomyLoader interface {
	// Load reads the taxonomy definition. Returns a domain.ErrSchema-
	// wrapped error if the definition is missing, malformed, or
	// internally inconsistent. The schema may be a no-op when the
	// optional schema file is absent.
	Load(ctx context.Context) (*domain.Taxonomy, FrontMatterSchema, error)
}
