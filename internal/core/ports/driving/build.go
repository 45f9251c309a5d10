package driving

import (
	"context"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

// BuildRequest describes one corpus export invocation.
type BuildRequest struct {
	// Version is the corpus version string (corpus-vYYYY.MM.patch).
	Version string

	// OutDir is the output directory for the artifacts.
	OutDir string

	// Force permits overwriting a non-empty output directory.
	Force bool

	// PolicyName selects the chunk policy; empty means the configured
	// default.
	PolicyName string
}

// Builder runs the full pipeline: validate, filter, sort, chunk, emit.
// The build is all-or-nothing: any validation error aborts the run
// before a single artifact byte is written.
type Builder interface {
	// Build produces a versioned corpus export. Returns the manifest on
	// success. Validation failures surface as a domain.ErrValidation-
	// wrapped error carrying the aggregated report.
	Build(ctx context.Context, req BuildRequest) (*domain.Manifest, error)
}
