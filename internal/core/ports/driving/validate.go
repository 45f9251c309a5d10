package driving

import (
	"context"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

// ValidationResult is the outcome of validating the whole document set.
type ValidationResult struct {
	// Report holds every accumulated issue, sorted deterministically.
	Report *domain.Report

	// Documents are all successfully parsed documents keyed in slice
	// order by source path. Present even when the report has errors so
	// callers can inspect partial state; export must not use them.
	Documents []*domain.Document

	// RetiredIDs are ids newly retired in the ledger by this run.
	RetiredIDs []string
}

// Validator checks every document in the source tree against the
// taxonomy and structural rules, accumulating all violations rather
// than failing on the first.
type Validator interface {
	// Validate parses and validates the full document set. The returned
	// error is reserved for infrastructure failures (unreadable tree,
	// broken taxonomy); rule violations are reported via the result.
	Validate(ctx context.Context) (*ValidationResult, error)
}
