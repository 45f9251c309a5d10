package driven

import (
	"context"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

// IDLedger is the persisted historical record of document ids and
// published corpus versions. It backs two guarantees that must hold
// across builds and across time, not just within one run:
//
//   - permanent ids are never reused once retired
//   - a published version is immutable: rebuilding it with different
//     content is rejected
type IDLedger interface {
	// Entry returns the ledger entry for an id, or domain.ErrNotFound.
	Entry(ctx context.Context, id string) (*domain.LedgerEntry, error)

	// Entries returns all ledger entries ordered by id.
	Entries(ctx context.Context) ([]domain.LedgerEntry, error)

	// RecordSeen upserts the given id->path set as seen now. Existing
	// active entries get their last-seen updated; unknown ids are added.
	RecordSeen(ctx context.Context, seen map[string]string) error

	// RetireMissing marks every active entry whose id is absent from
	// present as retired, and returns the retired ids. Called only
	// after a clean validation run.
	RetireMissing(ctx context.Context, present map[string]struct{}) ([]string, error)

	// PublishedVersion returns the record for a version string, or
	// domain.ErrNotFound.
	PublishedVersion(ctx context.Context, version string) (*domain.PublishedVersion, error)

	// PublishedVersions returns all published versions ordered by
	// version string.
	PublishedVersions(ctx context.Context) ([]domain.PublishedVersion, error)

	// RecordPublished stores a newly published version.
	RecordPublished(ctx context.Context, pv domain.PublishedVersion) error

	// Close releases the underlying store.
	Close() error
}
