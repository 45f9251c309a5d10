package driven

import (
	"context"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

// Artifacts holds the fully serialised export, rendered before any
// byte touches disk so the integrity hash can be checked against the
// published-version ledger first.
type Artifacts struct {
	CorpusJSONL  []byte
	IndexJSON    []byte
	ManifestJSON []byte
	Manifest     domain.Manifest
}

// ArtifactWriter serialises an assembled export into the versioned
// output artifacts (chunk list, document index, manifest).
type ArtifactWriter interface {
	// Render serialises the export deterministically: the same export
	// always produces byte-identical artifact bytes. The manifest
	// integrity hash covers the corpus and index bytes.
	Render(export *domain.Export) (*Artifacts, error)

	// Write commits rendered artifacts into outDir. Returns a
	// domain.ErrBuild-wrapped error when outDir already contains
	// conflicting output and overwrite was not explicitly permitted.
	Write(ctx context.Context, outDir string, artifacts *Artifacts, overwrite bool) error
}
