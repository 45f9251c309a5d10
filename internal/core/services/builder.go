package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/core/ports/driving"
	"github.com/refcorpus/corpusctl/internal/logger"
)

// Ensure BuildOrchestrator implements the interface.
var _ driving.Builder = (*BuildOrchestrator)(nil)

// BuildOrchestrator runs the export pipeline: validate, filter to
// exportable documents, sort by id, chunk, render, and emit. The build
// is atomic: it either writes the complete artifact set or nothing.
type BuildOrchestrator struct {
	validator     driving.Validator
	policies      map[string]driven.ChunkPolicy
	defaultPolicy string
	writer        driven.ArtifactWriter
	ledger        driven.IDLedger
	excluded      []string
}

// NewBuildOrchestrator creates a builder. The policies map must contain
// defaultPolicy. The ledger may be nil, disabling the published-version
// immutability check.
func NewBuildOrchestrator(
	validator driving.Validator,
	writer driven.ArtifactWriter,
	policies map[string]driven.ChunkPolicy,
	defaultPolicy string,
	excluded []string,
	ledger driven.IDLedger,
) *BuildOrchestrator {
	return &BuildOrchestrator{
		validator:     validator,
		policies:      policies,
		defaultPolicy: defaultPolicy,
		writer:        writer,
		ledger:        ledger,
		excluded:      excluded,
	}
}

// Build produces a versioned corpus export.
func (o *BuildOrchestrator) Build(ctx context.Context, req driving.BuildRequest) (*domain.Manifest, error) {
	started := time.Now()
	logger.Section("build " + req.Version)

	if err := domain.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	policy, err := o.selectPolicy(req.PolicyName)
	if err != nil {
		return nil, err
	}

	// 1. Validate everything. Any error means no output at all.
	result, err := o.validator.Validate(ctx)
	if err != nil {
		return nil, err
	}
	if result.Report.HasErrors() {
		return nil, &domain.ValidationFailed{Report: result.Report}
	}

	// 2. Filter to exportable documents and order them by id. The
	// excluded globs apply here, not at validation: drafts and
	// templates are checked like any other document but never shipped.
	// Directory enumeration order must never leak into the export.
	var docs []*domain.Document
	for _, doc := range result.Documents {
		if !doc.Exportable() || o.excludedPath(doc.SourcePath) {
			continue
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].ID < docs[b].ID })
	logger.Info("Exporting %d of %d documents", len(docs), len(result.Documents))

	// 3. Chunk in document order.
	export := &domain.Export{
		Version:    req.Version,
		PolicyName: policy.Name(),
		PolicyVer:  policy.Version(),
		Excluded:   o.excluded,
	}
	for _, doc := range docs {
		chunks, err := policy.Chunk(doc)
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", doc.ID, err)
		}
		for _, c := range chunks {
			export.Chunks = append(export.Chunks, domain.ChunkRecord{
				CorpusVersion: req.Version,
				DocID:         doc.ID,
				ChunkID:       c.ID,
				SourcePath:    doc.SourcePath,
				Title:         doc.Title,
				Domain:        doc.Domain,
				Status:        string(doc.Status),
				Audience:      doc.Audience,
				Tags:          doc.Tags,
				HeadingPath:   c.HeadingPath,
				ContentType:   "text/markdown",
				Content:       c.Content,
				SHA256:        c.SHA256(),
				CharCount:     len(c.Content),
			})
		}
		export.Documents = append(export.Documents, domain.IndexEntry{
			DocID:      doc.ID,
			Title:      doc.Title,
			Domain:     doc.Domain,
			Status:     string(doc.Status),
			Audience:   doc.Audience,
			Tags:       doc.Tags,
			SourcePath: doc.SourcePath,
			BodySHA256: doc.BodySHA256(),
			CharCount:  len(doc.Body),
			ChunkCount: len(chunks),
		})
	}

	// 4. Render in memory, then enforce version immutability before
	// anything is written.
	artifacts, err := o.writer.Render(export)
	if err != nil {
		return nil, err
	}
	if err := o.checkPublished(ctx, req.Version, artifacts.Manifest.Integrity); err != nil {
		return nil, err
	}

	// 5. Commit artifacts and record the publication.
	if err := o.writer.Write(ctx, req.OutDir, artifacts, req.Force); err != nil {
		return nil, err
	}
	if err := o.recordPublished(ctx, &artifacts.Manifest); err != nil {
		return nil, err
	}

	logger.Timing("build", time.Since(started))
	return &artifacts.Manifest, nil
}

// excludedPath applies the export exclusion globs to a slash-separated
// relative source path.
func (o *BuildOrchestrator) excludedPath(rel string) bool {
	for _, glob := range o.excluded {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
	}
	return false
}

// selectPolicy resolves the requested chunk policy name.
func (o *BuildOrchestrator) selectPolicy(name string) (driven.ChunkPolicy, error) {
	if name == "" {
		name = o.defaultPolicy
	}
	policy, ok := o.policies[name]
	if !ok {
		names := make([]string, 0, len(o.policies))
		for n := range o.policies {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: unknown chunk policy %q (available: %v)", domain.ErrBuild, name, names)
	}
	return policy, nil
}

// checkPublished rejects rebuilding a published version with different
// content. Rebuilding with identical content is a no-op-equivalent and
// is allowed.
func (o *BuildOrchestrator) checkPublished(ctx context.Context, version, integrity string) error {
	if o.ledger == nil {
		return nil
	}
	pv, err := o.ledger.PublishedVersion(ctx, version)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking published versions: %w", err)
	}
	if pv.Integrity != integrity {
		return fmt.Errorf("%w: version %s was already published with integrity %s; rebuilding it with different content violates the immutability policy",
			domain.ErrBuild, version, pv.Integrity)
	}
	return nil
}

// recordPublished stores the publication in the ledger.
func (o *BuildOrchestrator) recordPublished(ctx context.Context, m *domain.Manifest) error {
	if o.ledger == nil {
		return nil
	}
	pv := domain.PublishedVersion{
		RunID:       uuid.New().String(),
		Version:     m.CorpusVersion,
		Integrity:   m.Integrity,
		DocCount:    m.DocCount,
		ChunkCount:  m.ChunkCount,
		PublishedAt: time.Now().UTC(),
	}
	if err := o.ledger.RecordPublished(ctx, pv); err != nil {
		return fmt.Errorf("recording published version: %w", err)
	}
	return nil
}
