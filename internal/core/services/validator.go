package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/core/ports/driving"
	"github.com/refcorpus/corpusctl/internal/logger"
	"github.com/refcorpus/corpusctl/internal/markdown"
)

// requiredFields must be present and non-empty in every document's
// front matter.
var requiredFields = []string{
	"id", "title", "domain", "status", "audience", "tags", "last_reviewed", "summary",
}

var (
	reHTMLTag     = regexp.MustCompile(`<[A-Za-z!/][^>]*>`)
	reHTMLComment = regexp.MustCompile(`<!--`)
	reMDLink      = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)
	reExternal    = regexp.MustCompile(`^(https?|mailto):`)
)

// DefaultWorkers bounds the parse/validate worker pool.
const DefaultWorkers = 8

// Ensure ValidationService implements the interface.
var _ driving.Validator = (*ValidationService)(nil)

// ValidationService checks every document in the source tree.
// Per-document checks run in parallel; the accumulated report is sorted
// afterwards so output never depends on worker completion order. There
// is no shared mutable state across documents other than the
// cross-document pass and the read-only taxonomy.
type ValidationService struct {
	source  driven.DocumentSource
	parser  driven.Parser
	loader  driven.TaxonomyLoader
	ledger  driven.IDLedger
	workers int
}

// Option configures the service.
type Option func(*ValidationService)

// WithLedger attaches the persisted id ledger. Without it, id-reuse
// detection is limited to the current run.
func WithLedger(l driven.IDLedger) Option {
	return func(s *ValidationService) {
		s.ledger = l
	}
}

// WithWorkers sets the parse/validate worker pool size.
func WithWorkers(n int) Option {
	return func(s *ValidationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewValidationService creates a validator over the given source.
func NewValidationService(
	source driven.DocumentSource,
	parser driven.Parser,
	loader driven.TaxonomyLoader,
	opts ...Option,
) *ValidationService {
	s := &ValidationService{
		source:  source,
		parser:  parser,
		loader:  loader,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// docOutcome is one worker's result: parsed document (nil on parse
// failure) plus its per-document issues.
type docOutcome struct {
	path   string
	doc    *domain.Document
	report domain.Report
}

// Validate parses and validates the full document set, accumulating
// every violated rule across all documents.
func (s *ValidationService) Validate(ctx context.Context) (*driving.ValidationResult, error) {
	started := time.Now()
	logger.Section("validate")

	tax, schema, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	paths, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Validating %d documents", len(paths))

	outcomes := make([]docOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, relPath := range paths {
		g.Go(func() error {
			outcomes[i] = s.checkDocument(gctx, relPath, tax, schema)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.Report{}
	var docs []*domain.Document
	for _, out := range outcomes {
		report.Merge(&out.report)
		if out.doc != nil {
			docs = append(docs, out.doc)
		}
	}

	s.checkAcrossDocuments(ctx, docs, report)
	report.Sort()

	result := &driving.ValidationResult{Report: report, Documents: docs}

	// The ledger is only advanced on a clean run; a failing tree must
	// not retire or register anything.
	if s.ledger != nil && !report.HasErrors() {
		retired, err := s.advanceLedger(ctx, docs)
		if err != nil {
			return nil, fmt.Errorf("advancing id ledger: %w", err)
		}
		result.RetiredIDs = retired
	}

	logger.Timing("validate", time.Since(started))
	return result, nil
}

// checkDocument runs every per-document rule, accumulating all
// violations rather than stopping at the first.
func (s *ValidationService) checkDocument(
	ctx context.Context,
	relPath string,
	tax *domain.Taxonomy,
	schema driven.FrontMatterSchema,
) docOutcome {
	out := docOutcome{path: relPath}

	raw, err := s.source.Read(ctx, relPath)
	if err != nil {
		out.report.Errorf(relPath, "", domain.RuleParse, "reading file: %v", err)
		return out
	}

	doc, err := s.parser.Parse(relPath, raw)
	if err != nil {
		out.report.Errorf(relPath, "", domain.RuleParse, "%v", err)
		return out
	}
	out.doc = doc

	s.checkRequiredFields(doc, &out.report)
	s.checkSchema(doc, schema, &out.report)
	s.checkTaxonomy(doc, tax, &out.report)
	s.checkID(doc, &out.report)
	s.checkLastReviewed(doc, &out.report)
	s.checkRawHTML(doc, &out.report)
	s.checkLinks(ctx, doc, &out.report)

	if !markdown.HasH1(doc.Body) {
		out.report.Warnf(relPath, doc.ID, domain.RuleMissingH1, "no H1 heading found in body")
	}

	return out
}

func (s *ValidationService) checkRequiredFields(doc *domain.Document, report *domain.Report) {
	for _, field := range requiredFields {
		v, ok := doc.Meta[field]
		if !ok || v == nil {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleMissingField, "required field %q is missing", field)
			continue
		}
		switch tv := v.(type) {
		case string:
			if strings.TrimSpace(tv) == "" {
				report.Errorf(doc.SourcePath, doc.ID, domain.RuleMissingField, "required field %q is empty", field)
			}
		case []any:
			if len(tv) == 0 {
				report.Errorf(doc.SourcePath, doc.ID, domain.RuleMissingField, "required field %q is empty", field)
			}
		}
	}
}

func (s *ValidationService) checkSchema(doc *domain.Document, schema driven.FrontMatterSchema, report *domain.Report) {
	msgs, err := schema.Check(doc.Meta)
	if err != nil {
		report.Errorf(doc.SourcePath, doc.ID, domain.RuleSchema, "%v", err)
		return
	}
	for _, msg := range msgs {
		report.Errorf(doc.SourcePath, doc.ID, domain.RuleSchema, "%s", msg)
	}
}

func (s *ValidationService) checkTaxonomy(doc *domain.Document, tax *domain.Taxonomy, report *domain.Report) {
	enums := []struct {
		field string
		value string
	}{
		{domain.FieldDomain, doc.Domain},
		{domain.FieldStatus, string(doc.Status)},
		{domain.FieldAudience, doc.Audience},
	}
	for _, e := range enums {
		if e.value == "" {
			continue // already reported as missing
		}
		if !tax.Allows(e.field, e.value) {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleTaxonomy,
				"%s %q not in taxonomy.%s", e.field, e.value, e.field)
		}
	}
	for _, tag := range doc.Tags {
		if !tax.AllowsTag(tag) {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleTaxonomy,
				"tag %q not in curated allowed_tags", tag)
		}
	}
}

func (s *ValidationService) checkID(doc *domain.Document, report *domain.Report) {
	if doc.ID == "" {
		return // already reported as missing
	}
	if !domain.ValidDocID(doc.ID) {
		report.Errorf(doc.SourcePath, doc.ID, domain.RuleIDSyntax,
			"id %q does not match the permanent-id syntax", doc.ID)
	}
}

func (s *ValidationService) checkLastReviewed(doc *domain.Document, report *domain.Report) {
	if doc.LastReviewed == "" {
		return
	}
	day, err := time.Parse("2006-01-02", doc.LastReviewed)
	if err != nil {
		report.Errorf(doc.SourcePath, doc.ID, domain.RuleLastReviewed,
			"last_reviewed %q is not a valid ISO date", doc.LastReviewed)
		return
	}
	if day.After(time.Now().UTC()) {
		report.Errorf(doc.SourcePath, doc.ID, domain.RuleLastReviewed,
			"last_reviewed %q is in the future", doc.LastReviewed)
	}
}

// checkRawHTML rejects HTML tags and comments outside code fences.
func (s *ValidationService) checkRawHTML(doc *domain.Document, report *domain.Report) {
	for _, reg := range markdown.FenceRegions(markdown.SplitLines(doc.Body)) {
		if reg.InFence {
			continue
		}
		seg := strings.Join(reg.Lines, "")
		if reHTMLComment.MatchString(seg) {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleRawHTML, "raw HTML comments are not allowed")
			return
		}
		if reHTMLTag.MatchString(seg) {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleRawHTML, "raw HTML tags are not allowed")
			return
		}
	}
}

// checkLinks resolves relative markdown links against the document's
// directory. External and anchor-only links are skipped.
func (s *ValidationService) checkLinks(ctx context.Context, doc *domain.Document, report *domain.Report) {
	docDir := path.Dir(doc.SourcePath)

	for _, reg := range markdown.FenceRegions(markdown.SplitLines(doc.Body)) {
		if reg.InFence {
			continue
		}
		seg := strings.Join(reg.Lines, "")
		for _, m := range reMDLink.FindAllStringSubmatch(seg, -1) {
			target := strings.TrimSpace(m[1])
			if target == "" || strings.HasPrefix(target, "#") || reExternal.MatchString(target) {
				continue
			}
			// Drop optional title and anchor: (path "title"), path#anchor.
			if i := strings.IndexByte(target, ' '); i >= 0 {
				target = target[:i]
			}
			if i := strings.IndexByte(target, '#'); i >= 0 {
				target = target[:i]
			}
			if target == "" {
				continue
			}

			resolved := path.Join(docDir, target)
			if strings.HasPrefix(resolved, "..") {
				report.Errorf(doc.SourcePath, doc.ID, domain.RuleBrokenLink,
					"link resolves outside the document tree: %s", m[1])
				continue
			}
			if !s.source.Exists(ctx, resolved) {
				report.Errorf(doc.SourcePath, doc.ID, domain.RuleBrokenLink,
					"broken relative link: %s", m[1])
			}
		}
	}
}

// checkAcrossDocuments runs the rules that need the whole set:
// duplicate ids, retired-id reuse, superseded_by resolution, and title
// collision warnings.
func (s *ValidationService) checkAcrossDocuments(ctx context.Context, docs []*domain.Document, report *domain.Report) {
	seen := make(map[string]string, len(docs)) // id -> first path
	titles := make(map[string][]string)        // domain+title -> paths

	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		if first, dup := seen[doc.ID]; dup {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleDuplicateID,
				"duplicate id %q also used by %s", doc.ID, first)
		} else {
			seen[doc.ID] = doc.SourcePath
		}

		if doc.Domain != "" && doc.Title != "" {
			key := doc.Domain + "\x00" + strings.ToLower(strings.TrimSpace(doc.Title))
			titles[key] = append(titles[key], doc.SourcePath)
		}
	}

	for _, doc := range docs {
		if doc.Status != domain.StatusDeprecated {
			continue
		}
		if doc.SupersededBy == "" {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleSupersededBy,
				"deprecated document must declare superseded_by")
			continue
		}
		if _, known := seen[doc.SupersededBy]; !known {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleSupersededBy,
				"superseded_by %q does not refer to a known document id", doc.SupersededBy)
		}
	}

	for key, paths := range titles {
		if len(paths) > 1 {
			_, title, _ := strings.Cut(key, "\x00")
			for _, p := range paths {
				report.Warnf(p, "", domain.RuleTitleCollision,
					"title %q appears in multiple documents of the same domain", title)
			}
		}
	}

	s.checkRetiredIDs(ctx, docs, report)
}

// checkRetiredIDs rejects documents whose id was retired in the
// persisted ledger. Ids are never reused, across builds and time.
func (s *ValidationService) checkRetiredIDs(ctx context.Context, docs []*domain.Document, report *domain.Report) {
	if s.ledger == nil {
		return
	}
	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		entry, err := s.ledger.Entry(ctx, doc.ID)
		if err != nil {
			continue // unknown id, nothing to check
		}
		if entry.Retired() {
			report.Errorf(doc.SourcePath, doc.ID, domain.RuleRetiredID,
				"id %q was retired on %s and may never be reused",
				doc.ID, entry.RetiredAt.UTC().Format("2006-01-02"))
		}
	}
}

// advanceLedger records the clean run: present ids are upserted and
// previously-known ids now absent from the tree are retired.
func (s *ValidationService) advanceLedger(ctx context.Context, docs []*domain.Document) ([]string, error) {
	present := make(map[string]string, len(docs))
	presentSet := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc.ID != "" {
			present[doc.ID] = doc.SourcePath
			presentSet[doc.ID] = struct{}{}
		}
	}

	if err := s.ledger.RecordSeen(ctx, present); err != nil {
		return nil, err
	}
	retired, err := s.ledger.RetireMissing(ctx, presentSet)
	if err != nil {
		return nil, err
	}
	for _, id := range retired {
		logger.Info("Retired id %s", id)
	}
	return retired, nil
}
