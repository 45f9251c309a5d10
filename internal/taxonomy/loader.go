// Package taxonomy loads the controlled vocabulary and the front-matter
// JSON Schema from the repository's schema directory.
package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/logger"
)

// Default file names inside the schema directory.
const (
	TaxonomyFile = "taxonomy.json"
	SchemaFile   = "front_matter.schema.json"
)

// Ensure Loader implements the interface.
var _ driven.TaxonomyLoader = (*Loader)(nil)

// Loader reads taxonomy.json and front_matter.schema.json from a
// schema directory. The taxonomy file is required; the JSON Schema is
// optional and falls back to a no-op check when absent.
type Loader struct {
	schemaDir string
}

// New creates a loader for the given schema directory.
func New(schemaDir string) *Loader {
	return &Loader{schemaDir: schemaDir}
}

// Load reads and verifies the taxonomy, then compiles the front-matter
// schema. Loaded once per build invocation and shared immutably by all
// validation calls.
func (l *Loader) Load(_ context.Context) (*domain.Taxonomy, driven.FrontMatterSchema, error) {
	taxPath := filepath.Join(l.schemaDir, TaxonomyFile)
	raw, err := os.ReadFile(taxPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", domain.ErrSchema, taxPath, err)
	}

	var tax domain.Taxonomy
	if err := json.Unmarshal(raw, &tax); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrSchema, taxPath, err)
	}
	if err := tax.Validate(); err != nil {
		return nil, nil, err
	}

	schema, err := l.loadSchema()
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Loaded taxonomy from %s (%d domains, %d tags)",
		taxPath, len(tax.Domains), len(tax.TagPolicy.AllowedTags))

	return &tax, schema, nil
}

// loadSchema compiles front_matter.schema.json. A missing schema file
// is the one recoverable condition in the pipeline: it degrades to a
// no-op check rather than failing the build.
func (l *Loader) loadSchema() (driven.FrontMatterSchema, error) {
	schemaPath := filepath.Join(l.schemaDir, SchemaFile)
	raw, err := os.ReadFile(schemaPath)
	if os.IsNotExist(err) {
		logger.Warn("No %s found, structural schema checks disabled", SchemaFile)
		return noopSchema{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrSchema, schemaPath, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %s: %v", domain.ErrSchema, schemaPath, err)
	}
	return &jsonSchema{schema: compiled}, nil
}

// jsonSchema checks front matter against a compiled JSON Schema.
type jsonSchema struct {
	schema *gojsonschema.Schema
}

// Check validates the front-matter map. Violation messages are sorted
// so report output is deterministic regardless of evaluation order.
func (s *jsonSchema) Check(meta map[string]any) ([]string, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(meta))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	sort.Strings(msgs)
	return msgs, nil
}

// noopSchema accepts everything; used when no schema file is present.
type noopSchema struct{}

func (noopSchema) Check(map[string]any) ([]string, error) { return nil, nil }
