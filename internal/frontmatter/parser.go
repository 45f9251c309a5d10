// Package frontmatter splits source documents into a YAML front-matter
// block and body text.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
)

// delimiter bounds the front-matter block at the top of a document.
const delimiter = "---"

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts YAML front matter from markdown documents.
// Parsing is a pure function of the input bytes.
type Parser struct{}

// New creates a new front-matter parser.
func New() *Parser {
	return &Parser{}
}

// Parse splits content into front matter and body. The opening
// delimiter must be the first non-blank line; everything between it and
// the closing delimiter is decoded as YAML. Everything after the
// closing delimiter line is body text, including a leading blank line.
func (p *Parser) Parse(relPath string, content []byte) (*domain.Document, error) {
	meta, body, err := split(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrParse, relPath, err)
	}

	doc := &domain.Document{
		SourcePath: relPath,
		Meta:       meta,
		Body:       body,
	}
	populate(doc, meta)
	return doc, nil
}

// split separates the front-matter map from the body text.
func split(content string) (map[string]any, string, error) {
	lines := strings.SplitAfter(content, "\n")

	// The opening marker must be the first non-blank line. Whitespace
	// around the marker itself is tolerated.
	idx := 0
	for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
		idx++
	}
	if idx >= len(lines) || strings.TrimSpace(lines[idx]) != delimiter {
		return nil, "", fmt.Errorf("missing front-matter delimiter %q at top of file", delimiter)
	}

	// Find the closing marker.
	closing := -1
	for i := idx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return nil, "", fmt.Errorf("unbalanced front matter: closing %q not found", delimiter)
	}

	block := strings.Join(lines[idx+1:closing], "")

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, "", fmt.Errorf("invalid YAML front matter: %v", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}

	// Everything after the closing marker line is body text, including
	// a leading blank line.
	body := strings.Join(lines[closing+1:], "")

	return meta, body, nil
}

// populate copies the recognised front-matter keys into typed fields.
// Missing or mistyped keys are left zero for the validator to report.
func populate(doc *domain.Document, meta map[string]any) {
	doc.ID = stringKey(meta, "id")
	doc.Title = stringKey(meta, "title")
	doc.Domain = stringKey(meta, "domain")
	doc.Status = domain.Status(stringKey(meta, "status"))
	doc.Audience = stringKey(meta, "audience")
	doc.LastReviewed = stringKey(meta, "last_reviewed")
	doc.Summary = stringKey(meta, "summary")
	doc.SupersededBy = stringKey(meta, "superseded_by")
	doc.Tags = stringSliceKey(meta, "tags")
}

func stringKey(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		// Unquoted ISO dates decode as timestamps.
		return v.Format("2006-01-02")
	}
	return ""
}

func stringSliceKey(meta map[string]any, key string) []string {
	switch v := meta[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
