// Package h2para implements the default chunk policy: H2 sections
// split into paragraph sub-chunks, both outside fenced code blocks.
package h2para

import (
	"fmt"
	"strings"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/markdown"
)

// PolicyName identifies this policy in configuration and manifests.
const PolicyName = "h2para"

// PolicyVersion is bumped on any change to the splitting rule, since
// chunk boundaries are a compatibility surface.
const PolicyVersion = "v1"

// Ensure Policy implements the interface.
var _ driven.ChunkPolicy = (*Policy)(nil)

// Policy splits a document body into H2 sections, then each section
// into paragraph blocks. Content before the first H2 forms a "root"
// pseudo-section. Chunk ids are <doc_id>#h2:<slug>#p:NNNN with a
// 1-based, 4-digit paragraph ordinal, a pure function of document id
// and position.
type Policy struct{}

// New creates the policy.
func New() *Policy {
	return &Policy{}
}

// Name returns the policy identifier.
func (p *Policy) Name() string { return PolicyName }

// Version returns the policy revision.
func (p *Policy) Version() string { return PolicyVersion }

// Chunk splits the document body. Re-invoking on the same document
// yields the identical sequence.
func (p *Policy) Chunk(doc *domain.Document) ([]domain.Chunk, error) {
	h1 := markdown.ExtractH1(doc.Body)
	if h1 == "" {
		h1 = doc.Title
	}

	var chunks []domain.Chunk
	for _, sec := range sections(doc.Body) {
		paras := paragraphs(sec.lines)
		for i, para := range paras {
			chunks = append(chunks, domain.Chunk{
				DocID:       doc.ID,
				ID:          fmt.Sprintf("%s#h2:%s#p:%04d", doc.ID, sec.slug, i+1),
				Ordinal:     len(chunks),
				Section:     sec.title,
				HeadingPath: []string{h1, sec.title},
				Content:     para,
			})
		}
	}
	return chunks, nil
}

// section is one H2-delimited span of the body.
type section struct {
	title string
	slug  string
	lines []string
}

// sections splits the body at H2 headings outside code fences,
// prepending a root pseudo-section for leading content.
func sections(body string) []section {
	regions := markdown.FenceRegions(markdown.SplitLines(body))

	var out []section
	current := section{title: "root", slug: "root"}

	push := func() {
		out = append(out, current)
	}

	for _, reg := range regions {
		if reg.InFence {
			current.lines = append(current.lines, reg.Lines...)
			continue
		}
		for _, line := range reg.Lines {
			if title := markdown.MatchH2(line); title != "" {
				push()
				current = section{
					title: title,
					slug:  markdown.Slugify(title),
					lines: []string{line},
				}
			} else {
				current.lines = append(current.lines, line)
			}
		}
	}

	push()
	return out
}

// paragraphs splits section lines into blocks separated by blank lines,
// never splitting inside fenced code blocks. Each paragraph is trimmed
// and normalised to end with a single newline.
func paragraphs(lines []string) []string {
	regions := markdown.FenceRegions(lines)

	var out []string
	var buf []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(buf, ""))
		if text != "" {
			out = append(out, text+"\n")
		}
		buf = nil
	}

	for _, reg := range regions {
		if reg.InFence {
			buf = append(buf, reg.Lines...)
			continue
		}
		for _, line := range reg.Lines {
			if strings.TrimSpace(line) == "" {
				flush()
			} else {
				buf = append(buf, line)
			}
		}
	}

	flush()
	return out
}
