package h2para

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

func doc(body string) *domain.Document {
	return &domain.Document{
		ID:    "swd.testing.guide.001",
		Title: "Testing Guide",
		Body:  body,
	}
}

func TestChunk_RootAndSections(t *testing.T) {
	p := New()

	body := "# Testing Guide\n\nIntro paragraph.\n\n## Unit Tests\n\nWrite small tests.\n\nKeep them fast.\n"
	chunks, err := p.Chunk(doc(body))
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	// Content before the first H2 lands in the root pseudo-section.
	assert.Equal(t, "swd.testing.guide.001#h2:root#p:0001", chunks[0].ID)
	assert.Equal(t, "root", chunks[0].Section)
	assert.Equal(t, "# Testing Guide\n", chunks[0].Content)

	assert.Equal(t, "swd.testing.guide.001#h2:root#p:0002", chunks[1].ID)
	assert.Equal(t, "Intro paragraph.\n", chunks[1].Content)

	// Paragraph numbering restarts per section, ordinals do not.
	assert.Equal(t, "swd.testing.guide.001#h2:unit-tests#p:0001", chunks[2].ID)
	assert.Equal(t, "Unit Tests", chunks[2].Section)
	assert.Equal(t, "## Unit Tests\n", chunks[2].Content)
	assert.Equal(t, 2, chunks[2].Ordinal)

	assert.Equal(t, "swd.testing.guide.001#h2:unit-tests#p:0002", chunks[3].ID)
	assert.Equal(t, "Write small tests.\n", chunks[3].Content)

	assert.Equal(t, "swd.testing.guide.001#h2:unit-tests#p:0003", chunks[4].ID)
	assert.Equal(t, "Keep them fast.\n", chunks[4].Content)
}

func TestChunk_HeadingPath(t *testing.T) {
	p := New()

	chunks, err := p.Chunk(doc("# Title Line\n\n## Section A\n\ntext\n"))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	last := chunks[len(chunks)-1]
	assert.Equal(t, []string{"Title Line", "Section A"}, last.HeadingPath)
}

func TestChunk_HeadingPathFallsBackToTitle(t *testing.T) {
	p := New()

	chunks, err := p.Chunk(doc("no h1 here\n"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"Testing Guide", "root"}, chunks[0].HeadingPath)
}

func TestChunk_FencesNeverSplit(t *testing.T) {
	p := New()

	body := "## Code\n\nbefore\n```\nin fence\n\n## not a heading\n\nmore code\n```\nafter\n"
	chunks, err := p.Chunk(doc(body))
	require.NoError(t, err)

	// The blank lines and the fake heading inside the fence stay in
	// one paragraph with the surrounding prose.
	require.Len(t, chunks, 2)
	assert.Equal(t, "## Code\n", chunks[0].Content)
	assert.Contains(t, chunks[1].Content, "## not a heading")
	assert.Contains(t, chunks[1].Content, "after")
	for _, c := range chunks {
		assert.Equal(t, "Code", c.Section)
	}
}

func TestChunk_EmptyBody(t *testing.T) {
	p := New()

	chunks, err := p.Chunk(doc(""))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_Deterministic(t *testing.T) {
	p := New()
	d := doc("# T\n\npara one\n\n## S\n\npara two\n")

	first, err := p.Chunk(d)
	require.NoError(t, err)
	second, err := p.Chunk(d)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChunk_DuplicateSectionSlugs(t *testing.T) {
	p := New()

	// Two sections slugging to the same value keep independent
	// paragraph counters, so their chunk ids collide. The exporter
	// emits the colliding ids as-is.
	body := "## Setup\n\na\n\n## Setup\n\nb\n"
	chunks, err := p.Chunk(doc(body))
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, "swd.testing.guide.001#h2:setup#p:0001", chunks[0].ID)
	assert.Equal(t, "swd.testing.guide.001#h2:setup#p:0001", chunks[2].ID)
}
