package fixed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

func TestChunk_WindowsReconstructBody(t *testing.T) {
	p := New(WithWindow(4))
	d := &domain.Document{ID: "shr.style.writing.001", Body: "abcdefghij"}

	chunks, err := p.Chunk(d)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "shr.style.writing.001#pos:0001", chunks[0].ID)
	assert.Equal(t, "abcd", chunks[0].Content)
	assert.Equal(t, "efgh", chunks[1].Content)
	assert.Equal(t, "ij", chunks[2].Content)
	assert.Equal(t, 2, chunks[2].Ordinal)

	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Content)
	}
	assert.Equal(t, d.Body, sb.String())
}

func TestChunk_RuneBoundaries(t *testing.T) {
	p := New(WithWindow(2))
	d := &domain.Document{ID: "shr.style.writing.001", Body: "日本語です"}

	chunks, err := p.Chunk(d)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "日本", chunks[0].Content)
	assert.Equal(t, "語で", chunks[1].Content)
	assert.Equal(t, "す", chunks[2].Content)
}

func TestChunk_EmptyBody(t *testing.T) {
	p := New()

	chunks, err := p.Chunk(&domain.Document{ID: "shr.style.writing.001"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_DefaultWindow(t *testing.T) {
	p := New()
	d := &domain.Document{
		ID:   "shr.style.writing.001",
		Body: strings.Repeat("x", DefaultWindow+1),
	}

	chunks, err := p.Chunk(d)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Content, DefaultWindow)
	assert.Len(t, chunks[1].Content, 1)
}

func TestChunk_HeadingPathUsesH1(t *testing.T) {
	p := New(WithWindow(100))
	d := &domain.Document{ID: "shr.style.writing.001", Title: "Fallback", Body: "# Real Heading\ntext\n"}

	chunks, err := p.Chunk(d)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"Real Heading", "root"}, chunks[0].HeadingPath)
}

func TestWithWindow_IgnoresNonPositive(t *testing.T) {
	p := New(WithWindow(0))
	assert.Equal(t, DefaultWindow, p.window)
}
