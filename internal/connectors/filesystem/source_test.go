package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestNew_RejectsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestNew_RejectsFileRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"file.md": "x"})
	_, err := New(filepath.Join(root, "file.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestNew_RejectsInvalidGlob(t *testing.T) {
	root := t.TempDir()
	_, err := New(root, WithExcluded([]string{"[unterminated"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob")
}

func TestList_SortedMarkdownOnly(t *testing.T) {
	root := writeTree(t, map[string]string{
		"zzz/last.md":  "z",
		"aaa/first.md": "a",
		"top.md":       "t",
		"notes.txt":    "skip",
	})
	s, err := New(root)
	require.NoError(t, err)

	paths, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa/first.md", "top.md", "zzz/last.md"}, paths)
}

func TestList_AppliesExclusions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"guide.md":             "keep",
		"_drafts/wip.md":       "skip",
		"sub/_templates/t.md":  "skip",
		"sub/_deprecated/d.md": "skip",
		"sub/live.md":          "keep",
	})
	s, err := New(root, WithExcluded(domain.DefaultExcludedGlobs))
	require.NoError(t, err)

	paths, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"guide.md", "sub/live.md"}, paths)
}

func TestList_SkipsDotEntries(t *testing.T) {
	root := writeTree(t, map[string]string{
		".git/blob.md":  "skip",
		".hidden.md":    "skip",
		"visible.md":    "keep",
		"dir/.hidden.md": "skip",
	})
	s, err := New(root)
	require.NoError(t, err)

	paths, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.md"}, paths)
}

func TestRead(t *testing.T) {
	root := writeTree(t, map[string]string{"a/doc.md": "hello\n"})
	s, err := New(root)
	require.NoError(t, err)

	data, err := s.Read(context.Background(), "a/doc.md")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestExists(t *testing.T) {
	root := writeTree(t, map[string]string{"a/doc.md": "x"})
	s, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, s.Exists(ctx, "a/doc.md"))
	assert.True(t, s.Exists(ctx, "a"))
	assert.False(t, s.Exists(ctx, "a/missing.md"))
	assert.False(t, s.Exists(ctx, "../outside.md"))
}
