package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcorpus/corpusctl/internal/adapters/driven/export/jsonl"
	"github.com/refcorpus/corpusctl/internal/adapters/driven/ledger/memory"
	"github.com/refcorpus/corpusctl/internal/chunkers/h2para"
	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
	"github.com/refcorpus/corpusctl/internal/core/ports/driving"
)

func newBuilder(t *testing.T, f *fixture, ledger driven.IDLedger) *BuildOrchestrator {
	t.Helper()
	var opts []Option
	if ledger != nil {
		opts = append(opts, WithLedger(ledger))
	}
	return NewBuildOrchestrator(
		f.validator(t, opts...),
		jsonl.New(),
		map[string]driven.ChunkPolicy{h2para.PolicyName: h2para.New()},
		h2para.PolicyName,
		domain.DefaultExcludedGlobs,
		ledger,
	)
}

func TestBuild_WritesArtifacts(t *testing.T) {
	f := newFixture(t)
	f.write(t, "swd/b.md", goodDoc("swd.b.001", "Doc B"))
	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A"))
	outDir := filepath.Join(t.TempDir(), "corpus-v2026.02.0")

	m, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "corpus-v2026.02.0",
		OutDir:  outDir,
	})
	require.NoError(t, err)

	assert.Equal(t, "corpus-v2026.02.0", m.CorpusVersion)
	assert.Equal(t, 2, m.DocCount)
	assert.NotZero(t, m.ChunkCount)
	assert.Equal(t, []string{"stable"}, m.IncludedStatuses)
	assert.Equal(t, h2para.PolicyName, m.ChunkPolicy.Name)
	assert.Len(t, m.Integrity, 64)

	for _, name := range []string{jsonl.CorpusFile, jsonl.IndexFile, jsonl.ManifestFile} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	// Documents are ordered by id regardless of discovery order.
	index, err := os.ReadFile(filepath.Join(outDir, jsonl.IndexFile))
	require.NoError(t, err)
	var entries []domain.IndexEntry
	require.NoError(t, json.Unmarshal(index, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "swd.a.001", entries[0].DocID)
	assert.Equal(t, "swd.b.001", entries[1].DocID)
}

func TestBuild_OnlyStableExported(t *testing.T) {
	f := newFixture(t)
	f.write(t, "swd/stable.md", goodDoc("swd.stable.001", "Stable"))
	f.write(t, "swd/draft.md", strings.Replace(goodDoc("swd.draft.001", "Draft"), "status: stable", "status: draft", 1))

	m, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "corpus-v2026.02.0",
		OutDir:  filepath.Join(t.TempDir(), "out"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.DocCount)
}

func TestBuild_ExcludedDirsValidatedButNotExported(t *testing.T) {
	f := newFixture(t)
	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A"))
	f.write(t, "_templates/guide.md", goodDoc("swd.template.001", "Guide Template"))
	outDir := filepath.Join(t.TempDir(), "out")

	m, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "corpus-v2026.02.0",
		OutDir:  outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.DocCount)

	index, err := os.ReadFile(filepath.Join(outDir, jsonl.IndexFile))
	require.NoError(t, err)
	var entries []domain.IndexEntry
	require.NoError(t, json.Unmarshal(index, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "swd.a.001", entries[0].DocID)

	// A broken template still fails the build even though templates
	// are never exported.
	f.write(t, "_templates/broken.md", "no front matter")
	_, err = newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "corpus-v2026.02.1",
		OutDir:  filepath.Join(t.TempDir(), "out"),
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBuild_ValidationErrorsAbort(t *testing.T) {
	f := newFixture(t)
	f.write(t, "swd/bad.md", "no front matter")
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "corpus-v2026.02.0",
		OutDir:  outDir,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var vf *domain.ValidationFailed
	require.True(t, errors.As(err, &vf))
	assert.NotEmpty(t, vf.Report.Errors())

	// Nothing may be written on a failing build.
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_RejectsBadVersion(t *testing.T) {
	f := newFixture(t)

	_, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "latest",
		OutDir:  t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuild))
}

func TestBuild_RejectsUnknownPolicy(t *testing.T) {
	f := newFixture(t)

	_, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version:    "corpus-v2026.02.0",
		OutDir:     t.TempDir(),
		PolicyName: "nonsense",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuild))
	assert.Contains(t, err.Error(), "unknown chunk policy")
}

func TestBuild_Deterministic(t *testing.T) {
	t.Setenv(jsonl.TimestampEnv, "2026-02-01T00:00:00Z")

	f := newFixture(t)
	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A"))
	f.write(t, "swd/b.md", goodDoc("swd.b.001", "Doc B"))

	b := newBuilder(t, f, nil)
	out1 := filepath.Join(t.TempDir(), "one")
	out2 := filepath.Join(t.TempDir(), "two")

	m1, err := b.Build(context.Background(), driving.BuildRequest{Version: "corpus-v2026.02.0", OutDir: out1})
	require.NoError(t, err)
	m2, err := b.Build(context.Background(), driving.BuildRequest{Version: "corpus-v2026.02.0", OutDir: out2})
	require.NoError(t, err)

	assert.Equal(t, m1.Integrity, m2.Integrity)

	for _, name := range []string{jsonl.CorpusFile, jsonl.IndexFile, jsonl.ManifestFile} {
		first, err := os.ReadFile(filepath.Join(out1, name))
		require.NoError(t, err)
		second, err := os.ReadFile(filepath.Join(out2, name))
		require.NoError(t, err)
		assert.Equal(t, first, second, "artifact %s differs between builds", name)
	}
}

func TestBuild_RefusesNonEmptyOutDir(t *testing.T) {
	f := newFixture(t)
	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A"))
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, jsonl.ManifestFile), []byte("{}"), 0o644))

	b := newBuilder(t, f, nil)
	req := driving.BuildRequest{Version: "corpus-v2026.02.0", OutDir: outDir}

	_, err := b.Build(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuild))

	req.Force = true
	_, err = b.Build(context.Background(), req)
	require.NoError(t, err)
}

func TestBuild_PublishedVersionImmutable(t *testing.T) {
	t.Setenv(jsonl.TimestampEnv, "2026-02-01T00:00:00Z")

	f := newFixture(t)
	ledger := memory.NewStore()
	b := newBuilder(t, f, ledger)
	ctx := context.Background()

	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A"))
	_, err := b.Build(ctx, driving.BuildRequest{Version: "corpus-v2026.02.0", OutDir: filepath.Join(t.TempDir(), "out")})
	require.NoError(t, err)

	// Identical content may be rebuilt.
	_, err = b.Build(ctx, driving.BuildRequest{Version: "corpus-v2026.02.0", OutDir: filepath.Join(t.TempDir(), "again")})
	require.NoError(t, err)

	// Changed content under the same version is rejected.
	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A Edited"))
	_, err = b.Build(ctx, driving.BuildRequest{Version: "corpus-v2026.02.0", OutDir: filepath.Join(t.TempDir(), "changed")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuild))
	assert.Contains(t, err.Error(), "immutability")

	// A new version accepts the changed content.
	_, err = b.Build(ctx, driving.BuildRequest{Version: "corpus-v2026.02.1", OutDir: filepath.Join(t.TempDir(), "next")})
	require.NoError(t, err)
}

func TestBuild_ChunkRecordsCarryMetadata(t *testing.T) {
	f := newFixture(t)
	f.write(t, "swd/a.md", goodDoc("swd.a.001", "Doc A"))
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := newBuilder(t, f, nil).Build(context.Background(), driving.BuildRequest{
		Version: "corpus-v2026.02.0",
		OutDir:  outDir,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outDir, jsonl.CorpusFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.NotEmpty(t, lines)

	var rec domain.ChunkRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "corpus-v2026.02.0", rec.CorpusVersion)
	assert.Equal(t, "swd.a.001", rec.DocID)
	assert.True(t, strings.HasPrefix(rec.ChunkID, "swd.a.001#h2:"))
	assert.Equal(t, "swd/a.md", rec.SourcePath)
	assert.Equal(t, "text/markdown", rec.ContentType)
	assert.Equal(t, len(rec.Content), rec.CharCount)
	assert.Len(t, rec.SHA256, 64)
}
