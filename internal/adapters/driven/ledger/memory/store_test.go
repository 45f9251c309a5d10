package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcorpus/corpusctl/internal/core/domain"
)

func TestEntry_NotFound(t *testing.T) {
	s := NewStore()

	_, err := s.Entry(context.Background(), "swd.ghost.001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecordSeen_RetireMissing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.RecordSeen(ctx, map[string]string{
		"swd.a.001": "swd/a.md",
		"swd.b.001": "swd/b.md",
	}))

	retired, err := s.RetireMissing(ctx, map[string]struct{}{"swd.a.001": {}})
	require.NoError(t, err)
	assert.Equal(t, []string{"swd.b.001"}, retired)

	entry, err := s.Entry(ctx, "swd.b.001")
	require.NoError(t, err)
	assert.True(t, entry.Retired())

	active, err := s.Entry(ctx, "swd.a.001")
	require.NoError(t, err)
	assert.False(t, active.Retired())
}

func TestRecordSeen_DoesNotReviveRetired(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.RecordSeen(ctx, map[string]string{"swd.a.001": "swd/a.md"}))
	_, err := s.RetireMissing(ctx, map[string]struct{}{})
	require.NoError(t, err)

	require.NoError(t, s.RecordSeen(ctx, map[string]string{"swd.a.001": "swd/back.md"}))
	entry, err := s.Entry(ctx, "swd.a.001")
	require.NoError(t, err)
	assert.True(t, entry.Retired())
	assert.Equal(t, "swd/a.md", entry.Path)
}

func TestEntries_OrderedByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.RecordSeen(ctx, map[string]string{
		"swd.b.001": "b.md",
		"swd.a.001": "a.md",
	}))

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "swd.a.001", entries[0].ID)
	assert.Equal(t, "swd.b.001", entries[1].ID)
}

func TestEntry_ReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.RecordSeen(ctx, map[string]string{"swd.a.001": "a.md"}))
	entry, err := s.Entry(ctx, "swd.a.001")
	require.NoError(t, err)
	entry.Path = "mutated.md"

	again, err := s.Entry(ctx, "swd.a.001")
	require.NoError(t, err)
	assert.Equal(t, "a.md", again.Path)
}

func TestPublishedVersions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.PublishedVersion(ctx, "corpus-v2026.02.0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	pv := domain.PublishedVersion{
		RunID:       "run-1",
		Version:     "corpus-v2026.02.0",
		Integrity:   "abc",
		PublishedAt: time.Now().UTC(),
	}
	require.NoError(t, s.RecordPublished(ctx, pv))

	// Conflicting re-publication keeps the original record.
	pv.RunID = "run-2"
	pv.Integrity = "def"
	require.NoError(t, s.RecordPublished(ctx, pv))

	got, err := s.PublishedVersion(ctx, "corpus-v2026.02.0")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "abc", got.Integrity)

	all, err := s.PublishedVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
