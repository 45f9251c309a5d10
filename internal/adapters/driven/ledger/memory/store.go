// Package memory provides an in-memory id ledger for tests and for
// runs where persistence is explicitly disabled. It offers the same
// within-run guarantees as the SQLite ledger but nothing survives the
// process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IDLedger = (*Store)(nil)

// Store is the in-memory id ledger.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]*domain.LedgerEntry
	published map[string]domain.PublishedVersion
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{
		entries:   make(map[string]*domain.LedgerEntry),
		published: make(map[string]domain.PublishedVersion),
	}
}

// Close implements the interface; nothing to release.
func (s *Store) Close() error { return nil }

// Entry returns the ledger entry for an id.
func (s *Store) Entry(_ context.Context, id string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	}
	cp := *entry
	return &cp, nil
}

// Entries returns all ledger entries ordered by id.
func (s *Store) Entries(_ context.Context) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LedgerEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

// RecordSeen upserts the given id->path set as seen now.
func (s *Store) RecordSeen(_ context.Context, seen map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, path := range seen {
		if entry, ok := s.entries[id]; ok {
			if entry.RetiredAt == nil {
				entry.Path = path
				entry.LastSeen = now
			}
			continue
		}
		s.entries[id] = &domain.LedgerEntry{
			ID:        id,
			Path:      path,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	return nil
}

// RetireMissing marks active entries absent from present as retired.
func (s *Store) RetireMissing(_ context.Context, present map[string]struct{}) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var retired []string
	for id, entry := range s.entries {
		if entry.RetiredAt != nil {
			continue
		}
		if _, ok := present[id]; !ok {
			t := now
			entry.RetiredAt = &t
			retired = append(retired, id)
		}
	}
	sort.Strings(retired)
	return retired, nil
}

// PublishedVersion returns the record for a version string.
func (s *Store) PublishedVersion(_ context.Context, version string) (*domain.PublishedVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pv, ok := s.published[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %s", domain.ErrNotFound, version)
	}
	return &pv, nil
}

// PublishedVersions returns all published versions ordered by version.
func (s *Store) PublishedVersions(_ context.Context) ([]domain.PublishedVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PublishedVersion, 0, len(s.published))
	for _, pv := range s.published {
		out = append(out, pv)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Version < out[b].Version })
	return out, nil
}

// RecordPublished stores a publication; re-publishing an existing
// version keeps the original record.
func (s *Store) RecordPublished(_ context.Context, pv domain.PublishedVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.published[pv.Version]; ok {
		return nil
	}
	s.published[pv.Version] = pv
	return nil
}
