// Package sqlite provides the persisted id ledger backed by SQLite.
//
// The ledger is the durable side of two corpus guarantees: permanent
// ids are never reused once retired, and a published corpus version is
// never rebuilt with different content. Both must survive across
// builds and machines, so in-memory tracking is not enough.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/refcorpus/corpusctl/internal/adapters/driven/ledger/sqlite/migrations"
	"github.com/refcorpus/corpusctl/internal/core/domain"
	"github.com/refcorpus/corpusctl/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IDLedger = (*Store)(nil)

// Store is the SQLite-backed id ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the ledger database at dbPath.
// If dbPath is empty, defaults to .corpusctl/ledger.db in the current
// directory.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".corpusctl", "ledger.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	// WAL mode for concurrent readers during watch runs.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running ledger migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Entry returns the ledger entry for an id.
func (s *Store) Entry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, first_seen, last_seen, retired_at FROM doc_ids WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Entries returns all ledger entries ordered by id.
func (s *Store) Entries(ctx context.Context) ([]domain.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, first_seen, last_seen, retired_at FROM doc_ids ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

// RecordSeen upserts the given id->path set as seen now.
func (s *Store) RecordSeen(ctx context.Context, seen map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// Deterministic insertion order keeps the transaction reproducible
	// for debugging, even though SQLite does not care.
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO doc_ids (id, path, first_seen, last_seen, retired_at)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET path = excluded.path, last_seen = excluded.last_seen
		WHERE doc_ids.retired_at IS NULL
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, seen[id], now, now); err != nil {
			return fmt.Errorf("recording id %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// RetireMissing marks active entries absent from present as retired.
func (s *Store) RetireMissing(ctx context.Context, present map[string]struct{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM doc_ids WHERE retired_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var missing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, id := range missing {
		if _, err := tx.ExecContext(ctx,
			`UPDATE doc_ids SET retired_at = ? WHERE id = ? AND retired_at IS NULL`, now, id); err != nil {
			return nil, fmt.Errorf("retiring id %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return missing, nil
}

// PublishedVersion returns the record for a version string.
func (s *Store) PublishedVersion(ctx context.Context, version string) (*domain.PublishedVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, version, integrity, doc_count, chunk_count, published_at
		FROM published_versions WHERE version = ?`, version)
	pv, err := scanPublished(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: version %s", domain.ErrNotFound, version)
	}
	if err != nil {
		return nil, err
	}
	return pv, nil
}

// PublishedVersions returns all published versions ordered by version.
func (s *Store) PublishedVersions(ctx context.Context) ([]domain.PublishedVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, version, integrity, doc_count, chunk_count, published_at
		FROM published_versions ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PublishedVersion
	for rows.Next() {
		pv, err := scanPublished(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pv)
	}
	return out, rows.Err()
}

// RecordPublished stores a publication. Re-publishing the same version
// with identical content is a no-op; the immutability check against
// differing content happens in the build orchestrator before this.
func (s *Store) RecordPublished(ctx context.Context, pv domain.PublishedVersion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO published_versions (run_id, version, integrity, doc_count, chunk_count, published_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(version) DO NOTHING`,
		pv.RunID, pv.Version, pv.Integrity, pv.DocCount, pv.ChunkCount, pv.PublishedAt.UTC())
	return err
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var retired sql.NullTime
	if err := sc.Scan(&e.ID, &e.Path, &e.FirstSeen, &e.LastSeen, &retired); err != nil {
		return nil, err
	}
	if retired.Valid {
		t := retired.Time
		e.RetiredAt = &t
	}
	return &e, nil
}

func scanPublished(sc scanner) (*domain.PublishedVersion, error) {
	var pv domain.PublishedVersion
	if err := sc.Scan(&pv.RunID, &pv.Version, &pv.Integrity, &pv.DocCount, &pv.ChunkCount, &pv.PublishedAt); err != nil {
		return nil, err
	}
	return &pv, nil
}

// migrate runs all pending migrations from the embedded FS.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	type migration struct {
		version int
		name    string
	}
	var pending []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		numStr, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(numStr)
		if err != nil || version <= currentVersion {
			continue
		}
		pending = append(pending, migration{version: version, name: name})
	}
	sort.Slice(pending, func(a, b int) bool { return pending[a].version < pending[b].version })

	for _, m := range pending {
		script, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
