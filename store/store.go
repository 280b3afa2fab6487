// Package store persists raw page snapshots in SQLite so that corpus
// rebuilds do not have to re-scrape the site. It is a cache, not a source
// of truth: a rebuild with an empty database produces the same corpus,
// only slower.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrPageNotCached is returned by Page when no snapshot exists for a path.
var ErrPageNotCached = errors.New("lexgraph: page not cached")

// Page is a cached snapshot of a single fetched page.
type Page struct {
	ID        int64
	Source    string
	Path      string
	HTML      []byte
	FetchedAt time.Time
}

// SourceStatus records how far the fetch of a source got.
type SourceStatus struct {
	Name      string
	Status    string
	FetchedAt time.Time
}

// Source fetch states.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Store wraps the SQLite database holding the snapshot cache.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the snapshot database at the given path and
// initialises its schema.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutPage stores a page snapshot, replacing any earlier snapshot of the
// same path.
func (s *Store) PutPage(ctx context.Context, source, path string, html []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (source, path, html, fetched_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			source = excluded.source,
			html = excluded.html,
			fetched_at = excluded.fetched_at
	`, source, path, html)
	if err != nil {
		return fmt.Errorf("caching page %s: %w", path, err)
	}
	return nil
}

// Page returns the cached snapshot for a path, or ErrPageNotCached.
func (s *Store) Page(ctx context.Context, path string) (Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, path, html, fetched_at FROM pages WHERE path = ?
	`, path)

	var p Page
	if err := row.Scan(&p.ID, &p.Source, &p.Path, &p.HTML, &p.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Page{}, fmt.Errorf("%w: %s", ErrPageNotCached, path)
		}
		return Page{}, fmt.Errorf("reading cached page %s: %w", path, err)
	}
	return p, nil
}

// Pages returns every cached snapshot of a source in insertion order.
func (s *Store) Pages(ctx context.Context, source string) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, path, html, fetched_at FROM pages
		WHERE source = ? ORDER BY id
	`, source)
	if err != nil {
		return nil, fmt.Errorf("listing cached pages for %s: %w", source, err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Source, &p.Path, &p.HTML, &p.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning cached page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SetSourceStatus records the fetch outcome for a source.
func (s *Store) SetSourceStatus(ctx context.Context, name, status string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (name, status, fetched_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			status = excluded.status,
			fetched_at = excluded.fetched_at
	`, name, status)
	if err != nil {
		return fmt.Errorf("recording status for %s: %w", name, err)
	}
	return nil
}

// Sources lists the recorded fetch states, ordered by name.
func (s *Store) Sources(ctx context.Context) ([]SourceStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status, fetched_at FROM sources ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var statuses []SourceStatus
	for rows.Next() {
		var st SourceStatus
		if err := rows.Scan(&st.Name, &st.Status, &st.FetchedAt); err != nil {
			return nil, fmt.Errorf("scanning source status: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}
