package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides persistence backed by an embedded SQLite database. The
// catalog mirror, the recently-viewed history and the favorites set share one
// database file but live in separate tables and never reference each other.
type Store struct {
	db *sql.DB

	initOnce sync.Once
	initErr  error

	// now is swappable in tests.
	now func() time.Time
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open opens the SQLite database at path, creating the file if necessary.
// The schema is created lazily on first use, not here.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite permits a single writer; one pooled connection avoids
	// SQLITE_BUSY when logical callers interleave.
	db.SetMaxOpenConns(1)

	return New(db), nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates all tables and indexes if absent. The first caller
// performs the real setup; concurrent and subsequent callers share that
// outcome instead of re-running it.
func (s *Store) EnsureSchema(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.createSchema(ctx)
	})
	return s.initErr
}

func (s *Store) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// timeLayout is fixed-width (nanoseconds are zero-padded, time is UTC) so
// the lexicographic order of stored text matches temporal order. RFC3339Nano
// would drop trailing zeros and break ORDER BY on the timestamp columns.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
