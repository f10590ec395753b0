// Package transcript provides an append-only SQLite log of every message a
// conversation produces. It is an audit surface: nothing in the turn engine
// ever reads it back, so a restarted process always begins from a clean
// system prefix.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const defaultBusyTimeout = 5000 // milliseconds

// Entry is one recorded message.
type Entry struct {
	Seq       int64
	Turn      int
	Role      string
	Kind      string
	Content   string
	CreatedAt string
}

// Store is a SQLite-backed transcript writer.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the transcript database at path.
//
// The database uses WAL mode, a 5 s busy timeout, and a single connection
// (SQLite serialises writes). The schema is migrated automatically.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("transcript: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("transcript: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("transcript: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one message to the transcript.
func (s *Store) Record(ctx context.Context, turn int, role, kind, content string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcript (turn, role, kind, content)
		VALUES (?, ?, ?, ?)`,
		turn, role, kind, content,
	)
	if err != nil {
		return fmt.Errorf("transcript: record: %w", err)
	}
	return nil
}

// Recent returns the n most recent entries in chronological order.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, turn, role, kind, content, created_at
		FROM (
			SELECT seq, turn, role, kind, content, created_at
			FROM transcript ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("transcript: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.Turn, &e.Role, &e.Kind, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("transcript: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transcript: recent rows: %w", err)
	}
	return entries, nil
}

// Count returns the total number of recorded entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcript").Scan(&n); err != nil {
		return 0, fmt.Errorf("transcript: count: %w", err)
	}
	return n, nil
}
