package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go sqlite driver, no cgo required
)

// SQLiteStore is a durable Store backed by a single SQLite table of
// (key, state_json) rows, for single-process chatbot sessions that need to
// survive a restart. It exercises modernc.org/sqlite the way the teacher's
// graph/store/sqlite.go does, adapted to the simpler get/set contract
// spec.md §4.3 actually requires (no checkpoint history).
type SQLiteStore struct {
	db      *sql.DB
	table   string
	factory DefaultFactory
	codec   Codec
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at dsn and
// ensures its backing table exists.
func NewSQLiteStore(ctx context.Context, dsn, table string, factory DefaultFactory, codec Codec) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, table: table, factory: factory, codec: codec}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureTable(ctx context.Context) error {
	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			session_key TEXT PRIMARY KEY,
			state_json  TEXT NOT NULL
		)`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("store: create sqlite table %q: %w", s.table, err)
	}
	return nil
}

// Get returns the stored state for key, or a fresh default if the key has
// never been written.
func (s *SQLiteStore) Get(ctx context.Context, key string) (State, error) {
	query := fmt.Sprintf("SELECT state_json FROM %s WHERE session_key = ?", s.table)
	var raw string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.factory(), nil
	case err != nil:
		return nil, fmt.Errorf("store: sqlite get %q: %w", key, err)
	}
	decoded, err := s.codec.Unmarshal([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("store: sqlite decode %q: %w", key, err)
	}
	return decoded, nil
}

// Set persists st under key, last-writer-wins.
func (s *SQLiteStore) Set(ctx context.Context, key string, st State) error {
	data, err := s.codec.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: sqlite encode %q: %w", key, err)
	}
	stmt := fmt.Sprintf(
		`INSERT INTO %s (session_key, state_json) VALUES (?, ?)
		 ON CONFLICT(session_key) DO UPDATE SET state_json = excluded.state_json`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt, key, string(data)); err != nil {
		return fmt.Errorf("store: sqlite set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
