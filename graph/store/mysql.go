package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a durable Store for shared/multi-process deployments,
// backed by a single MySQL table of (session_key, state_json) rows. It
// exercises go-sql-driver/mysql the way the teacher's graph/store/mysql.go
// does, trimmed to spec.md §4.3's simple get/set contract.
type MySQLStore struct {
	db      *sql.DB
	table   string
	factory DefaultFactory
	codec   Codec
}

// NewMySQLStore opens a MySQL connection using dsn (see the go-sql-driver
// DSN format, e.g. "user:pass@tcp(host:3306)/dbname") and ensures its
// backing table exists.
func NewMySQLStore(ctx context.Context, dsn, table string, factory DefaultFactory, codec Codec) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping mysql: %w", err)
	}

	s := &MySQLStore{db: db, table: table, factory: factory, codec: codec}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) ensureTable(ctx context.Context) error {
	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			session_key VARCHAR(255) PRIMARY KEY,
			state_json  LONGTEXT NOT NULL
		) ENGINE=InnoDB`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("store: create mysql table %q: %w", s.table, err)
	}
	return nil
}

// Get returns the stored state for key, or a fresh default if the key has
// never been written.
func (s *MySQLStore) Get(ctx context.Context, key string) (State, error) {
	query := fmt.Sprintf("SELECT state_json FROM %s WHERE session_key = ?", s.table)
	var raw string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.factory(), nil
	case err != nil:
		return nil, fmt.Errorf("store: mysql get %q: %w", key, err)
	}
	decoded, err := s.codec.Unmarshal([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("store: mysql decode %q: %w", key, err)
	}
	return decoded, nil
}

// Set persists st under key, last-writer-wins.
func (s *MySQLStore) Set(ctx context.Context, key string, st State) error {
	data, err := s.codec.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: mysql encode %q: %w", key, err)
	}
	stmt := fmt.Sprintf(
		`INSERT INTO %s (session_key, state_json) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE state_json = VALUES(state_json)`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt, key, string(data)); err != nil {
		return fmt.Errorf("store: mysql set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *MySQLStore) Close() error { return s.db.Close() }
