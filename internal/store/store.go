// Package store persists run history in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// StoreError is returned for any persistence failure. Losing history would
// defeat the dedup guarantee, so callers treat these as fatal.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps the SQLite database holding run records.
type Store struct {
	db *sql.DB
}

// Open opens (and creates/migrates) the database at the given path.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("empty database path")}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("create database dir: %w", err)}
	}
	// Ensure file exists with strict perms
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		f, err := os.OpenFile(dbPath, os.O_CREATE|os.O_RDWR, 0o600)
		if err != nil {
			return nil, &StoreError{Op: "open", Err: fmt.Errorf("create database file: %w", err)}
		}
		f.Close()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	// Pragmas
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("set WAL: %w", err)}
	}
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout=5000;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	// user_version based migrations
	var ver int
	_ = s.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&ver)

	// v1: runs table with fingerprint lookup index
	if ver == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return &StoreError{Op: "migrate", Err: err}
		}
		_, err = tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  prompt_name     TEXT NOT NULL,
  fingerprint     TEXT NOT NULL,
  model           TEXT NOT NULL DEFAULT '',
  response_text   TEXT NOT NULL,
  delivery_status TEXT NOT NULL,
  delivery_detail TEXT NOT NULL DEFAULT '',
  created_at      INTEGER NOT NULL
);
`)
		if err == nil {
			_, err = tx.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint);`)
		}
		if err == nil {
			_, err = tx.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS idx_runs_prompt_name ON runs(prompt_name, created_at);`)
		}
		if err == nil {
			_, err = tx.ExecContext(ctx, "PRAGMA user_version=1;")
		}
		if err != nil {
			_ = tx.Rollback()
			return &StoreError{Op: "migrate", Err: fmt.Errorf("migrate v1: %w", err)}
		}
		if err := tx.Commit(); err != nil {
			return &StoreError{Op: "migrate", Err: err}
		}
		ver = 1
	}

	// v2: token usage columns
	if ver == 1 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return &StoreError{Op: "migrate", Err: err}
		}
		_, err = tx.ExecContext(ctx,
			`ALTER TABLE runs ADD COLUMN prompt_tokens INTEGER NOT NULL DEFAULT 0;`)
		if err == nil {
			_, err = tx.ExecContext(ctx,
				`ALTER TABLE runs ADD COLUMN completion_tokens INTEGER NOT NULL DEFAULT 0;`)
		}
		if err == nil {
			_, err = tx.ExecContext(ctx, "PRAGMA user_version=2;")
		}
		if err != nil {
			_ = tx.Rollback()
			return &StoreError{Op: "migrate", Err: fmt.Errorf("migrate v2: %w", err)}
		}
		if err := tx.Commit(); err != nil {
			return &StoreError{Op: "migrate", Err: err}
		}
		ver = 2
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}
