// Package store provides SQLite-based persistence for tokenvault.
// It manages projects, auto-save snapshots, versions, and asset metadata
// behind a single embedded database file with versioned schema migrations.
package store

import (
	"database/sql"
	"fmt"
	"time"

	verrors "github.com/example/tokenvault/internal/errors"
	_ "modernc.org/sqlite"
)

// Store represents the SQLite database store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath and applies
// all pending schema migrations in order. It returns STORAGE_UNAVAILABLE
// if the engine cannot be opened and MIGRATION_FAILED if an upgrade step
// errors; in the latter case the store must not be used.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, verrors.NewStorageUnavailable(err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, verrors.NewStorageUnavailable(err)
	}

	s := &Store{db: db}
	if err := s.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// millis converts a time to the integer milliseconds stored in timestamp
// columns. Snapshot ordering relies on this granularity.
func millis(t time.Time) int64 {
	return t.UnixMilli()
}

// fromMillis converts a stored timestamp back to a time value.
func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
