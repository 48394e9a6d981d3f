// Package sqlite implements the tasks repository over a single-file SQLite
// database. It targets single-instance deployments that want durability
// without running a PostgreSQL server. Referential actions (detaching tasks
// from a deleted category, cascading step deletes) are issued explicitly
// inside transactions instead of relying on foreign key pragmas.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // cgo-free sqlite driver

	"github.com/ezrabeacon/beacon/internal/domain"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements tasks.Repository backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and applies migrations.
// The connection pool is capped at one writer, the usual SQLite arrangement
// to avoid lock contention.
func NewStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Timestamps are stored as RFC 3339 text so they survive SQLite's dynamic
// typing and always round-trip in UTC.

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := encodeTime(*t)
	return &s
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func decodeTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := decodeTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeRecurrence(s *string) *domain.RecurrenceType {
	if s == nil {
		return nil
	}
	r := domain.RecurrenceType(*s)
	return &r
}

func encodeRecurrence(r *domain.RecurrenceType) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func checkRowsAffected(result sql.Result, notFound error, entityID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, entityID)
	}
	return nil
}
