// Package postgres implements the tasks repository over PostgreSQL using
// pgx. Referential rules live in the schema: deleting a category sets the
// reference on tasks to NULL, deleting a task cascades to its steps.
package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// Store implements tasks.Repository backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store over an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// parseUUID validates an ID before it reaches a UUID-typed query parameter,
// so malformed IDs surface as domain errors instead of encoder failures.
func parseUUID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return parsed.String(), nil
}

// checkRowsAffected validates that an UPDATE/DELETE affected exactly one row,
// translating zero rows into the given not-found error.
func checkRowsAffected(rowsAffected int64, notFound error, entityID string) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", notFound, entityID)
	}
	return nil
}

// isUniqueViolation checks if an error is a PostgreSQL unique violation on
// the given constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 is unique_violation
		return pgErr.Code == "23505" &&
			(constraint == "" || strings.Contains(pgErr.ConstraintName, constraint))
	}
	return false
}

// isForeignKeyViolation checks if an error is a PostgreSQL FK violation
// involving the given column.
func isForeignKeyViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 is foreign_key_violation
		if pgErr.Code == "23503" {
			if column == "" {
				return true
			}
			return strings.Contains(pgErr.ConstraintName, column) ||
				strings.Contains(pgErr.Message, column)
		}
	}
	return false
}
