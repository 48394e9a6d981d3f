package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// CreateCategory persists a new category.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, color_hex, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.OwnerID, category.Name, category.ColorHex, encodeTime(category.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNameTaken, category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindCategoryByID retrieves one of the owner's categories.
func (s *Store) FindCategoryByID(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, color_hex, created_at
		FROM categories
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)

	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", domain.ErrCategoryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// FindCategoriesByOwner lists the owner's categories ordered by name ascending.
func (s *Store) FindCategoriesByOwner(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, color_hex, created_at
		FROM categories
		WHERE owner_id = ?
		ORDER BY name ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

// CategoryNameExists reports whether the owner already uses the name,
// excluding the record with excludeID.
func (s *Store) CategoryNameExists(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE owner_id = ? AND name = ? AND (? = '' OR id <> ?)
		)`,
		ownerID, name, excludeID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// UpdateCategory overwrites the stored category row.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, color_hex = ?
		WHERE id = ? AND owner_id = ?`,
		category.Name, category.ColorHex, category.ID, category.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNameTaken, category.Name)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return checkRowsAffected(result, domain.ErrCategoryNotFound, category.ID)
}

// DeleteCategory removes the category and detaches the owner's tasks from it
// in the same transaction.
func (s *Store) DeleteCategory(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := checkRowsAffected(result, domain.ErrCategoryNotFound, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET category_id = NULL
		WHERE category_id = ?`,
		id,
	); err != nil {
		return fmt.Errorf("failed to detach tasks from category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.ColorHex, &createdAt); err != nil {
		return nil, err
	}
	t, err := decodeTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = t
	return &c, nil
}

// isUniqueViolation matches SQLite's constraint error text, the stable way to
// detect it without importing driver internals.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
