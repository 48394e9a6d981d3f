package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// CreateCategory persists a new category.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO categories (id, owner_id, name, color_hex, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.OwnerID, category.Name, category.ColorHex, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_owner_name_key") {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNameTaken, category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindCategoryByID retrieves one of the owner's categories.
func (s *Store) FindCategoryByID(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		SELECT id::text, owner_id, name, color_hex, created_at
		FROM categories
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)

	var c domain.Category
	err = row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.ColorHex, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", domain.ErrCategoryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// FindCategoriesByOwner lists the owner's categories ordered by name ascending.
func (s *Store) FindCategoriesByOwner(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, owner_id, name, color_hex, created_at
		FROM categories
		WHERE owner_id = $1
		ORDER BY name ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.ColorHex, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		categories = append(categories, &c)
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
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE owner_id = $1 AND name = $2 AND ($3 = '' OR id::text <> $3)
		)`,
		ownerID, name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// UpdateCategory overwrites the stored category row.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE categories
		SET name = $2, color_hex = $3
		WHERE id = $1 AND owner_id = $4`,
		category.ID, category.Name, category.ColorHex, category.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_owner_name_key") {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNameTaken, category.Name)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrCategoryNotFound, category.ID)
}

// DeleteCategory removes the category. The ON DELETE SET NULL action on
// tasks.category_id detaches referencing tasks in the same statement.
func (s *Store) DeleteCategory(ctx context.Context, ownerID, id string) error {
	id, err := parseUUID(id)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM categories
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrCategoryNotFound, id)
}
