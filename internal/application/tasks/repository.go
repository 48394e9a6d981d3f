package tasks

import (
	"context"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// Repository defines storage operations for tasks, categories, and steps.
// Every query is scoped by owner server-side; implementations must never
// return another owner's rows.
type Repository interface {
	// === Category Operations ===

	// CreateCategory persists a new category.
	// Returns domain.ErrCategoryNameTaken when (owner, name) already exists.
	CreateCategory(ctx context.Context, category *domain.Category) error

	// FindCategoryByID retrieves one of the owner's categories.
	// Returns domain.ErrCategoryNotFound if absent or owned by someone else.
	FindCategoryByID(ctx context.Context, ownerID, id string) (*domain.Category, error)

	// FindCategoriesByOwner lists the owner's categories ordered by name ascending.
	FindCategoriesByOwner(ctx context.Context, ownerID string) ([]*domain.Category, error)

	// CategoryNameExists reports whether the owner already has a category with
	// this name, excluding the record with excludeID (empty to exclude none).
	CategoryNameExists(ctx context.Context, ownerID, name, excludeID string) (bool, error)

	// UpdateCategory overwrites the stored category row.
	// Returns domain.ErrCategoryNotFound if the row is missing.
	UpdateCategory(ctx context.Context, category *domain.Category) error

	// DeleteCategory removes the category and clears the reference on any task
	// pointing at it, atomically.
	// Returns domain.ErrCategoryNotFound if absent or owned by someone else.
	DeleteCategory(ctx context.Context, ownerID, id string) error

	// === Task Operations ===

	// CreateTask persists a new task.
	CreateTask(ctx context.Context, task *domain.Task) error

	// FindTaskByID retrieves one of the owner's tasks with its category and
	// steps (ordered by step order ascending).
	// Returns domain.ErrTaskNotFound if absent or owned by someone else.
	FindTaskByID(ctx context.Context, ownerID, id string) (*domain.Task, error)

	// FindTasksByOwner retrieves all of the owner's tasks with categories and
	// ordered steps populated.
	FindTasksByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)

	// UpdateTask overwrites the stored task row. Steps are not touched.
	// Returns domain.ErrTaskNotFound if the row is missing.
	UpdateTask(ctx context.Context, task *domain.Task) error

	// DeleteTask removes the task and cascades to its steps.
	// Returns domain.ErrTaskNotFound if absent or owned by someone else.
	DeleteTask(ctx context.Context, ownerID, id string) error

	// === Step Operations ===

	// CreateStep persists a new step attached to a task.
	CreateStep(ctx context.Context, step *domain.TaskStep) error

	// UpdateStep overwrites the stored step row.
	// Returns domain.ErrStepNotFound if the row is missing.
	UpdateStep(ctx context.Context, step *domain.TaskStep) error

	// DeleteStep removes a single step. Remaining order values keep their gaps.
	// Returns domain.ErrStepNotFound if the row is missing.
	DeleteStep(ctx context.Context, taskID, stepID string) error
}
