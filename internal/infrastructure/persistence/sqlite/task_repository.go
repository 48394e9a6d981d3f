package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ezrabeacon/beacon/internal/domain"
)

const taskColumns = `
	t.id, t.owner_id, t.title, t.due_date,
	t.is_important, t.is_completed,
	t.recurrence_type, t.custom_recurrence_pattern,
	t.category_id, t.created_at, t.updated_at,
	c.id, c.owner_id, c.name, c.color_hex, c.created_at`

// CreateTask persists a new task. The category reference is checked here
// since the schema carries no foreign keys.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	if task.CategoryID != nil {
		if err := s.categoryExists(ctx, *task.CategoryID); err != nil {
			return err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, owner_id, title, due_date,
			is_important, is_completed,
			recurrence_type, custom_recurrence_pattern,
			category_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.OwnerID, task.Title, encodeTimePtr(task.DueDate),
		task.IsImportant, task.IsCompleted,
		encodeRecurrence(task.Recurrence), task.CustomPattern,
		task.CategoryID, encodeTime(task.CreatedAt), encodeTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindTaskByID retrieves one of the owner's tasks with its category and
// steps ordered by step order.
func (s *Store) FindTaskByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ? AND t.owner_id = ?`,
		id, ownerID,
	)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	steps, err := s.findStepsForTasks(ctx, []string{task.ID})
	if err != nil {
		return nil, err
	}
	if loaded := steps[task.ID]; loaded != nil {
		task.Steps = loaded
	}
	return task, nil
}

// FindTasksByOwner retrieves all of the owner's tasks with categories and
// ordered steps populated.
func (s *Store) FindTasksByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = ?`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	ids := make([]string, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	steps, err := s.findStepsForTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if loaded := steps[task.ID]; loaded != nil {
			task.Steps = loaded
		}
	}
	return tasks, nil
}

// UpdateTask overwrites the stored task row. Steps are managed through the
// step operations and are untouched here.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	if task.CategoryID != nil {
		if err := s.categoryExists(ctx, *task.CategoryID); err != nil {
			return err
		}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, due_date = ?,
			is_important = ?, is_completed = ?,
			recurrence_type = ?, custom_recurrence_pattern = ?,
			category_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		task.Title, encodeTimePtr(task.DueDate),
		task.IsImportant, task.IsCompleted,
		encodeRecurrence(task.Recurrence), task.CustomPattern,
		task.CategoryID, encodeTime(task.UpdatedAt),
		task.ID, task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return checkRowsAffected(result, domain.ErrTaskNotFound, task.ID)
}

// DeleteTask removes the task and its steps in one transaction.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM tasks
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := checkRowsAffected(result, domain.ErrTaskNotFound, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM task_steps
		WHERE task_id = ?`,
		id,
	); err != nil {
		return fmt.Errorf("failed to delete task steps: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateStep persists a new step for its owning task.
func (s *Store) CreateStep(ctx context.Context, step *domain.TaskStep) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_steps (id, task_id, title, is_completed, step_order)
		VALUES (?, ?, ?, ?, ?)`,
		step.ID, step.TaskID, step.Title, step.IsCompleted, step.Order,
	)
	if err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

// UpdateStep overwrites the stored step row.
func (s *Store) UpdateStep(ctx context.Context, step *domain.TaskStep) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE task_steps
		SET title = ?, is_completed = ?, step_order = ?
		WHERE id = ? AND task_id = ?`,
		step.Title, step.IsCompleted, step.Order, step.ID, step.TaskID,
	)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return checkRowsAffected(result, domain.ErrStepNotFound, step.ID)
}

// DeleteStep removes a single step. Remaining steps keep their order values.
func (s *Store) DeleteStep(ctx context.Context, taskID, stepID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM task_steps
		WHERE id = ? AND task_id = ?`,
		stepID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	return checkRowsAffected(result, domain.ErrStepNotFound, stepID)
}

// categoryExists guards task writes that reference a category.
func (s *Store) categoryExists(ctx context.Context, categoryID string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = ?)`, categoryID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCategory, categoryID)
	}
	return nil
}

// findStepsForTasks loads the steps for the given task IDs in a single query,
// keyed by task ID and ordered by step order within each task.
func (s *Store) findStepsForTasks(ctx context.Context, taskIDs []string) (map[string][]*domain.TaskStep, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(taskIDs)), ",")
	args := make([]any, 0, len(taskIDs))
	for _, id := range taskIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, title, is_completed, step_order
		FROM task_steps
		WHERE task_id IN (`+placeholders+`)
		ORDER BY task_id, step_order ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	steps := make(map[string][]*domain.TaskStep)
	for rows.Next() {
		var step domain.TaskStep
		if err := rows.Scan(&step.ID, &step.TaskID, &step.Title, &step.IsCompleted, &step.Order); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps[step.TaskID] = append(steps[step.TaskID], &step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read steps: %w", err)
	}
	return steps, nil
}

// scanTask reads one task row produced by taskColumns, including the
// left-joined category when present.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t            domain.Task
		dueDate      *string
		recurrence   *string
		createdAt    string
		updatedAt    string
		catID        *string
		catOwner     *string
		catName      *string
		catColor     *string
		catCreatedAt *string
	)

	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &dueDate,
		&t.IsImportant, &t.IsCompleted,
		&recurrence, &t.CustomPattern,
		&t.CategoryID, &createdAt, &updatedAt,
		&catID, &catOwner, &catName, &catColor, &catCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	if t.DueDate, err = decodeTimePtr(dueDate); err != nil {
		return nil, err
	}
	t.Recurrence = decodeRecurrence(recurrence)

	if catID != nil {
		catTime, err := decodeTimePtr(catCreatedAt)
		if err != nil {
			return nil, err
		}
		t.Category = &domain.Category{
			ID:       *catID,
			OwnerID:  *catOwner,
			Name:     *catName,
			ColorHex: *catColor,
		}
		if catTime != nil {
			t.Category.CreatedAt = *catTime
		}
	}
	t.Steps = make([]*domain.TaskStep, 0)
	return &t, nil
}
