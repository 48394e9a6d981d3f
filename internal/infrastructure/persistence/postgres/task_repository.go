package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ezrabeacon/beacon/internal/domain"
)

const taskColumns = `
	t.id::text, t.owner_id, t.title, t.due_date,
	t.is_important, t.is_completed,
	t.recurrence_type, t.custom_recurrence_pattern,
	t.category_id::text, t.created_at, t.updated_at,
	c.id::text, c.owner_id, c.name, c.color_hex, c.created_at`

// CreateTask persists a new task.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (
			id, owner_id, title, due_date,
			is_important, is_completed,
			recurrence_type, custom_recurrence_pattern,
			category_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID, task.OwnerID, task.Title, task.DueDate,
		task.IsImportant, task.IsCompleted,
		recurrenceToText(task.Recurrence), task.CustomPattern,
		task.CategoryID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err, "category_id") {
			return fmt.Errorf("%w: %v", domain.ErrInvalidCategory, task.CategoryID)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindTaskByID retrieves one of the owner's tasks with its category and
// steps ordered by step order.
func (s *Store) FindTaskByID(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	id, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.owner_id = $2`,
		id, ownerID,
	)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	steps, err := s.findStepsForTasks(ctx, []string{task.ID})
	if err != nil {
		return nil, err
	}
	task.Steps = steps[task.ID]
	if task.Steps == nil {
		task.Steps = make([]*domain.TaskStep, 0)
	}
	return task, nil
}

// FindTasksByOwner retrieves all of the owner's tasks with categories and
// ordered steps populated.
func (s *Store) FindTasksByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = $1`,
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
		task.Steps = steps[task.ID]
		if task.Steps == nil {
			task.Steps = make([]*domain.TaskStep, 0)
		}
	}
	return tasks, nil
}

// UpdateTask overwrites the stored task row. Steps are managed through the
// step operations and are untouched here.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, due_date = $3,
			is_important = $4, is_completed = $5,
			recurrence_type = $6, custom_recurrence_pattern = $7,
			category_id = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $10`,
		task.ID, task.Title, task.DueDate,
		task.IsImportant, task.IsCompleted,
		recurrenceToText(task.Recurrence), task.CustomPattern,
		task.CategoryID, task.UpdatedAt, task.OwnerID,
	)
	if err != nil {
		if isForeignKeyViolation(err, "category_id") {
			return fmt.Errorf("%w: %v", domain.ErrInvalidCategory, task.CategoryID)
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrTaskNotFound, task.ID)
}

// DeleteTask removes the task. The ON DELETE CASCADE action on
// task_steps.task_id removes its steps in the same statement.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	id, err := parseUUID(id)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrTaskNotFound, id)
}

// CreateStep persists a new step for its owning task.
func (s *Store) CreateStep(ctx context.Context, step *domain.TaskStep) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO task_steps (id, task_id, title, is_completed, step_order)
		VALUES ($1, $2, $3, $4, $5)`,
		step.ID, step.TaskID, step.Title, step.IsCompleted, step.Order,
	)
	if err != nil {
		if isForeignKeyViolation(err, "task_id") {
			return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, step.TaskID)
		}
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

// UpdateStep overwrites the stored step row.
func (s *Store) UpdateStep(ctx context.Context, step *domain.TaskStep) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE task_steps
		SET title = $2, is_completed = $3, step_order = $4
		WHERE id = $1 AND task_id = $5`,
		step.ID, step.Title, step.IsCompleted, step.Order, step.TaskID,
	)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrStepNotFound, step.ID)
}

// DeleteStep removes a single step. Remaining steps keep their order values.
func (s *Store) DeleteStep(ctx context.Context, taskID, stepID string) error {
	stepID, err := parseUUID(stepID)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM task_steps
		WHERE id = $1 AND task_id = $2`,
		stepID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrStepNotFound, stepID)
}

// findStepsForTasks loads the steps for the given task IDs in a single query,
// keyed by task ID and ordered by step order within each task.
func (s *Store) findStepsForTasks(ctx context.Context, taskIDs []string) (map[string][]*domain.TaskStep, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, task_id::text, title, is_completed, step_order
		FROM task_steps
		WHERE task_id = ANY($1)
		ORDER BY task_id, step_order ASC`,
		taskIDs,
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
func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t              domain.Task
		dueDate        *time.Time
		recurrence     *string
		categoryID     *string
		catID, catName *string
		catOwner       *string
		catColor       *string
		catCreatedAt   *time.Time
	)

	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &dueDate,
		&t.IsImportant, &t.IsCompleted,
		&recurrence, &t.CustomPattern,
		&categoryID, &t.CreatedAt, &t.UpdatedAt,
		&catID, &catOwner, &catName, &catColor, &catCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if dueDate != nil {
		utc := dueDate.UTC()
		t.DueDate = &utc
	}
	if recurrence != nil {
		r := domain.RecurrenceType(*recurrence)
		t.Recurrence = &r
	}
	t.CategoryID = categoryID
	if catID != nil {
		t.Category = &domain.Category{
			ID:        *catID,
			OwnerID:   *catOwner,
			Name:      *catName,
			ColorHex:  *catColor,
			CreatedAt: catCreatedAt.UTC(),
		}
	}
	t.Steps = make([]*domain.TaskStep, 0)
	return &t, nil
}

// recurrenceToText converts the optional recurrence enum to its stored form.
func recurrenceToText(r *domain.RecurrenceType) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
