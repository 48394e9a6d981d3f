package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// DefaultMaxStepsPerTask caps how many steps a single task may hold.
const DefaultMaxStepsPerTask = 100

// Config holds configuration for the Service.
type Config struct {
	MaxStepsPerTask int
}

// Service provides business logic for task and category management.
// It orchestrates operations using the Repository interface. Every method
// takes the owner ID explicitly; nothing is read from ambient state.
type Service struct {
	repo   Repository
	config Config
}

// NewService creates a new task service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config) *Service {
	if config.MaxStepsPerTask <= 0 {
		config.MaxStepsPerTask = DefaultMaxStepsPerTask
	}

	return &Service{
		repo:   repo,
		config: config,
	}
}

// === Categories ===

// ListCategories returns the owner's categories ordered by name ascending.
func (s *Service) ListCategories(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	categories, err := s.repo.FindCategoriesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves one of the owner's categories by ID.
func (s *Service) GetCategory(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	if id == "" {
		return nil, domain.ErrCategoryNotFound
	}
	return s.repo.FindCategoryByID(ctx, ownerID, id)
}

// CreateCategory validates and persists a new category for the owner.
// The duplicate-name check runs before color validation, matching the
// original API's response ordering.
func (s *Service) CreateCategory(ctx context.Context, ownerID, nameStr, colorHex string) (*domain.Category, error) {
	name, err := domain.NewCategoryName(nameStr)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.CategoryNameExists(ctx, ownerID, name.String(), "")
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, domain.ErrCategoryNameTaken
	}

	if colorHex == "" {
		colorHex = domain.DefaultColorHex
	}
	color, err := domain.NewColorHex(colorHex)
	if err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	category := &domain.Category{
		ID:        idObj.String(),
		Name:      name.String(),
		ColorHex:  color,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory applies a partial update to one of the owner's categories.
// Absent or empty fields leave the stored values unchanged.
func (s *Service) UpdateCategory(ctx context.Context, params domain.UpdateCategoryParams) (*domain.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, params.OwnerID, params.CategoryID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && *params.Name != "" && *params.Name != category.Name {
		name, err := domain.NewCategoryName(*params.Name)
		if err != nil {
			return nil, err
		}
		taken, err := s.repo.CategoryNameExists(ctx, params.OwnerID, name.String(), category.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if taken {
			return nil, domain.ErrCategoryNameTaken
		}
		category.Name = name.String()
	}

	if params.ColorHex != nil && *params.ColorHex != "" {
		color, err := domain.NewColorHex(*params.ColorHex)
		if err != nil {
			return nil, err
		}
		category.ColorHex = color
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes one of the owner's categories. Tasks referencing it
// keep existing with their category reference cleared by the repository.
func (s *Service) DeleteCategory(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return domain.ErrCategoryNotFound
	}
	return s.repo.DeleteCategory(ctx, ownerID, id)
}

// === Tasks ===

// CreateTask validates and persists a new task. The caller fills Title,
// DueDate, IsImportant, Recurrence, CustomPattern, CategoryID, and OwnerID;
// everything else is assigned here.
func (s *Service) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	title, err := domain.NewTitle(task.Title)
	if err != nil {
		return nil, err
	}
	task.Title = title.String()

	if task.CategoryID != nil {
		if err := s.checkCategoryOwnership(ctx, task.OwnerID, *task.CategoryID); err != nil {
			return nil, err
		}
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}
	task.ID = idObj.String()

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.IsCompleted = false

	if task.DueDate != nil {
		utc := task.DueDate.UTC()
		task.DueDate = &utc
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Return the task with its category populated, as GET would.
	return s.repo.FindTaskByID(ctx, task.OwnerID, task.ID)
}

// GetTask retrieves one of the owner's tasks with category and ordered steps.
func (s *Service) GetTask(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	return s.repo.FindTaskByID(ctx, ownerID, id)
}

// UpdateTask applies a partial update to one of the owner's tasks.
//
// Title, IsImportant, IsCompleted, Recurrence, and CustomPattern keep their
// stored values when absent. DueDate and CategoryID are replace-always: the
// stored value becomes whatever the request carried, so omitting them clears
// them. UpdatedAt is always stamped.
func (s *Service) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	task, err := s.repo.FindTaskByID(ctx, params.OwnerID, params.TaskID)
	if err != nil {
		return nil, err
	}

	// Validate the category only when it actually changes.
	if params.CategoryID != nil && (task.CategoryID == nil || *task.CategoryID != *params.CategoryID) {
		if err := s.checkCategoryOwnership(ctx, params.OwnerID, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	if params.Title != nil && *params.Title != "" {
		title, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title.String()
	}
	if params.IsImportant != nil {
		task.IsImportant = *params.IsImportant
	}
	if params.IsCompleted != nil {
		task.IsCompleted = *params.IsCompleted
	}
	if params.Recurrence != nil {
		task.Recurrence = params.Recurrence
	}
	if params.CustomPattern != nil {
		task.CustomPattern = params.CustomPattern
	}

	task.DueDate = params.DueDate
	if task.DueDate != nil {
		utc := task.DueDate.UTC()
		task.DueDate = &utc
	}
	task.CategoryID = params.CategoryID
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes one of the owner's tasks and all its steps.
func (s *Service) DeleteTask(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return domain.ErrTaskNotFound
	}
	return s.repo.DeleteTask(ctx, ownerID, id)
}

// ListTasks returns the owner's tasks filtered by view and category and
// ordered by the sort key. View and sort names are matched case-insensitively
// and unknown values fall back to "all" and creation-date order. The view
// filter does not exclude completed tasks.
func (s *Service) ListTasks(ctx context.Context, ownerID, view, sortBy string, categoryID *string) ([]*domain.Task, error) {
	all, err := s.repo.FindTasksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	now := time.Now().UTC()
	filtered := domain.FilterTasks(all, domain.ParseTaskView(view), categoryID, now)
	domain.SortTasks(filtered, domain.ParseTaskSort(sortBy))

	return filtered, nil
}

// GetTaskCounts computes the per-view badge counts over the owner's
// incomplete tasks. Completed tasks are excluded from every count, including
// views that would list them; the counts represent work remaining.
func (s *Service) GetTaskCounts(ctx context.Context, ownerID string) (domain.TaskCounts, error) {
	all, err := s.repo.FindTasksByOwner(ctx, ownerID)
	if err != nil {
		return domain.TaskCounts{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	return domain.CountTasks(all, time.Now().UTC()), nil
}

// === Steps ===

// AddStep appends a step to one of the owner's tasks. The new step gets
// order max(existing)+1, or 0 on an empty task, and starts incomplete.
// Fails with domain.ErrStepLimitExceeded at the configured cap.
func (s *Service) AddStep(ctx context.Context, ownerID, taskID, titleStr string) (*domain.TaskStep, error) {
	task, err := s.repo.FindTaskByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if len(task.Steps) >= s.config.MaxStepsPerTask {
		return nil, &domain.StepLimitError{Limit: s.config.MaxStepsPerTask}
	}

	title, err := domain.NewTitle(titleStr)
	if err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	step := &domain.TaskStep{
		ID:          idObj.String(),
		TaskID:      task.ID,
		Title:       title.String(),
		IsCompleted: false,
		Order:       task.MaxStep() + 1,
	}

	if err := s.repo.CreateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}

	return step, nil
}

// UpdateStep applies a partial update to a step, resolved through its owning
// task. Absent or empty fields leave the stored values unchanged.
func (s *Service) UpdateStep(ctx context.Context, params domain.UpdateStepParams) (*domain.TaskStep, error) {
	task, err := s.repo.FindTaskByID(ctx, params.OwnerID, params.TaskID)
	if err != nil {
		return nil, err
	}

	step := task.FindStep(params.StepID)
	if step == nil {
		return nil, domain.ErrStepNotFound
	}

	if params.Title != nil && *params.Title != "" {
		title, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		step.Title = title.String()
	}
	if params.IsCompleted != nil {
		step.IsCompleted = *params.IsCompleted
	}

	if err := s.repo.UpdateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	return step, nil
}

// DeleteStep removes a step, resolved through its owning task. The remaining
// steps keep their order values; gaps are never renumbered.
func (s *Service) DeleteStep(ctx context.Context, ownerID, taskID, stepID string) error {
	task, err := s.repo.FindTaskByID(ctx, ownerID, taskID)
	if err != nil {
		return err
	}

	if task.FindStep(stepID) == nil {
		return domain.ErrStepNotFound
	}

	if err := s.repo.DeleteStep(ctx, task.ID, stepID); err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}

	return nil
}

// checkCategoryOwnership verifies the category exists and belongs to the
// owner, translating a miss into domain.ErrInvalidCategory since the failure
// surfaces on a task write, not a category read.
func (s *Service) checkCategoryOwnership(ctx context.Context, ownerID, categoryID string) error {
	_, err := s.repo.FindCategoryByID(ctx, ownerID, categoryID)
	if errors.Is(err, domain.ErrCategoryNotFound) || errors.Is(err, domain.ErrInvalidID) {
		return domain.ErrInvalidCategory
	}
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	return nil
}
