// Package memory provides a mutex-guarded in-memory implementation of the
// tasks repository. It backs the development storage mode and the handler
// tests; nothing is persisted across restarts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// Store implements tasks.Repository with in-memory maps.
type Store struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
	tasks      map[string]*domain.Task
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]*domain.Category),
		tasks:      make(map[string]*domain.Task),
	}
}

// === Category Operations ===

// CreateCategory persists a new category.
func (s *Store) CreateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.OwnerID == category.OwnerID && c.Name == category.Name {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNameTaken, category.Name)
		}
	}

	s.categories[category.ID] = cloneCategory(category)
	return nil
}

// FindCategoryByID retrieves one of the owner's categories.
func (s *Store) FindCategoryByID(_ context.Context, ownerID, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: category %s", domain.ErrCategoryNotFound, id)
	}
	return cloneCategory(c), nil
}

// FindCategoriesByOwner lists the owner's categories ordered by name.
func (s *Store) FindCategoriesByOwner(_ context.Context, ownerID string) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Category, 0)
	for _, c := range s.categories {
		if c.OwnerID == ownerID {
			out = append(out, cloneCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CategoryNameExists reports whether the owner already uses the name.
func (s *Store) CategoryNameExists(_ context.Context, ownerID, name, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.OwnerID == ownerID && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// UpdateCategory overwrites the stored category row.
func (s *Store) UpdateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return fmt.Errorf("%w: category %s", domain.ErrCategoryNotFound, category.ID)
	}
	s.categories[category.ID] = cloneCategory(category)
	return nil
}

// DeleteCategory removes the category and clears references on the owner's tasks.
func (s *Store) DeleteCategory(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return fmt.Errorf("%w: category %s", domain.ErrCategoryNotFound, id)
	}
	delete(s.categories, id)

	// Referential policy: tasks survive their category.
	for _, t := range s.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
		}
	}
	return nil
}

// === Task Operations ===

// CreateTask persists a new task.
func (s *Store) CreateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// FindTaskByID retrieves one of the owner's tasks with category and ordered steps.
func (s *Store) FindTaskByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}
	return s.hydrate(t), nil
}

// FindTasksByOwner retrieves all of the owner's tasks.
func (s *Store) FindTasksByOwner(_ context.Context, ownerID string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, s.hydrate(t))
		}
	}
	return out, nil
}

// UpdateTask overwrites the stored task row, keeping its steps.
func (s *Store) UpdateTask(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, task.ID)
	}

	updated := cloneTask(task)
	updated.Steps = existing.Steps
	s.tasks[task.ID] = updated
	return nil
}

// DeleteTask removes the task; its steps go with it.
func (s *Store) DeleteTask(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, id)
	}
	delete(s.tasks, id)
	return nil
}

// === Step Operations ===

// CreateStep appends a step to its owning task.
func (s *Store) CreateStep(_ context.Context, step *domain.TaskStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[step.TaskID]
	if !ok {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, step.TaskID)
	}
	clone := *step
	t.Steps = append(t.Steps, &clone)
	return nil
}

// UpdateStep overwrites the stored step row.
func (s *Store) UpdateStep(_ context.Context, step *domain.TaskStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[step.TaskID]
	if !ok {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, step.TaskID)
	}
	for i, existing := range t.Steps {
		if existing.ID == step.ID {
			clone := *step
			t.Steps[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("%w: step %s", domain.ErrStepNotFound, step.ID)
}

// DeleteStep removes a single step without renumbering the rest.
func (s *Store) DeleteStep(_ context.Context, taskID, stepID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: task %s", domain.ErrTaskNotFound, taskID)
	}
	for i, existing := range t.Steps {
		if existing.ID == stepID {
			t.Steps = append(t.Steps[:i], t.Steps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: step %s", domain.ErrStepNotFound, stepID)
}

// hydrate copies a stored task and populates its category and sorted steps.
// Callers must hold at least the read lock.
func (s *Store) hydrate(t *domain.Task) *domain.Task {
	out := cloneTask(t)

	out.Steps = make([]*domain.TaskStep, 0, len(t.Steps))
	for _, step := range t.Steps {
		clone := *step
		out.Steps = append(out.Steps, &clone)
	}
	sort.Slice(out.Steps, func(i, j int) bool { return out.Steps[i].Order < out.Steps[j].Order })

	if out.CategoryID != nil {
		if c, ok := s.categories[*out.CategoryID]; ok {
			out.Category = cloneCategory(c)
		}
	}
	return out
}

func cloneCategory(c *domain.Category) *domain.Category {
	clone := *c
	return &clone
}

// cloneTask copies the task row itself; steps and category are handled by
// the callers that need them.
func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	clone.Category = nil
	clone.Steps = nil
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	if t.CategoryID != nil {
		id := *t.CategoryID
		clone.CategoryID = &id
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		clone.Recurrence = &r
	}
	if t.CustomPattern != nil {
		p := *t.CustomPattern
		clone.CustomPattern = &p
	}
	return &clone
}
