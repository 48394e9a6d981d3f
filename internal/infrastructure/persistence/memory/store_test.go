package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrabeacon/beacon/internal/domain"
)

func newCategory(id, owner, name string) *domain.Category {
	return &domain.Category{
		ID:        id,
		Name:      name,
		ColorHex:  domain.DefaultColorHex,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
}

func newTask(id, owner, title string) *domain.Task {
	now := time.Now().UTC()
	return &domain.Task{
		ID:        id,
		Title:     title,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_OwnershipScoping(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, newCategory("cat-1", "alice", "Work")))
	require.NoError(t, store.CreateTask(ctx, newTask("task-1", "alice", "write report")))

	_, err := store.FindCategoryByID(ctx, "bob", "cat-1")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = store.FindTaskByID(ctx, "bob", "task-1")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	tasks, err := store.FindTasksByOwner(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestStore_DeleteCategoryDetachesTasks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, newCategory("cat-1", "alice", "Work")))

	task := newTask("task-1", "alice", "write report")
	catID := "cat-1"
	task.CategoryID = &catID
	require.NoError(t, store.CreateTask(ctx, task))

	require.NoError(t, store.DeleteCategory(ctx, "alice", "cat-1"))

	got, err := store.FindTaskByID(ctx, "alice", "task-1")
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestStore_HydratePopulatesCategoryAndSortsSteps(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, newCategory("cat-1", "alice", "Work")))

	task := newTask("task-1", "alice", "write report")
	catID := "cat-1"
	task.CategoryID = &catID
	require.NoError(t, store.CreateTask(ctx, task))

	// Insert out of order; reads must come back sorted by Order.
	require.NoError(t, store.CreateStep(ctx, &domain.TaskStep{ID: "s-2", TaskID: "task-1", Title: "second", Order: 1}))
	require.NoError(t, store.CreateStep(ctx, &domain.TaskStep{ID: "s-1", TaskID: "task-1", Title: "first", Order: 0}))

	got, err := store.FindTaskByID(ctx, "alice", "task-1")

	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Work", got.Category.Name)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, "first", got.Steps[0].Title)
	assert.Equal(t, "second", got.Steps[1].Title)
}

func TestStore_ReturnsClones(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateTask(ctx, newTask("task-1", "alice", "write report")))

	first, err := store.FindTaskByID(ctx, "alice", "task-1")
	require.NoError(t, err)

	// Mutating a returned task must not leak into the store.
	first.Title = "tampered"

	second, err := store.FindTaskByID(ctx, "alice", "task-1")
	require.NoError(t, err)
	assert.Equal(t, "write report", second.Title)
}

func TestStore_UpdateTaskKeepsSteps(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateTask(ctx, newTask("task-1", "alice", "write report")))
	require.NoError(t, store.CreateStep(ctx, &domain.TaskStep{ID: "s-1", TaskID: "task-1", Title: "outline", Order: 0}))

	updated := newTask("task-1", "alice", "write the report")
	require.NoError(t, store.UpdateTask(ctx, updated))

	got, err := store.FindTaskByID(ctx, "alice", "task-1")
	require.NoError(t, err)
	assert.Equal(t, "write the report", got.Title)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "outline", got.Steps[0].Title)
}

func TestStore_DeleteStepKeepsOrderGaps(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateTask(ctx, newTask("task-1", "alice", "write report")))
	for i, id := range []string{"s-0", "s-1", "s-2"} {
		require.NoError(t, store.CreateStep(ctx, &domain.TaskStep{ID: id, TaskID: "task-1", Title: id, Order: i}))
	}

	require.NoError(t, store.DeleteStep(ctx, "task-1", "s-1"))

	got, err := store.FindTaskByID(ctx, "alice", "task-1")
	require.NoError(t, err)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, 0, got.Steps[0].Order)
	assert.Equal(t, 2, got.Steps[1].Order)
}

func TestStore_CategoryNameExists_ExcludesSelf(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, newCategory("cat-1", "alice", "Work")))

	exists, err := store.CategoryNameExists(ctx, "alice", "Work", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.CategoryNameExists(ctx, "alice", "Work", "cat-1")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.CategoryNameExists(ctx, "bob", "Work", "")
	require.NoError(t, err)
	assert.False(t, exists)
}
