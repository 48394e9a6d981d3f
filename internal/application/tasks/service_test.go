package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrabeacon/beacon/internal/domain"
	"github.com/ezrabeacon/beacon/internal/infrastructure/persistence/memory"
	"github.com/ezrabeacon/beacon/internal/ptr"
)

const testOwner = "user-1"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewStore(), Config{})
}

// === Categories ===

func TestCreateCategory_AppliesDefaultColor(t *testing.T) {
	svc := newTestService(t)

	category, err := svc.CreateCategory(context.Background(), testOwner, "Work", "")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultColorHex, category.ColorHex)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, testOwner, category.OwnerID)
	assert.False(t, category.CreatedAt.IsZero())
}

func TestCreateCategory_DuplicateNameRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), testOwner, "Work", "#112233")
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), testOwner, "Work", "#445566")
	assert.ErrorIs(t, err, domain.ErrCategoryNameTaken)
}

func TestCreateCategory_SameNameDifferentOwnersAllowed(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), "user-1", "Work", "")
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), "user-2", "Work", "")
	assert.NoError(t, err)
}

func TestCreateCategory_DuplicateCheckRunsBeforeColorValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), testOwner, "Work", "#112233")
	require.NoError(t, err)

	// Both the name and the color are bad; the duplicate name wins.
	_, err = svc.CreateCategory(context.Background(), testOwner, "Work", "not-a-color")
	assert.ErrorIs(t, err, domain.ErrCategoryNameTaken)
}

func TestCreateCategory_InvalidColorRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), testOwner, "Work", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidColorHex)
}

func TestListCategories_OrderedByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Chores", "Admin", "Blocked"} {
		_, err := svc.CreateCategory(ctx, testOwner, name, "")
		require.NoError(t, err)
	}

	categories, err := svc.ListCategories(ctx, testOwner)

	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Admin", categories[0].Name)
	assert.Equal(t, "Blocked", categories[1].Name)
	assert.Equal(t, "Chores", categories[2].Name)
}

func TestUpdateCategory_AbsentFieldsKeepValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, testOwner, "Work", "#112233")
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, domain.UpdateCategoryParams{
		OwnerID:    testOwner,
		CategoryID: created.ID,
		ColorHex:   ptr.To("#445566"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	assert.Equal(t, "#445566", updated.ColorHex)

	// Empty strings are treated as absent too.
	updated, err = svc.UpdateCategory(ctx, domain.UpdateCategoryParams{
		OwnerID:    testOwner,
		CategoryID: created.ID,
		Name:       ptr.To(""),
		ColorHex:   ptr.To(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	assert.Equal(t, "#445566", updated.ColorHex)
}

func TestUpdateCategory_RenameToTakenNameRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, testOwner, "Work", "")
	require.NoError(t, err)
	personal, err := svc.CreateCategory(ctx, testOwner, "Personal", "")
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, domain.UpdateCategoryParams{
		OwnerID:    testOwner,
		CategoryID: personal.ID,
		Name:       ptr.To("Work"),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNameTaken)
}

func TestUpdateCategory_NotFoundForOtherOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, "user-1", "Work", "")
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, domain.UpdateCategoryParams{
		OwnerID:    "user-2",
		CategoryID: created.ID,
		Name:       ptr.To("Stolen"),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteCategory_DetachesTasks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, testOwner, "Work", "")
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, &domain.Task{
		Title:      "write report",
		OwnerID:    testOwner,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, testOwner, category.ID))

	got, err := svc.GetTask(ctx, testOwner, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

// === Tasks ===

func TestCreateTask_AssignsServerFields(t *testing.T) {
	svc := newTestService(t)

	due := time.Date(2025, 7, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	task, err := svc.CreateTask(context.Background(), &domain.Task{
		Title:       "  write report  ",
		OwnerID:     testOwner,
		DueDate:     &due,
		IsImportant: true,
		IsCompleted: true, // must be ignored
	})

	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "write report", task.Title)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, time.UTC, task.DueDate.Location())
	assert.Equal(t, due.UTC(), *task.DueDate)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.NotNil(t, task.Steps)
}

func TestCreateTask_TitleRequired(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateTask(context.Background(), &domain.Task{OwnerID: testOwner})
	assert.ErrorIs(t, err, domain.ErrTitleRequired)
}

func TestCreateTask_UnknownCategoryRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateTask(context.Background(), &domain.Task{
		Title:      "write report",
		OwnerID:    testOwner,
		CategoryID: ptr.To("2f0c96a1-0000-0000-0000-000000000000"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestCreateTask_OtherOwnersCategoryRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, "user-2", "Theirs", "")
	require.NoError(t, err)

	_, err = svc.CreateTask(ctx, &domain.Task{
		Title:      "write report",
		OwnerID:    "user-1",
		CategoryID: &category.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestCreateTask_PopulatesCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, testOwner, "Work", "")
	require.NoError(t, err)

	task, err := svc.CreateTask(ctx, &domain.Task{
		Title:      "write report",
		OwnerID:    testOwner,
		CategoryID: &category.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, task.Category)
	assert.Equal(t, "Work", task.Category.Name)
}

func TestGetTask_NotFoundForOtherOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "mine", OwnerID: "user-1"})
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, "user-2", task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTask_OmittedDueDateAndCategoryAreCleared(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, testOwner, "Work", "")
	require.NoError(t, err)
	due := time.Now().UTC().AddDate(0, 0, 3)
	task, err := svc.CreateTask(ctx, &domain.Task{
		Title:      "write report",
		OwnerID:    testOwner,
		DueDate:    &due,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	// An update carrying neither dueDate nor categoryId wipes both.
	updated, err := svc.UpdateTask(ctx, domain.UpdateTaskParams{
		OwnerID: testOwner,
		TaskID:  task.ID,
	})

	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Nil(t, updated.CategoryID)
	assert.Equal(t, "write report", updated.Title)
}

func TestUpdateTask_AbsentFieldsKeepValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{
		Title:       "write report",
		OwnerID:     testOwner,
		IsImportant: true,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, domain.UpdateTaskParams{
		OwnerID:     testOwner,
		TaskID:      task.ID,
		IsCompleted: ptr.To(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "write report", updated.Title)
	assert.True(t, updated.IsImportant)
	assert.True(t, updated.IsCompleted)
	assert.True(t, updated.UpdatedAt.After(task.CreatedAt) || updated.UpdatedAt.Equal(task.CreatedAt))
}

func TestUpdateTask_CategoryValidatedOnlyOnChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, testOwner, "Work", "")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, &domain.Task{
		Title:      "write report",
		OwnerID:    testOwner,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	// Re-sending the same category id must not fail even though ownership
	// checks are skipped for unchanged references.
	updated, err := svc.UpdateTask(ctx, domain.UpdateTaskParams{
		OwnerID:    testOwner,
		TaskID:     task.ID,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, category.ID, *updated.CategoryID)

	_, err = svc.UpdateTask(ctx, domain.UpdateTaskParams{
		OwnerID:    testOwner,
		TaskID:     task.ID,
		CategoryID: ptr.To("2f0c96a1-0000-0000-0000-000000000000"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestDeleteTask_RemovesSteps(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "write report", OwnerID: testOwner})
	require.NoError(t, err)
	_, err = svc.AddStep(ctx, testOwner, task.ID, "outline")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, testOwner, task.ID))

	_, err = svc.GetTask(ctx, testOwner, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListTasks_FilterAndSortApplied(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, &domain.Task{Title: "banana", OwnerID: testOwner, IsImportant: true})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, &domain.Task{Title: "apple", OwnerID: testOwner, IsImportant: true})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, &domain.Task{Title: "carrot", OwnerID: testOwner})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, testOwner, "important", "alphabetically", nil)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "apple", tasks[0].Title)
	assert.Equal(t, "banana", tasks[1].Title)
}

func TestListTasks_IncludesCompletedWhileCountsExcludeThem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "done thing", OwnerID: testOwner, IsImportant: true})
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, domain.UpdateTaskParams{
		OwnerID:     testOwner,
		TaskID:      task.ID,
		IsCompleted: ptr.To(true),
	})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, testOwner, "important", "", nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	counts, err := svc.GetTaskCounts(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Important)
	assert.Equal(t, 0, counts.All)
}

// === Steps ===

func TestAddStep_OrdersAppendOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "write report", OwnerID: testOwner})
	require.NoError(t, err)

	first, err := svc.AddStep(ctx, testOwner, task.ID, "outline")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)

	second, err := svc.AddStep(ctx, testOwner, task.ID, "draft")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	// Deleting a middle step must not renumber; the next step continues
	// from the highest surviving order.
	require.NoError(t, svc.DeleteStep(ctx, testOwner, task.ID, first.ID))

	third, err := svc.AddStep(ctx, testOwner, task.ID, "review")
	require.NoError(t, err)
	assert.Equal(t, 2, third.Order)
}

func TestAddStep_CapEnforced(t *testing.T) {
	svc := NewService(memory.NewStore(), Config{MaxStepsPerTask: 2})
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "write report", OwnerID: testOwner})
	require.NoError(t, err)

	_, err = svc.AddStep(ctx, testOwner, task.ID, "one")
	require.NoError(t, err)
	_, err = svc.AddStep(ctx, testOwner, task.ID, "two")
	require.NoError(t, err)

	_, err = svc.AddStep(ctx, testOwner, task.ID, "three")
	assert.ErrorIs(t, err, domain.ErrStepLimitExceeded)
}

func TestUpdateStep_PartialUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "write report", OwnerID: testOwner})
	require.NoError(t, err)
	step, err := svc.AddStep(ctx, testOwner, task.ID, "outline")
	require.NoError(t, err)

	updated, err := svc.UpdateStep(ctx, domain.UpdateStepParams{
		OwnerID:     testOwner,
		TaskID:      task.ID,
		StepID:      step.ID,
		IsCompleted: ptr.To(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "outline", updated.Title)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, step.Order, updated.Order)
}

func TestUpdateStep_NotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "write report", OwnerID: testOwner})
	require.NoError(t, err)

	_, err = svc.UpdateStep(ctx, domain.UpdateStepParams{
		OwnerID: testOwner,
		TaskID:  task.ID,
		StepID:  "2f0c96a1-0000-0000-0000-000000000000",
	})
	assert.ErrorIs(t, err, domain.ErrStepNotFound)
}

func TestDeleteStep_ThroughOwningTaskOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, &domain.Task{Title: "mine", OwnerID: "user-1"})
	require.NoError(t, err)
	step, err := svc.AddStep(ctx, "user-1", task.ID, "outline")
	require.NoError(t, err)

	err = svc.DeleteStep(ctx, "user-2", task.ID, step.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
