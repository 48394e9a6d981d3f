package handler

import "time"

// Wire types for the JSON API. Field names are camelCase to match the
// frontend client.

// CategoryDTO is the wire representation of a category.
type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ColorHex  string    `json:"colorHex"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// StepDTO is the wire representation of a task step.
type StepDTO struct {
	ID          string `json:"id"`
	TaskID      string `json:"taskId"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
	Order       int    `json:"order"`
}

// TaskDTO is the wire representation of a task with its category and steps.
type TaskDTO struct {
	ID                      string       `json:"id"`
	Title                   string       `json:"title"`
	DueDate                 *time.Time   `json:"dueDate"`
	IsImportant             bool         `json:"isImportant"`
	IsCompleted             bool         `json:"isCompleted"`
	CreatedAt               time.Time    `json:"createdAt"`
	UpdatedAt               time.Time    `json:"updatedAt"`
	UserID                  string       `json:"userId"`
	RecurrenceType          *string      `json:"recurrenceType"`
	CustomRecurrencePattern *string      `json:"customRecurrencePattern"`
	CategoryID              *string      `json:"categoryId"`
	Category                *CategoryDTO `json:"category"`
	Steps                   []StepDTO    `json:"steps"`
}

// TaskCountsDTO is the wire representation of the per-view task counts.
type TaskCountsDTO struct {
	MyDay     int `json:"myDay"`
	Important int `json:"important"`
	Planned   int `json:"planned"`
	All       int `json:"all"`
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	ColorHex string `json:"colorHex"`
}

// UpdateCategoryRequest is the body of PUT /categories/{id}.
// Absent fields leave the stored values unchanged.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	ColorHex *string `json:"colorHex"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title                   string     `json:"title"`
	DueDate                 *time.Time `json:"dueDate"`
	IsImportant             bool       `json:"isImportant"`
	RecurrenceType          *string    `json:"recurrenceType"`
	CustomRecurrencePattern *string    `json:"customRecurrencePattern"`
	CategoryID              *string    `json:"categoryId"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}.
//
// Title, isImportant, isCompleted, recurrenceType, and
// customRecurrencePattern keep their stored values when absent. DueDate and
// categoryId always replace the stored values, so omitting them clears them.
type UpdateTaskRequest struct {
	Title                   *string    `json:"title"`
	DueDate                 *time.Time `json:"dueDate"`
	IsImportant             *bool      `json:"isImportant"`
	IsCompleted             *bool      `json:"isCompleted"`
	RecurrenceType          *string    `json:"recurrenceType"`
	CustomRecurrencePattern *string    `json:"customRecurrencePattern"`
	CategoryID              *string    `json:"categoryId"`
}

// CreateStepRequest is the body of POST /tasks/{taskId}/steps.
type CreateStepRequest struct {
	Title string `json:"title"`
}

// UpdateStepRequest is the body of PUT /tasks/{taskId}/steps/{stepId}.
// Absent fields leave the stored values unchanged.
type UpdateStepRequest struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"isCompleted"`
}
