package domain

import "time"

// Partial-update parameter structs. A nil pointer means "leave the stored
// value unchanged". For Title/Name fields an empty string is also treated as
// absent, preserving the original API behavior in which a title can never be
// cleared to blank via update.

// UpdateCategoryParams carries a partial category update.
type UpdateCategoryParams struct {
	OwnerID    string
	CategoryID string

	Name     *string
	ColorHex *string
}

// UpdateTaskParams carries a partial task update.
//
// DueDate and CategoryID are replace-always fields: the stored value is
// overwritten with the request value on every update, so a nil here clears
// the stored value. The remaining pointer fields follow nil-means-unchanged.
type UpdateTaskParams struct {
	OwnerID string
	TaskID  string

	Title         *string
	IsImportant   *bool
	IsCompleted   *bool
	Recurrence    *RecurrenceType
	CustomPattern *string

	DueDate    *time.Time
	CategoryID *string
}

// UpdateStepParams carries a partial step update.
type UpdateStepParams struct {
	OwnerID string
	TaskID  string
	StepID  string

	Title       *string
	IsCompleted *bool
}
