package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is an aggregate root representing a single to-do entry owned by one user.
//
// Steps are part of the aggregate and are always loaded with the task, ordered
// by Order ascending. Category is populated when the task references one.
type Task struct {
	ID        string
	Title     string
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   string

	IsImportant bool
	IsCompleted bool

	// Recurrence. CustomPattern is meaningful only when Recurrence is RecurrenceCustom.
	Recurrence    *RecurrenceType
	CustomPattern *string

	// Category relationship. CategoryID is nil when the task is uncategorized;
	// deleting a category detaches it from tasks rather than deleting them.
	CategoryID *string
	Category   *Category

	Steps []*TaskStep
}

// TaskStep is an ordered sub-item of a task, completable independently of it.
//
// Order values are assigned append-only (max existing + 1, or 0 for the first
// step) and are never renumbered when steps are deleted.
type TaskStep struct {
	ID          string
	TaskID      string
	Title       string
	IsCompleted bool
	Order       int
}

// RecurrenceType is an enumerated repeat pattern attached to a task.
type RecurrenceType string

const (
	RecurrenceNone     RecurrenceType = "none"
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekdays RecurrenceType = "weekdays"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceYearly   RecurrenceType = "yearly"
	RecurrenceCustom   RecurrenceType = "custom"
)

// NewRecurrenceType validates and creates a RecurrenceType.
func NewRecurrenceType(s string) (RecurrenceType, error) {
	rt := RecurrenceType(strings.ToLower(s))

	switch rt {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekly,
		RecurrenceMonthly, RecurrenceYearly, RecurrenceCustom:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidRecurrenceType, s)
	}
}

// MaxStep returns the highest step order on the task, or -1 when it has no steps.
func (t *Task) MaxStep() int {
	max := -1
	for _, s := range t.Steps {
		if s.Order > max {
			max = s.Order
		}
	}
	return max
}

// FindStep returns the step with the given ID, or nil if the task has no such step.
func (t *Task) FindStep(stepID string) *TaskStep {
	for _, s := range t.Steps {
		if s.ID == stepID {
			return s
		}
	}
	return nil
}
