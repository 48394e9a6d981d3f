package domain

import (
	"errors"
	"fmt"
)

// Domain errors returned by service and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTaskNotFound indicates the task does not exist or is not owned by the caller.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCategoryNotFound indicates the category does not exist or is not owned by the caller.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrStepNotFound indicates the step does not exist under the given task.
	ErrStepNotFound = errors.New("step not found")

	// ErrUnauthenticated indicates no user identity could be resolved from the request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrTitleRequired indicates a task or step title was empty.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates a task or step title exceeded 255 characters.
	ErrTitleTooLong = errors.New("title must be 255 characters or less")

	// ErrCategoryNameRequired indicates a category name was empty.
	ErrCategoryNameRequired = errors.New("category name is required")

	// ErrCategoryNameTooLong indicates a category name exceeded 100 characters.
	ErrCategoryNameTooLong = errors.New("category name must be 100 characters or less")

	// ErrCategoryNameTaken indicates the owner already has a category with this name.
	ErrCategoryNameTaken = errors.New("category with this name already exists")

	// ErrInvalidColorHex indicates the color is not a #RGB or #RRGGBB hex string.
	ErrInvalidColorHex = errors.New("invalid color format")

	// ErrInvalidCategory indicates a task referenced a category that does not
	// exist or belongs to another owner.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidRecurrenceType indicates an unknown recurrence type value.
	ErrInvalidRecurrenceType = errors.New("invalid recurrence type")

	// ErrStepLimitExceeded indicates the task already holds the maximum number of steps.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// StepLimitError carries the configured step cap so handlers can report it.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("task cannot have more than %d steps", e.Limit)
}

// Is makes the error match ErrStepLimitExceeded in errors.Is checks.
func (e *StepLimitError) Is(target error) bool {
	return target == ErrStepLimitExceeded
}
