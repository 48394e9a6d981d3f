package handler

import (
	"github.com/ezrabeacon/beacon/internal/domain"
)

// MapCategoryToDTO converts a domain category to its wire representation.
func MapCategoryToDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		ColorHex:  c.ColorHex,
		UserID:    c.OwnerID,
		CreatedAt: c.CreatedAt,
	}
}

// MapStepToDTO converts a domain step to its wire representation.
func MapStepToDTO(s *domain.TaskStep) StepDTO {
	return StepDTO{
		ID:          s.ID,
		TaskID:      s.TaskID,
		Title:       s.Title,
		IsCompleted: s.IsCompleted,
		Order:       s.Order,
	}
}

// MapTaskToDTO converts a domain task, with its category and steps, to its
// wire representation. Steps always serialize as an array, never null.
func MapTaskToDTO(t *domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		DueDate:     t.DueDate,
		IsImportant: t.IsImportant,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		UserID:      t.OwnerID,
		CategoryID:  t.CategoryID,
		Steps:       make([]StepDTO, 0, len(t.Steps)),
	}

	if t.Recurrence != nil {
		r := string(*t.Recurrence)
		dto.RecurrenceType = &r
	}
	dto.CustomRecurrencePattern = t.CustomPattern

	if t.Category != nil {
		c := MapCategoryToDTO(t.Category)
		dto.Category = &c
	}

	for _, step := range t.Steps {
		dto.Steps = append(dto.Steps, MapStepToDTO(step))
	}

	return dto
}

// MapCountsToDTO converts domain task counts to their wire representation.
func MapCountsToDTO(c domain.TaskCounts) TaskCountsDTO {
	return TaskCountsDTO{
		MyDay:     c.MyDay,
		Important: c.Important,
		Planned:   c.Planned,
		All:       c.All,
	}
}
