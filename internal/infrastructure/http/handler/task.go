package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ezrabeacon/beacon/internal/application/auth"
	"github.com/ezrabeacon/beacon/internal/domain"
	"github.com/ezrabeacon/beacon/internal/infrastructure/http/response"
)

// ListTasks handles GET /tasks?view=&sortBy=&categoryId=.
// Unknown view and sortBy values fall back to the full list in creation order.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var categoryID *string
	if v := r.URL.Query().Get("categoryId"); v != "" {
		categoryID = &v
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID,
		r.URL.Query().Get("view"),
		r.URL.Query().Get("sortBy"),
		categoryID,
	)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, MapTaskToDTO(t))
	}
	response.OK(w, dtos)
}

// GetTaskCounts handles GET /tasks/counts. Completed tasks are excluded from
// every count.
func (h *TaskHandler) GetTaskCounts(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	counts, err := h.taskService.GetTaskCounts(r.Context(), userID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapCountsToDTO(counts))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapTaskToDTO(task))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	task := &domain.Task{
		Title:         req.Title,
		DueDate:       req.DueDate,
		IsImportant:   req.IsImportant,
		CustomPattern: req.CustomRecurrencePattern,
		CategoryID:    req.CategoryID,
		OwnerID:       userID,
	}

	if req.RecurrenceType != nil {
		recurrence, err := domain.NewRecurrenceType(*req.RecurrenceType)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		task.Recurrence = &recurrence
	}

	created, err := h.taskService.CreateTask(r.Context(), task)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create task via HTTP",
			"user_id", userID,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "task created",
		"task_id", created.ID,
		"user_id", userID)

	response.Created(w, MapTaskToDTO(created))
}

// UpdateTask handles PUT /tasks/{id}.
//
// The request body carries full replacement values for dueDate and
// categoryId; the remaining fields keep their stored values when absent.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateTaskParams{
		OwnerID:       userID,
		TaskID:        chi.URLParam(r, "id"),
		Title:         req.Title,
		DueDate:       req.DueDate,
		IsImportant:   req.IsImportant,
		IsCompleted:   req.IsCompleted,
		CustomPattern: req.CustomRecurrencePattern,
		CategoryID:    req.CategoryID,
	}

	if req.RecurrenceType != nil {
		recurrence, err := domain.NewRecurrenceType(*req.RecurrenceType)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		params.Recurrence = &recurrence
	}

	if _, err := h.taskService.UpdateTask(r.Context(), params); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteTask handles DELETE /tasks/{id}. Steps go with the task.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
