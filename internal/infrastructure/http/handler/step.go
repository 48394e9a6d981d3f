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

// CreateStep handles POST /tasks/{taskId}/steps. The new step is appended
// after the task's highest existing order.
func (h *TaskHandler) CreateStep(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req CreateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	step, err := h.taskService.AddStep(r.Context(), userID, chi.URLParam(r, "taskId"), req.Title)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "step created",
		"step_id", step.ID,
		"task_id", step.TaskID,
		"user_id", userID)

	response.Created(w, MapStepToDTO(step))
}

// UpdateStep handles PUT /tasks/{taskId}/steps/{stepId}.
func (h *TaskHandler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req UpdateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	_, err = h.taskService.UpdateStep(r.Context(), domain.UpdateStepParams{
		OwnerID:     userID,
		TaskID:      chi.URLParam(r, "taskId"),
		StepID:      chi.URLParam(r, "stepId"),
		Title:       req.Title,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteStep handles DELETE /tasks/{taskId}/steps/{stepId}. Remaining steps
// keep their order values.
func (h *TaskHandler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	err = h.taskService.DeleteStep(r.Context(), userID,
		chi.URLParam(r, "taskId"), chi.URLParam(r, "stepId"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
