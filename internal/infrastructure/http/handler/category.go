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

// ListCategories handles GET /categories.
func (h *TaskHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	categories, err := h.taskService.ListCategories(r.Context(), userID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, MapCategoryToDTO(c))
	}
	response.OK(w, dtos)
}

// GetCategory handles GET /categories/{id}.
func (h *TaskHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	category, err := h.taskService.GetCategory(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, MapCategoryToDTO(category))
}

// CreateCategory handles POST /categories.
func (h *TaskHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	category, err := h.taskService.CreateCategory(r.Context(), userID, req.Name, req.ColorHex)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "category created",
		"category_id", category.ID,
		"user_id", userID)

	response.Created(w, MapCategoryToDTO(category))
}

// UpdateCategory handles PUT /categories/{id}.
func (h *TaskHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	_, err = h.taskService.UpdateCategory(r.Context(), domain.UpdateCategoryParams{
		OwnerID:    userID,
		CategoryID: chi.URLParam(r, "id"),
		Name:       req.Name,
		ColorHex:   req.ColorHex,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}

// DeleteCategory handles DELETE /categories/{id}. Tasks in the category
// survive with their reference cleared.
func (h *TaskHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	if err := h.taskService.DeleteCategory(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.NoContent(w)
}
