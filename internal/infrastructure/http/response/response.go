// Package response writes the JSON envelopes used by every API endpoint.
// Successes are plain JSON bodies; failures are an ErrorResponse with a
// machine-readable code, a human-readable message, and optional field details.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// ErrorDetail describes a single field-level validation issue.
type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ErrorBody is the inner error object of an ErrorResponse.
type ErrorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details"`
}

// ErrorResponse is the wire format for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// internalErrorJSON is pre-marshaled so a failing encoder can still produce
// a valid JSON error body.
const internalErrorJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response","details":[]}}`

// OK writes data as JSON with status 200.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Created writes data as JSON with status 201.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

// NoContent writes status 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an ErrorResponse with the given code, message, and status.
func Error(w http.ResponseWriter, code, message string, status int) {
	resp := ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: []ErrorDetail{},
	}}
	writeJSON(w, status, resp)
}

// BadRequest writes a 400 with code INVALID_INPUT.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_INPUT", message, http.StatusBadRequest)
}

// NotFound writes a 404 with code NOT_FOUND.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, "NOT_FOUND", message, http.StatusNotFound)
}

// Unauthorized writes a 401 with code UNAUTHORIZED.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, "UNAUTHORIZED", message, http.StatusUnauthorized)
}

// ValidationError writes a 400 with a single field-level detail.
func ValidationError(w http.ResponseWriter, field, issue string) {
	resp := ErrorResponse{Error: ErrorBody{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Details: []ErrorDetail{{Field: field, Issue: issue}},
	}}
	writeJSON(w, http.StatusBadRequest, resp)
}

// FromDomainError maps a domain error to the appropriate HTTP response.
// Unrecognized errors become a 500 and are logged with the request context;
// their text never reaches the client.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var stepLimit *domain.StepLimitError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		Unauthorized(w, "authentication required")
	case errors.Is(err, domain.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		NotFound(w, "Category not found")
	case errors.Is(err, domain.ErrStepNotFound):
		NotFound(w, "Step not found")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "Resource not found")
	case errors.Is(err, domain.ErrCategoryNameTaken):
		BadRequest(w, "Category with this name already exists")
	case errors.Is(err, domain.ErrInvalidCategory):
		BadRequest(w, "Invalid category")
	case errors.As(err, &stepLimit):
		BadRequest(w, fmt.Sprintf("Task cannot have more than %d steps", stepLimit.Limit))
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "title is required")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", fmt.Sprintf("title must be %d characters or less", domain.MaxTitleLength))
	case errors.Is(err, domain.ErrCategoryNameRequired):
		ValidationError(w, "name", "name is required")
	case errors.Is(err, domain.ErrCategoryNameTooLong):
		ValidationError(w, "name", fmt.Sprintf("name must be %d characters or less", domain.MaxCategoryNameLength))
	case errors.Is(err, domain.ErrInvalidColorHex):
		ValidationError(w, "color", "color must be a hex value like #RRGGBB")
	case errors.Is(err, domain.ErrInvalidRecurrenceType):
		ValidationError(w, "recurrenceType", "unknown recurrence type")
	case errors.Is(err, domain.ErrInvalidID):
		BadRequest(w, "invalid ID format")
	default:
		slog.ErrorContext(r.Context(), "request failed with internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		Error(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}

// writeJSON marshals before touching the ResponseWriter so an encoding
// failure can still become a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(internalErrorJSON)); err != nil {
			slog.Error("Failed to write error response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
