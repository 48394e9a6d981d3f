package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ezrabeacon/beacon/internal/domain"
	"github.com/ezrabeacon/beacon/internal/infrastructure/http/response"
)

// unencodableType simulates a type that fails during JSON encoding, like a
// custom MarshalJSON that can return an error.
type unencodableType struct {
	BadField chan int `json:"bad_field"` // Channels cannot be JSON encoded
}

func (u unencodableType) MarshalJSON() ([]byte, error) {
	_, err := json.Marshal(u.BadField)
	return nil, err
}

// TestOK_EncodingFailure_Returns500WithErrorJSON verifies that if JSON
// marshaling fails, we return HTTP 500 with a proper JSON error response
// instead of a success status with a broken body.
func TestOK_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	w := httptest.NewRecorder()

	response.OK(w, unencodableType{})

	result := w.Result()
	defer result.Body.Close()

	if result.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 Internal Server Error when marshaling fails, got %d", result.StatusCode)
	}
	if ct := result.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	var errorResp response.ErrorResponse
	if err := json.NewDecoder(result.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Response body is not valid JSON: %v", err)
	}
	if errorResp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("Expected error code INTERNAL_ERROR, got %s", errorResp.Error.Code)
	}
	if errorResp.Error.Message != "failed to encode response" {
		t.Errorf("Expected error message 'failed to encode response', got %s", errorResp.Error.Message)
	}
}

// TestCreated_Success_ReturnsValidJSON verifies the happy path for 201
// responses.
func TestCreated_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()

	response.Created(w, map[string]string{"id": "new-resource-123"})

	result := w.Result()
	defer result.Body.Close()

	if result.StatusCode != http.StatusCreated {
		t.Errorf("Expected 201 Created, got %d", result.StatusCode)
	}
	if ct := result.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.NewDecoder(result.Body).Decode(&decoded); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if decoded["id"] != "new-resource-123" {
		t.Errorf("Expected id=new-resource-123, got %v", decoded["id"])
	}
}

func TestNoContent_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()

	response.NoContent(w)

	result := w.Result()
	defer result.Body.Close()

	if result.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 No Content, got %d", result.StatusCode)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

// TestError_Success_ReturnsValidJSON verifies that error responses match the
// ErrorResponse schema with an empty details array, never null.
func TestError_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()

	response.Error(w, "INVALID_INPUT", "missing required field", http.StatusBadRequest)

	result := w.Result()
	defer result.Body.Close()

	if result.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 Bad Request, got %d", result.StatusCode)
	}

	var raw struct {
		Error struct {
			Code    string           `json:"code"`
			Message string           `json:"message"`
			Details *json.RawMessage `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(result.Body).Decode(&raw); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if raw.Error.Code != "INVALID_INPUT" {
		t.Errorf("Expected code=INVALID_INPUT, got %s", raw.Error.Code)
	}
	if raw.Error.Message != "missing required field" {
		t.Errorf("Expected message='missing required field', got %s", raw.Error.Message)
	}
	if raw.Error.Details == nil || string(*raw.Error.Details) != "[]" {
		t.Errorf("Expected details=[], got %v", raw.Error.Details)
	}
}

// TestValidationError_Success_ReturnsValidJSON verifies the field-level
// detail carried by validation failures.
func TestValidationError_Success_ReturnsValidJSON(t *testing.T) {
	w := httptest.NewRecorder()

	response.ValidationError(w, "title", "title is required")

	result := w.Result()
	defer result.Body.Close()

	if result.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 Bad Request, got %d", result.StatusCode)
	}

	var errorResp response.ErrorResponse
	if err := json.NewDecoder(result.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if errorResp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code=VALIDATION_ERROR, got %s", errorResp.Error.Code)
	}
	if len(errorResp.Error.Details) != 1 {
		t.Fatalf("Expected 1 detail, got %d", len(errorResp.Error.Details))
	}
	if errorResp.Error.Details[0].Field != "title" {
		t.Errorf("Expected field=title, got %s", errorResp.Error.Details[0].Field)
	}
}

// TestFromDomainError_Mappings checks the status and message each domain
// error renders as on the wire.
func TestFromDomainError_Mappings(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
		{"task not found", domain.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND", "Task not found"},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound, "NOT_FOUND", "Category not found"},
		{"step not found", domain.ErrStepNotFound, http.StatusNotFound, "NOT_FOUND", "Step not found"},
		{"name taken", domain.ErrCategoryNameTaken, http.StatusBadRequest, "INVALID_INPUT", "Category with this name already exists"},
		{"invalid category", domain.ErrInvalidCategory, http.StatusBadRequest, "INVALID_INPUT", "Invalid category"},
		{"step limit", &domain.StepLimitError{Limit: 100}, http.StatusBadRequest, "INVALID_INPUT", "Task cannot have more than 100 steps"},
		{"title required", domain.ErrTitleRequired, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed"},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest, "INVALID_INPUT", "invalid ID format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

			response.FromDomainError(w, r, tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			var errorResp response.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
				t.Fatalf("Response is not valid JSON: %v", err)
			}
			if errorResp.Error.Code != tc.wantCode {
				t.Errorf("Expected code=%s, got %s", tc.wantCode, errorResp.Error.Code)
			}
			if errorResp.Error.Message != tc.wantMessage {
				t.Errorf("Expected message=%q, got %q", tc.wantMessage, errorResp.Error.Message)
			}
		})
	}
}

// TestFromDomainError_UnknownErrorHidesDetails ensures internal error text
// never leaks to the client.
func TestFromDomainError_UnknownErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

	response.FromDomainError(w, r, json.Unmarshal([]byte("{"), &struct{}{}))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	var errorResp response.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if errorResp.Error.Message != "internal server error" {
		t.Errorf("Expected generic message, got %q", errorResp.Error.Message)
	}
}
