// Package handler adapts HTTP requests to task service calls.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ezrabeacon/beacon/internal/application/tasks"
)

// TaskHandler serves the task management API.
type TaskHandler struct {
	taskService *tasks.Service
}

// NewTaskHandler creates a new HTTP API handler.
func NewTaskHandler(taskService *tasks.Service) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// NewRouter mounts all API routes on a chi router. Both production code and
// tests should use this function so they exercise identical routing.
func NewRouter(taskService *tasks.Service) http.Handler {
	h := NewTaskHandler(taskService)

	r := chi.NewRouter()

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/counts", h.GetTaskCounts)
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)

		r.Post("/{taskId}/steps", h.CreateStep)
		r.Put("/{taskId}/steps/{stepId}", h.UpdateStep)
		r.Delete("/{taskId}/steps/{stepId}", h.DeleteStep)
	})

	return r
}
