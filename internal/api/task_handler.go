package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskHandler handles the /tasks endpoints. All of them require an identity.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) error {
	req := middleware.Validated[CreateTaskRequest](r)

	task, err := h.tasks.Create(r.Context(), service.CreateTaskInput{
		Title:       *req.Body.Title,
		Description: req.Body.Description,
		Assignee:    *req.Body.Assignee,
	})
	if err != nil {
		return err
	}

	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		logger.FromContext(r.Context()).Debug("task created by user",
			"task_id", task.ID, "user_id", identity.ID)
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newTaskResponse(task))
	return nil
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) error {
	q := middleware.Validated[ListTasksRequest](r).Query

	tasks, err := h.tasks.List(r.Context(), store.TaskFilter{
		Title:    q.Title,
		Assignee: q.Assignee,
		Status:   domain.TaskStatus(q.Status),
		Page:     atoiOrZero(q.Page),
		Limit:    atoiOrZero(q.Limit),
		Order:    store.SortOrder(q.Order),
	})
	if err != nil {
		return err
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponses(tasks))
	return nil
}

// Complete handles PATCH /tasks/{id}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) error {
	task, err := h.tasks.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
	return nil
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// atoiOrZero parses digits already checked by validation. Values too large
// for an int become 0, which TaskFilter.Normalize replaces with the default.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
