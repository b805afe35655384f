package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/validation"
	"github.com/iudanet/tasktracker/pkg/api"
)

// TaskHandler обрабатывает JSON API задач.
// Пользователь должен быть положен в контекст AuthMiddleware.
type TaskHandler struct {
	responder
	tasks   *service.TaskService
	schemas *validation.SchemaValidator
}

// NewTaskHandler создает новый handler задач
func NewTaskHandler(logger *slog.Logger, tasks *service.TaskService, schemas *validation.SchemaValidator) *TaskHandler {
	return &TaskHandler{
		responder: responder{logger: logger},
		tasks:     tasks,
		schemas:   schemas,
	}
}

// List обрабатывает GET /api/todos
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())

	tasks, err := h.tasks.List(r.Context(), user)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	resp := api.TodoListResponse{Todos: make([]api.Todo, 0, len(tasks))}
	for _, task := range tasks {
		resp.Todos = append(resp.Todos, toAPITodo(task))
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Create обрабатывает POST /api/todos
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())

	in, err := h.decodeTask(w, r)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), user, in)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, toAPITodo(task), http.StatusCreated)
}

// Get обрабатывает GET /api/todos/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())

	task, err := h.tasks.Get(r.Context(), user, r.PathValue("id"))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, toAPITodo(task), http.StatusOK)
}

// Update обрабатывает PUT /api/todos/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())

	in, err := h.decodeTask(w, r)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), user, r.PathValue("id"), in)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, toAPITodo(task), http.StatusOK)
}

// Delete обрабатывает DELETE /api/todos/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := GetUser(r.Context())

	if err := h.tasks.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// todoBody тело api.TodoRequest, в котором отсутствие completed отличимо от false
type todoBody struct {
	Completed   *api.Completed `json:"completed"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

// decodeTask разбирает тело задачи. completed обязателен, как и в форме.
func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (service.TaskInput, error) {
	var req todoBody
	if err := h.decodeBody(w, r, h.schemas, validation.SchemaTask, &req); err != nil {
		return service.TaskInput{}, err
	}
	if req.Completed == nil {
		return service.TaskInput{}, &service.ValidationError{
			Field:   service.FieldCompleted,
			Message: "completed is required",
		}
	}

	return service.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		Completed:   bool(*req.Completed),
	}, nil
}

func toAPITodo(task *models.Task) api.Todo {
	return api.Todo{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Completed:   api.Completed(task.Completed),
		CreatedAt:   task.CreatedAtString(),
	}
}
