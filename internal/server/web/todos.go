package web

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/server/session"
)

const errUnexpected = "An unexpected error occurred"

// Index обрабатывает GET /.
// Анонимный пользователь видит пустой список.
func (h *Handler) Index(req *request) error {
	data := pageData{Title: "Home"}

	if req.user != nil {
		todos, err := h.tasks.List(req.r.Context(), req.user)
		if err != nil {
			// Редирект на / зациклится, поэтому показываем пустой список
			h.logger.ErrorContext(req.r.Context(), "failed to list todos", slog.Any("error", err))
			req.sess.AddFlash(session.FlashDanger, errUnexpected)
		}
		data.Todos = todos
	}

	return h.show(req, pageTodos, data)
}

// AddTodoForm обрабатывает GET /add_todo
func (h *Handler) AddTodoForm(req *request) error {
	return h.show(req, pageTodoForm, todoFormData("Add Todo", "/add_todo", nil, nil))
}

// AddTodo обрабатывает POST /add_todo
func (h *Handler) AddTodo(req *request) error {
	form, in, errs, err := h.readTodoForm(req)
	if err != nil {
		return h.unexpected(req, err, errUnexpected, "/")
	}
	if errs != nil {
		return h.show(req, pageTodoForm, todoFormData("Add Todo", "/add_todo", form, errs))
	}

	_, err = h.tasks.Create(req.r.Context(), req.user, in)
	if errs, ok := fieldErrors(err); ok {
		return h.show(req, pageTodoForm, todoFormData("Add Todo", "/add_todo", form, errs))
	}
	if err != nil {
		return h.unexpected(req, err, errUnexpected, "/")
	}

	req.sess.AddFlash(session.FlashSuccess, "Todo added successfully!")
	return h.redirect(req, "/")
}

// EditTodoForm обрабатывает GET /edit_todo/{id}
func (h *Handler) EditTodoForm(req *request) error {
	todo, err := h.tasks.Get(req.r.Context(), req.user, req.r.PathValue("id"))
	if err != nil {
		return h.todoAccessError(req, err, "edit")
	}

	form := url.Values{}
	form.Set("name", todo.Name)
	form.Set("description", todo.Description)
	form.Set("completed", todo.CompletedString())

	return h.show(req, pageTodoForm, todoFormData("Edit Todo", editPath(todo.ID), form, nil))
}

// EditTodo обрабатывает POST /edit_todo/{id}
func (h *Handler) EditTodo(req *request) error {
	ctx := req.r.Context()
	id := req.r.PathValue("id")

	// Отсутствие и чужая задача проверяются до формы
	if _, err := h.tasks.Get(ctx, req.user, id); err != nil {
		return h.todoAccessError(req, err, "edit")
	}

	form, in, errs, err := h.readTodoForm(req)
	if err != nil {
		return h.unexpected(req, err, errUnexpected, "/")
	}
	if errs != nil {
		return h.show(req, pageTodoForm, todoFormData("Edit Todo", editPath(id), form, errs))
	}

	_, err = h.tasks.Update(ctx, req.user, id, in)
	if errs, ok := fieldErrors(err); ok {
		return h.show(req, pageTodoForm, todoFormData("Edit Todo", editPath(id), form, errs))
	}
	if err != nil {
		return h.todoAccessError(req, err, "edit")
	}

	req.sess.AddFlash(session.FlashSuccess, "Todo updated successfully!")
	return h.redirect(req, "/")
}

// DeleteTodo обрабатывает GET /delete_todo/{id}
// Ссылка удаления несет CSRF токен в query.
func (h *Handler) DeleteTodo(req *request) error {
	if !h.checkCSRF(req.w, req.r, req.r.URL.Query().Get(session.CSRFFieldName)) {
		return nil
	}

	if err := h.tasks.Delete(req.r.Context(), req.user, req.r.PathValue("id")); err != nil {
		return h.todoAccessError(req, err, "delete")
	}

	req.sess.AddFlash(session.FlashSuccess, "Todo deleted successfully!")
	return h.redirect(req, "/")
}

// todoAccessError переводит ошибку доступа к задаче во flash и редирект на /
func (h *Handler) todoAccessError(req *request, err error, action string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		req.sess.AddFlash(session.FlashDanger, "Todo not found!")
	case errors.Is(err, service.ErrForbidden):
		req.sess.AddFlash(session.FlashDanger, "You are not authorized to "+action+" this todo!")
	case errors.Is(err, service.ErrUnauthenticated):
		req.sess.AddFlash(session.FlashDanger, "You need to be logged in to "+action+" a todo!")
		return h.redirect(req, "/login")
	default:
		return h.unexpected(req, err, errUnexpected, "/")
	}
	return h.redirect(req, "/")
}

// readTodoForm разбирает форму задачи.
// errs заполнен, если completed не "True"/"False".
func (h *Handler) readTodoForm(req *request) (url.Values, service.TaskInput, map[string]string, error) {
	form, err := req.parseForm()
	if err != nil {
		return nil, service.TaskInput{}, nil, err
	}

	completed, ok := models.ParseCompleted(form.Get("completed"))
	if !ok {
		return form, service.TaskInput{}, map[string]string{
			service.FieldCompleted: "completed must be True or False",
		}, nil
	}

	return form, service.TaskInput{
		Name:        form.Get("name"),
		Description: form.Get("description"),
		Completed:   completed,
	}, nil, nil
}

func todoFormData(title, action string, form url.Values, errs map[string]string) pageData {
	if form == nil {
		form = url.Values{}
		form.Set("completed", models.CompletedFalse)
	}
	return pageData{Title: title, Action: action, Form: form, Errors: errs}
}

func editPath(id string) string {
	return "/edit_todo/" + url.PathEscape(id)
}
