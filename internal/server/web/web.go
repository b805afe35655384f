// Package web отдает HTML страницы приложения.
// Состояние браузера (identity token и flash-сообщения) хранится в серверной сессии.
package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/handlers"
	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/server/session"
)

// maxFormBytes ограничение размера тела формы
const maxFormBytes = 1 << 20

// Handler обрабатывает страницы
type Handler struct {
	logger    *slog.Logger
	accounts  *service.AccountService
	tasks     *service.TaskService
	sessions  *session.Manager
	templates map[string]*template.Template
}

// NewHandler создает handler страниц
func NewHandler(
	logger *slog.Logger,
	accounts *service.AccountService,
	tasks *service.TaskService,
	sessions *session.Manager,
) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		logger:    logger,
		accounts:  accounts,
		tasks:     tasks,
		sessions:  sessions,
		templates: templates,
	}, nil
}

// Routes регистрирует маршруты страниц
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.withSession(h.Index))
	mux.HandleFunc("GET /register", h.withSession(h.RegisterForm))
	mux.HandleFunc("POST /register", h.withSession(h.Register))
	mux.HandleFunc("GET /login", h.withSession(h.LoginForm))
	mux.HandleFunc("POST /login", h.withSession(h.Login))
	mux.HandleFunc("GET /logout", h.withSession(h.Logout))
	mux.HandleFunc("GET /add_todo", h.withSession(h.requireUser("add", h.AddTodoForm)))
	mux.HandleFunc("POST /add_todo", h.withSession(h.requireUser("add", h.AddTodo)))
	mux.HandleFunc("GET /edit_todo/{id}", h.withSession(h.requireUser("edit", h.EditTodoForm)))
	mux.HandleFunc("POST /edit_todo/{id}", h.withSession(h.requireUser("edit", h.EditTodo)))
	mux.HandleFunc("GET /delete_todo/{id}", h.withSession(h.requireUser("delete", h.DeleteTodo)))
}

// request состояние одного запроса страницы
type request struct {
	w    http.ResponseWriter
	r    *http.Request
	sess *session.Session
	user *models.User
}

type pageFunc func(req *request) error

// withSession загружает сессию, разрешает пользователя и сохраняет сессию после обработки
func (h *Handler) withSession(next pageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := h.sessions.Get(r)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to load session",
				slog.String("request_id", handlers.GetRequestID(ctx)),
				slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if r.Method == http.MethodPost {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
			if !h.checkCSRF(w, r, r.PostFormValue(session.CSRFFieldName)) {
				return
			}
		}

		req := &request{w: w, r: r, sess: sess}
		req.user, _ = h.accounts.ResolveCurrentUser(ctx, sess)

		if err := next(req); err != nil {
			h.logger.ErrorContext(ctx, "page handler failed",
				slog.String("request_id", handlers.GetRequestID(ctx)),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// checkCSRF отвечает 403, если токен формы не совпадает с CSRF cookie
func (h *Handler) checkCSRF(w http.ResponseWriter, r *http.Request, token string) bool {
	if err := h.sessions.VerifyCSRF(r, token); err != nil {
		h.logger.WarnContext(r.Context(), "csrf check failed",
			slog.String("request_id", handlers.GetRequestID(r.Context())),
			slog.String("path", r.URL.Path))
		http.Error(w, "Forbidden: invalid or missing form token", http.StatusForbidden)
		return false
	}
	return true
}

// requireUser перенаправляет анонимного пользователя на /login
func (h *Handler) requireUser(action string, next pageFunc) pageFunc {
	return func(req *request) error {
		if req.user == nil {
			req.sess.AddFlash(session.FlashDanger, "You need to be logged in to "+action+" a todo!")
			return h.redirect(req, "/login")
		}
		return next(req)
	}
}

// redirect сохраняет сессию и отвечает 302
func (h *Handler) redirect(req *request, location string) error {
	if err := h.sessions.Save(req.w, req.r, req.sess); err != nil {
		return err
	}
	http.Redirect(req.w, req.r, location, http.StatusFound)
	return nil
}

// show забирает flash-сообщения, сохраняет сессию и рендерит страницу
func (h *Handler) show(req *request, page string, data pageData) error {
	data.User = req.user
	data.Flashes = req.sess.PopFlashes()

	csrfToken, err := h.sessions.CSRFToken(req.w, req.r)
	if err != nil {
		return err
	}
	data.CSRFToken = csrfToken

	if err := h.sessions.Save(req.w, req.r, req.sess); err != nil {
		return err
	}
	return h.render(req.w, page, data)
}

// unexpected логирует ошибку вне таксономии и показывает flash
func (h *Handler) unexpected(req *request, err error, message, location string) error {
	ctx := req.r.Context()
	h.logger.ErrorContext(ctx, "unexpected error",
		slog.String("request_id", handlers.GetRequestID(ctx)),
		slog.String("path", req.r.URL.Path),
		slog.Any("error", err))

	req.sess.AddFlash(session.FlashDanger, message)
	return h.redirect(req, location)
}

// parseForm читает тело формы (размер ограничен в withSession)
func (req *request) parseForm() (url.Values, error) {
	if err := req.r.ParseForm(); err != nil {
		return nil, err
	}
	return req.r.PostForm, nil
}

// fieldErrors переводит ValidationError в ошибки полей формы
func fieldErrors(err error) (map[string]string, bool) {
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	return map[string]string{ve.Field: ve.Message}, true
}
