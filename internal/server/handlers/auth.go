package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/validation"
	"github.com/iudanet/tasktracker/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	responder
	accounts *service.AccountService
	schemas  *validation.SchemaValidator
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, accounts *service.AccountService, schemas *validation.SchemaValidator) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		accounts:  accounts,
		schemas:   schemas,
	}
}

// Register обрабатывает POST /api/register
// Регистрация нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := h.decodeBody(w, r, h.schemas, validation.SchemaRegister, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request", slog.Any("error", err))
		h.sendServiceError(w, r, err)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		h.sendError(w, "Username and password and email are required!", http.StatusBadRequest)
		return
	}

	if _, err := h.accounts.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			slog.String("username", req.Username),
			slog.Any("error", err))
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{Message: "User registered successfully!"}, http.StatusCreated)
}

// Login обрабатывает POST /api/login
// Аутентификация по username или email
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := h.decodeBody(w, r, h.schemas, validation.SchemaLogin, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request", slog.Any("error", err))
		h.sendServiceError(w, r, err)
		return
	}

	result, err := h.accounts.Login(ctx, service.Credentials{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	resp := api.TokenResponse{
		Token:    result.Token,
		Username: result.User.Username,
		Email:    result.User.Email,
	}

	h.sendJSON(w, resp, http.StatusOK)
}
