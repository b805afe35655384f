package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/validation"
	"github.com/iudanet/tasktracker/pkg/api"
)

// maxBodyBytes ограничение размера JSON тела запроса
const maxBodyBytes = 1 << 20

// responder общие методы ответа для JSON handlers
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h *responder) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}

// sendServiceError переводит ошибку сервиса в HTTP статус
func (h *responder) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *service.ValidationError
		de *service.DuplicateIdentityError
	)

	resp := api.ErrorResponse{Message: err.Error()}
	statusCode := http.StatusInternalServerError

	switch {
	case errors.As(err, &ve):
		statusCode = http.StatusBadRequest
		resp.Field = ve.Field
	case errors.As(err, &de):
		statusCode = http.StatusBadRequest
		resp.Field = de.Field
	case errors.Is(err, service.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		resp.Message = "Invalid credentials!"
	case errors.Is(err, service.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
		resp.Message = "authentication required"
	case errors.Is(err, service.ErrNotFound):
		statusCode = http.StatusNotFound
		resp.Message = "Todo not found!"
	case errors.Is(err, service.ErrForbidden):
		statusCode = http.StatusForbidden
		resp.Message = "You are not authorized to access this todo!"
	default:
		resp.RequestID = GetRequestID(r.Context())
		resp.Message = "internal server error"
		h.logger.ErrorContext(r.Context(), "unexpected error",
			slog.String("request_id", resp.RequestID),
			slog.String("method", r.Method),
			slog.Any("error", err))
	}

	resp.Error = http.StatusText(statusCode)
	h.sendJSON(w, resp, statusCode)
}

// decodeBody читает тело, проверяет его JSON схемой и разбирает в dst
func (h *responder) decodeBody(w http.ResponseWriter, r *http.Request, schemas *validation.SchemaValidator, schema string, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &service.ValidationError{Field: "body", Message: "invalid request body"}
	}

	if err := schemas.Validate(schema, body); err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			return &service.ValidationError{Field: fe.Field, Message: fe.Message}
		}
		return fmt.Errorf("failed to validate request body: %w", err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &service.ValidationError{Field: "body", Message: "invalid request body"}
	}

	return nil
}
