package handlers

import (
	"context"

	"github.com/iudanet/tasktracker/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// UserKey ключ для хранения аутентифицированного пользователя
	UserKey contextKey = "user"
	// RequestIDKey ключ для хранения id запроса
	RequestIDKey contextKey = "request_id"
)

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser извлекает пользователя из контекста
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// WithRequestID кладет id запроса в контекст
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID извлекает id запроса из контекста
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}
