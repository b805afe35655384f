package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/handlers"
	"github.com/iudanet/tasktracker/internal/server/service"
)

// TokenResolver связывает bearer токен с пользователем
type TokenResolver interface {
	ResolveToken(ctx context.Context, tokenString string) (*models.User, error)
}

// AuthMiddleware создает middleware для проверки bearer токена.
// Пользователь кладется в контекст через handlers.WithUser.
func AuthMiddleware(logger *slog.Logger, resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "missing Authorization header")
				writeJSONError(w, r, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.WarnContext(ctx, "invalid Authorization header format")
				writeJSONError(w, r, "invalid token format", http.StatusUnauthorized)
				return
			}

			user, err := resolver.ResolveToken(ctx, parts[1])
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					logger.WarnContext(ctx, "invalid access token", slog.Any("error", err))
					writeJSONError(w, r, "invalid token", http.StatusUnauthorized)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve token",
					slog.String("request_id", handlers.GetRequestID(ctx)),
					slog.Any("error", err))
				writeJSONError(w, r, "internal server error", http.StatusInternalServerError)
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.String("user_id", user.ID),
				slog.String("username", user.Username))

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, user)))
		})
	}
}
