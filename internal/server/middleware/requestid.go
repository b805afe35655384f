package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/iudanet/tasktracker/internal/server/handlers"
)

// RequestIDHeader заголовок с id запроса
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen ограничение длины входящего id
const maxRequestIDLen = 64

// RequestIDMiddleware присваивает каждому запросу id.
// Входящий X-Request-ID используется, если он печатный и не длиннее maxRequestIDLen.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if !validRequestID(requestID) {
				requestID = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(handlers.WithRequestID(r.Context(), requestID)))
		})
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
