package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/tasktracker/internal/server/handlers"
	"github.com/iudanet/tasktracker/pkg/api"
)

// writeJSONError отправляет api.ErrorResponse с id запроса
func writeJSONError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	if statusCode >= http.StatusInternalServerError {
		resp.RequestID = handlers.GetRequestID(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
