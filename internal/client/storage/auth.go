package storage

import (
	"context"
)

// AuthStorage defines interface for storing the client session.
// The token is kept as-is: it is only sent back to the server it came from.
type AuthStorage interface {
	// SaveAuth stores authentication data, replacing the previous session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	// Returns ErrAuthNotFound if no auth data exists
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if valid authentication exists (not expired)
	IsAuthenticated(ctx context.Context) (bool, error)
}

// TodoIndexStorage remembers the order of the last printed todo list,
// so commands can address a todo by its list number.
type TodoIndexStorage interface {
	// SaveTodoIndex replaces the remembered list
	SaveTodoIndex(ctx context.Context, ids []string) error

	// LookupTodo returns the id at 1-based position n
	// Returns ErrTodoRefNotFound if n is out of range
	LookupTodo(ctx context.Context, n int) (string, error)
}

// AuthData represents the client session
type AuthData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ServerURL string `json:"server_url"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds, 0 если токен без exp
}
