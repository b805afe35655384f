package storage

import (
	"context"

	"github.com/iudanet/tasktracker/internal/models"
)

//go:generate moq -out user_mock.go . UserStorage

// UserStorage defines interface for the users collection
type UserStorage interface {
	// CreateUser inserts a new user.
	// Returns ErrUsernameTaken or ErrEmailTaken if a unique index rejects it
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}
