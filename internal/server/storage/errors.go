package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that unique index on users.username rejected the insert
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken indicates that unique index on users.email rejected the insert
	ErrEmailTaken = errors.New("email already exists")

	// ErrTaskNotFound indicates that no task matched the filter
	ErrTaskNotFound = errors.New("task not found")
)
