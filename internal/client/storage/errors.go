package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrTodoRefNotFound indicates that list number is not in the last printed list
	ErrTodoRefNotFound = errors.New("todo number not found in last list")
)
