package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when no task matches the id, including malformed ids
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound is returned when no user matches the id, including malformed ids
	ErrUserNotFound = errors.New("user not found")
)
