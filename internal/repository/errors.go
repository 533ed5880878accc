package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail indicates an insert collided with the unique email index.
	ErrDuplicateEmail = errors.New("repository: duplicate email")
)
