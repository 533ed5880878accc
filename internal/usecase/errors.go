package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are
	// incorrect. Unknown emails and wrong passwords collapse into this one
	// error so callers cannot probe which addresses are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountSuspended indicates the account is suspended or disabled.
	ErrAccountSuspended = errors.New("account suspended")
	// ErrEmailTaken indicates the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnauthenticated indicates no valid session or remember token was
	// presented.
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError aggregates every input rule the submission violated.
type ValidationError struct {
	Violations []string
}

// Error joins all violation messages.
func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// RateLimitExceededError indicates an identifier exhausted its attempt budget
// within the current window.
type RateLimitExceededError struct {
	Scope      string
	RetryAfter time.Duration
}

// Error implements error for RateLimitExceededError.
func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Scope, e.RetryAfter)
}
