package port

import (
	"context"
	"time"

	"github.com/savoro/catering-auth/internal/core/domain"
)

// SessionStore keeps login sessions keyed by their opaque identifier.
type SessionStore interface {
	// Put stores the session under its ID for the given TTL, replacing any
	// previous entry with the same ID.
	Put(ctx context.Context, session domain.Session, ttl time.Duration) error
	// Get returns repository.ErrNotFound for unknown or expired identifiers.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is idempotent; removing an absent session is not an error.
	Delete(ctx context.Context, id string) error
}

// RememberTokenStore keeps remember-me credentials keyed by token hash.
type RememberTokenStore interface {
	Put(ctx context.Context, token domain.RememberToken, ttl time.Duration) error
	Get(ctx context.Context, tokenHash string) (*domain.RememberToken, error)
	Delete(ctx context.Context, tokenHash string) error
}
