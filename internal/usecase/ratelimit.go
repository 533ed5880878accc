package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/infra/security"
)

const loginRateLimitScope = "login"

// AttemptLimiter enforces a fixed-window budget per identifier. Identifiers
// are hashed before they reach the store so raw emails never appear in
// Redis keys.
type AttemptLimiter struct {
	store  port.RateLimitStore
	scope  string
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewAttemptLimiter constructs a limiter for the given scope.
func NewAttemptLimiter(store port.RateLimitStore, scope string, max int, window time.Duration, log *zap.Logger) *AttemptLimiter {
	return &AttemptLimiter{
		store:  store,
		scope:  scope,
		max:    max,
		window: window,
		logger: log,
	}
}

// NewLoginAttemptLimiter constructs the per-email login throttle.
func NewLoginAttemptLimiter(store port.RateLimitStore, max int, window time.Duration, log *zap.Logger) *AttemptLimiter {
	return NewAttemptLimiter(store, loginRateLimitScope, max, window, log)
}

// Allow records an attempt for identifier and returns RateLimitExceededError
// once the window budget is spent. Every call counts, including the one that
// is denied. Store failures are logged and the attempt is allowed; an
// unavailable counter must not lock every user out.
func (l *AttemptLimiter) Allow(ctx context.Context, identifier string) error {
	if l == nil || l.store == nil || l.max <= 0 {
		return nil
	}

	key := l.scope + ":" + security.HashToken(identifier)

	count, retryAfter, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing attempt",
			zap.String("scope", l.scope),
			zap.Error(err),
		)
		return nil
	}

	if count > l.max {
		return &RateLimitExceededError{Scope: l.scope, RetryAfter: retryAfter}
	}

	return nil
}
