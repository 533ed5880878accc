package port

import (
	"context"
	"time"
)

// RateLimitStore defines the persistence operations required to enforce
// fixed-window limits. The first increment of a key opens a window of the
// given length; the counter resets when the window elapses.
type RateLimitStore interface {
	// Increment bumps the counter for key and returns the new count together
	// with the time remaining until the current window resets.
	Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}
