package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savoro/catering-auth/internal/core/port"
)

// RateLimitRepository persists fixed-window counters in Redis. Each key maps
// to an INCR counter whose TTL marks the end of the current window.
type RateLimitRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRateLimitRepository constructs a repository using the provided Redis client.
func NewRateLimitRepository(client *redis.Client, keyPrefix string) *RateLimitRepository {
	return &RateLimitRepository{client: client, keyPrefix: keyPrefix}
}

// Increment bumps the counter for key. The first increment opens the window
// by setting the key TTL; subsequent increments report the remaining TTL so
// callers can surface a retry-after hint.
func (r *RateLimitRepository) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}

	storageKey := r.key(key)

	count, err := r.client.Incr(ctx, storageKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis incr: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, storageKey, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("redis expire: %w", err)
		}
		return 1, window, nil
	}

	ttl, err := r.client.TTL(ctx, storageKey).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis ttl: %w", err)
	}
	if ttl <= 0 {
		// Counter survived without a TTL (e.g. a crash between INCR and
		// EXPIRE). Re-arm the window rather than locking the key out forever.
		if err := r.client.Expire(ctx, storageKey, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("redis expire: %w", err)
		}
		ttl = window
	}

	return int(count), ttl, nil
}

func (r *RateLimitRepository) key(identifier string) string {
	if r.keyPrefix == "" {
		return identifier
	}
	return fmt.Sprintf("%s:%s", r.keyPrefix, identifier)
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)
