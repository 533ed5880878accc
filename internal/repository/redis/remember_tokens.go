package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/repository"
)

type rememberRecord struct {
	AccountID int64     `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RememberTokenRepository keeps remember-me credentials in Redis keyed by
// the SHA-256 hash of the raw token.
type RememberTokenRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRememberTokenRepository constructs a Redis-backed remember-token store.
func NewRememberTokenRepository(client *redis.Client, keyPrefix string) *RememberTokenRepository {
	return &RememberTokenRepository{client: client, keyPrefix: keyPrefix}
}

// Put stores the token under its hash for the provided TTL.
func (r *RememberTokenRepository) Put(ctx context.Context, token domain.RememberToken, ttl time.Duration) error {
	if token.TokenHash == "" {
		return errors.New("token hash is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	payload, err := json.Marshal(rememberRecord{
		AccountID: token.AccountID,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal remember token: %w", err)
	}

	if err := r.client.Set(ctx, r.key(token.TokenHash), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Get resolves a token by its hash.
func (r *RememberTokenRepository) Get(ctx context.Context, tokenHash string) (*domain.RememberToken, error) {
	raw, err := r.client.Get(ctx, r.key(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var record rememberRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal remember token: %w", err)
	}

	return &domain.RememberToken{
		TokenHash: tokenHash,
		AccountID: record.AccountID,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Delete removes the token. Deleting an absent token is not an error.
func (r *RememberTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, r.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RememberTokenRepository) key(hash string) string {
	if r.keyPrefix == "" {
		return hash
	}
	return fmt.Sprintf("%s:%s", r.keyPrefix, hash)
}

var _ port.RememberTokenStore = (*RememberTokenRepository)(nil)
