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

type sessionRecord struct {
	AccountID   int64     `json:"account_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	LoginAt     time.Time `json:"login_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionRepository keeps login sessions in Redis keyed by session ID.
// Expiry is enforced by the key TTL, so lookups after the deadline simply
// miss.
type SessionRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewSessionRepository constructs a Redis-backed session store.
func NewSessionRepository(client *redis.Client, keyPrefix string) *SessionRepository {
	return &SessionRepository{client: client, keyPrefix: keyPrefix}
}

// Put stores the session under its identifier for the provided TTL.
func (r *SessionRepository) Put(ctx context.Context, session domain.Session, ttl time.Duration) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	payload, err := json.Marshal(sessionRecord{
		AccountID:   session.AccountID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		LoginAt:     session.LoginAt,
		ExpiresAt:   session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.key(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Get resolves a session by its identifier.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &domain.Session{
		ID:          id,
		AccountID:   record.AccountID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		LoginAt:     record.LoginAt,
		ExpiresAt:   record.ExpiresAt,
	}, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *SessionRepository) key(id string) string {
	if r.keyPrefix == "" {
		return id
	}
	return fmt.Sprintf("%s:%s", r.keyPrefix, id)
}

var _ port.SessionStore = (*SessionRepository)(nil)
