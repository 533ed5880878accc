package memory

import (
	"context"
	"sync"
	"time"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/repository"
)

type rememberEntry struct {
	token     domain.RememberToken
	expiresAt time.Time
}

// RememberTokenStore keeps remember-me credentials in a mutex-guarded map.
type RememberTokenStore struct {
	mu     sync.Mutex
	tokens map[string]rememberEntry
	now    func() time.Time
}

// NewRememberTokenStore constructs an empty in-memory remember-token store.
func NewRememberTokenStore() *RememberTokenStore {
	return &RememberTokenStore{
		tokens: make(map[string]rememberEntry),
		now:    time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RememberTokenStore) WithClock(now func() time.Time) *RememberTokenStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Put stores the token under its hash for the provided TTL.
func (s *RememberTokenStore) Put(_ context.Context, token domain.RememberToken, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.TokenHash] = rememberEntry{
		token:     token,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Get resolves a token by its hash, treating expired entries as absent.
func (s *RememberTokenStore) Get(_ context.Context, tokenHash string) (*domain.RememberToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.tokens, tokenHash)
		return nil, repository.ErrNotFound
	}

	token := entry.token
	return &token, nil
}

// Delete removes the token. Deleting an absent token is not an error.
func (s *RememberTokenStore) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, tokenHash)
	return nil
}

var _ port.RememberTokenStore = (*RememberTokenStore)(nil)
