// Package memory provides process-local implementations of the session,
// remember-token, and rate-limit stores. They back single-instance
// deployments and tests where Redis is not available; counters and sessions
// do not survive a restart and are not shared between replicas.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/repository"
)

type sessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStore keeps sessions in a mutex-guarded map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

// NewSessionStore constructs an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Put stores the session under its identifier for the provided TTL.
func (s *SessionStore) Put(_ context.Context, session domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = sessionEntry{
		session:   session,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Get resolves a session, treating expired entries as absent.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, repository.ErrNotFound
	}

	session := entry.session
	return &session, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

var _ port.SessionStore = (*SessionStore)(nil)
