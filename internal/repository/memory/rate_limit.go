package memory

import (
	"context"
	"sync"
	"time"

	"github.com/savoro/catering-auth/internal/core/port"
)

type window struct {
	count    int
	openedAt time.Time
}

// RateLimitStore keeps fixed-window counters in a mutex-guarded map.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimitStore constructs an empty in-memory rate-limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RateLimitStore) WithClock(now func() time.Time) *RateLimitStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Increment bumps the counter for key within the current fixed window. A key
// whose window has elapsed starts over at one.
func (s *RateLimitStore) Increment(_ context.Context, key string, windowLen time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.openedAt.Add(windowLen)) {
		s.windows[key] = &window{count: 1, openedAt: now}
		return 1, windowLen, nil
	}

	w.count++
	return w.count, w.openedAt.Add(windowLen).Sub(now), nil
}

var _ port.RateLimitStore = (*RateLimitStore)(nil)
