package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeRateLimitStore struct {
	counts map[string]int
	err    error
}

func (s *fakeRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[key]++
	return s.counts[key], window, nil
}

func newLimitedRouter(store *fakeRateLimitStore, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(store, nil)
	r := gin.New()
	r.POST("/login", limiter.RateLimit(RateLimitRule{
		Name:       "login_ip",
		Limit:      limit,
		Window:     time.Minute,
		Identifier: ClientIPIdentifier(),
	}), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRateLimitAllowsWithinBudget(t *testing.T) {
	store := &fakeRateLimitStore{}
	r := newLimitedRouter(store, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "3" {
			t.Fatalf("expected limit header 3, got %q", got)
		}
	}
}

func TestRateLimitDeniesOverBudget(t *testing.T) {
	store := &fakeRateLimitStore{}
	r := newLimitedRouter(store, 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("warmup request %d failed with %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitScopesByClientIP(t *testing.T) {
	store := &fakeRateLimitStore{}
	r := newLimitedRouter(store, 1)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	r.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first ip allowed, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	r.ServeHTTP(second, req)
	if second.Code != http.StatusOK {
		t.Fatalf("expected different ip allowed, got %d", second.Code)
	}
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	store := &fakeRateLimitStore{err: errors.New("store down")}
	r := newLimitedRouter(store, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("store failure must not block requests, got %d", w.Code)
	}
}
