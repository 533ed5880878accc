package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/repository"
)

func TestRateLimitStoreFixedWindow(t *testing.T) {
	current := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := NewRateLimitStore().WithClock(func() time.Time { return current })
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, retryAfter, err := store.Increment(ctx, "login:abc", 15*time.Minute)
		if err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
		if retryAfter <= 0 || retryAfter > 15*time.Minute {
			t.Fatalf("unexpected retry-after %v", retryAfter)
		}
	}

	// Half way through the window the counter keeps climbing and the
	// remaining time shrinks.
	current = current.Add(10 * time.Minute)
	count, retryAfter, err := store.Increment(ctx, "login:abc", 15*time.Minute)
	if err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected count 4, got %d", count)
	}
	if retryAfter != 5*time.Minute {
		t.Fatalf("expected 5m retry-after, got %v", retryAfter)
	}

	// Once the window elapses the counter starts over.
	current = current.Add(6 * time.Minute)
	count, _, err = store.Increment(ctx, "login:abc", 15*time.Minute)
	if err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected fresh window count 1, got %d", count)
	}
}

func TestRateLimitStoreIndependentKeys(t *testing.T) {
	store := NewRateLimitStore()
	ctx := context.Background()

	if count, _, _ := store.Increment(ctx, "login:a", time.Minute); count != 1 {
		t.Fatalf("expected count 1 for first key, got %d", count)
	}
	if count, _, _ := store.Increment(ctx, "login:b", time.Minute); count != 1 {
		t.Fatalf("expected count 1 for second key, got %d", count)
	}
	if count, _, _ := store.Increment(ctx, "login:a", time.Minute); count != 2 {
		t.Fatalf("expected count 2 for first key, got %d", count)
	}
}

func TestSessionStoreLifecycle(t *testing.T) {
	current := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore().WithClock(func() time.Time { return current })
	ctx := context.Background()

	session := domain.Session{
		ID:        "sess-1",
		AccountID: 7,
		Email:     "maria@example.com",
		LoginAt:   current,
		ExpiresAt: current.Add(24 * time.Hour),
	}
	if err := store.Put(ctx, session, 24*time.Hour); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.AccountID != 7 {
		t.Fatalf("expected account 7, got %d", got.AccountID)
	}

	// After the TTL the session is gone without an explicit delete.
	current = current.Add(24*time.Hour + time.Second)
	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected expired session to vanish, got %v", err)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete must be idempotent: %v", err)
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of unknown id must succeed: %v", err)
	}
}

func TestRememberTokenStoreLifecycle(t *testing.T) {
	current := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := NewRememberTokenStore().WithClock(func() time.Time { return current })
	ctx := context.Background()

	token := domain.RememberToken{
		TokenHash: "deadbeef",
		AccountID: 7,
		CreatedAt: current,
		ExpiresAt: current.Add(720 * time.Hour),
	}
	if err := store.Put(ctx, token, 720*time.Hour); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.AccountID != 7 {
		t.Fatalf("expected account 7, got %d", got.AccountID)
	}

	if _, err := store.Get(ctx, "unknown"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown hash, got %v", err)
	}

	current = current.Add(720*time.Hour + time.Minute)
	if _, err := store.Get(ctx, "deadbeef"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected expired token to vanish, got %v", err)
	}

	if err := store.Delete(ctx, "deadbeef"); err != nil {
		t.Fatalf("Delete must be idempotent: %v", err)
	}
}
