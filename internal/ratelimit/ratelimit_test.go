package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingAuditor struct {
	lines []string
}

func (a *recordingAuditor) Record(identity, format string, args ...any) {
	a.lines = append(a.lines, identity)
}

func newTestLimiter(store Store) (*Limiter, *time.Time) {
	limiter := NewLimiter(store, 5, time.Hour, nil)
	now := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	limiter.WithNowFunc(func() time.Time { return now })
	return limiter, &now
}

func TestAllowBlocksAfterMaxAttempts(t *testing.T) {
	limiter, _ := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !limiter.Allow(ctx, "85.84.10.20") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if limiter.Allow(ctx, "85.84.10.20") {
		t.Fatal("sixth attempt should be blocked")
	}
}

func TestAllowResetsAfterLockoutWindow(t *testing.T) {
	store := NewMemoryStore()
	limiter, now := newTestLimiter(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limiter.Allow(ctx, "85.84.10.20")
	}
	if limiter.Allow(ctx, "85.84.10.20") {
		t.Fatal("expected lockout in force")
	}

	*now = now.Add(time.Hour + time.Second)

	if !limiter.Allow(ctx, "85.84.10.20") {
		t.Fatal("expected reset after lockout window elapsed")
	}

	// Counter restarted at 1: four more attempts fit before the next block.
	for i := 0; i < 4; i++ {
		if !limiter.Allow(ctx, "85.84.10.20") {
			t.Fatalf("attempt %d after reset should be allowed", i+2)
		}
	}
	if limiter.Allow(ctx, "85.84.10.20") {
		t.Fatal("expected block after five post-reset attempts")
	}
}

func TestAllowWindowRollsWithEachAllowedAttempt(t *testing.T) {
	limiter, now := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	// Spread five attempts 30 minutes apart. A fixed window anchored on
	// the first attempt would have expired; the rolling window has not.
	for i := 0; i < 5; i++ {
		if !limiter.Allow(ctx, "85.84.10.20") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		*now = now.Add(30 * time.Minute)
	}

	if limiter.Allow(ctx, "85.84.10.20") {
		t.Fatal("expected block: window is anchored to the last allowed attempt")
	}
}

func TestAllowPrunesExpiredRecords(t *testing.T) {
	store := NewMemoryStore()
	limiter, now := newTestLimiter(store)
	ctx := context.Background()

	limiter.Allow(ctx, "85.84.10.20")
	limiter.Allow(ctx, "203.0.114.7")

	*now = now.Add(2 * time.Hour)
	limiter.Allow(ctx, "198.51.101.9")

	if got := store.Len(); got != 1 {
		t.Fatalf("expected expired records pruned, %d remain", got)
	}
}

func TestAllowIsPerIdentity(t *testing.T) {
	limiter, _ := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		limiter.Allow(ctx, "85.84.10.20")
	}
	if limiter.Allow(ctx, "85.84.10.20") {
		t.Fatal("expected first identity blocked")
	}
	if !limiter.Allow(ctx, "203.0.114.7") {
		t.Fatal("expected second identity unaffected")
	}
}

func TestAllowAuditsBlockEvents(t *testing.T) {
	auditor := &recordingAuditor{}
	limiter := NewLimiter(NewMemoryStore(), 1, time.Hour, auditor)
	ctx := context.Background()

	limiter.Allow(ctx, "85.84.10.20")
	limiter.Allow(ctx, "85.84.10.20")

	if len(auditor.lines) != 1 {
		t.Fatalf("expected 1 audit line got %d", len(auditor.lines))
	}
}

type failingStore struct{}

func (failingStore) Update(context.Context, func(map[string]Record) error) error {
	return errors.New("store offline")
}

func TestAllowFailsOpenOnStoreError(t *testing.T) {
	limiter := NewLimiter(failingStore{}, 5, time.Hour, nil)
	if !limiter.Allow(context.Background(), "85.84.10.20") {
		t.Fatal("expected fail-open on store error")
	}
}
