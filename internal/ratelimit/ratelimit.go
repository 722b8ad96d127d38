// Package ratelimit implements the per-identity submission counter with a
// rolling lockout window: every allowed attempt re-anchors the window, so a
// client is locked out relative to its most recent allowed attempt, not its
// first.
package ratelimit

import (
	"context"
	"time"

	"github.com/fisacferrandez/contactform/internal/logging"
)

// Record tracks the attempts observed for one client identity.
type Record struct {
	Count       int
	WindowStart time.Time
}

// Store provides exclusive access to the full record set. Implementations
// must serialize the read-modify-write so concurrent submissions cannot
// lose increments.
type Store interface {
	Update(ctx context.Context, fn func(records map[string]Record) error) error
}

// Auditor receives security events worth keeping in the audit trail.
type Auditor interface {
	Record(identity, format string, args ...any)
}

// Limiter decides whether a client identity may submit again.
type Limiter struct {
	store       Store
	maxAttempts int
	lockout     time.Duration
	audit       Auditor
	now         func() time.Time
}

// NewLimiter constructs a Limiter allowing maxAttempts submissions per
// identity within a rolling lockout window.
func NewLimiter(store Store, maxAttempts int, lockout time.Duration, auditor Auditor) *Limiter {
	if store == nil {
		panic("ratelimit: store must not be nil")
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if lockout <= 0 {
		lockout = time.Hour
	}
	return &Limiter{
		store:       store,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		audit:       auditor,
		now:         time.Now,
	}
}

// Allow records an attempt for the identity and reports whether it may
// proceed. Expired records for any identity are pruned on each call. A
// store failure fails open: availability wins over strictness for a
// contact form, and the event is logged.
func (l *Limiter) Allow(ctx context.Context, identity string) bool {
	allowed := true
	blocked := false

	err := l.store.Update(ctx, func(records map[string]Record) error {
		now := l.now()

		for id, rec := range records {
			if now.Sub(rec.WindowStart) > l.lockout {
				delete(records, id)
			}
		}

		rec, ok := records[identity]
		switch {
		case !ok:
			records[identity] = Record{Count: 1, WindowStart: now}
		case rec.Count < l.maxAttempts:
			rec.Count++
			rec.WindowStart = now
			records[identity] = rec
		default:
			if now.Sub(rec.WindowStart) < l.lockout {
				allowed = false
				blocked = true
			} else {
				records[identity] = Record{Count: 1, WindowStart: now}
			}
		}
		return nil
	})
	if err != nil {
		logging.FromContext(ctx).Error("rate limit store unavailable, allowing submission", "error", err)
		if l.audit != nil {
			l.audit.Record(identity, "almacén de rate limit no disponible: %v", err)
		}
		return true
	}

	if blocked && l.audit != nil {
		l.audit.Record(identity, "IP bloqueada por exceso de intentos")
	}
	return allowed
}

// WithNowFunc allows tests to override the time source.
func (l *Limiter) WithNowFunc(now func() time.Time) {
	l.now = now
}
