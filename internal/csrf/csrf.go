// Package csrf implements single-use, session-bound form tokens.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrNoToken indicates the session holds no live token.
var ErrNoToken = errors.New("no token for session")

// SessionStore persists at most one live token per session.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// Guard issues and verifies one-shot tokens bound to a session.
type Guard struct {
	store SessionStore
}

// NewGuard constructs a Guard backed by the provided session store.
func NewGuard(store SessionStore) *Guard {
	if store == nil {
		panic("csrf: session store must not be nil")
	}
	return &Guard{store: store}
}

// Issue returns the session's live token, minting one only if none exists.
// Repeated calls before verification hand back the same token.
func (g *Guard) Issue(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session id must be provided")
	}

	existing, err := g.store.Get(ctx, sessionID)
	if err == nil && existing != "" {
		return existing, nil
	}
	if err != nil && !errors.Is(err, ErrNoToken) {
		return "", fmt.Errorf("load session token: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := g.store.Set(ctx, sessionID, token); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}
	return token, nil
}

// Verify compares the supplied token against the session's live token in
// constant time. A match consumes the token immediately: even if the
// submission is rejected by a later check, a resubmission needs a fresh
// token.
func (g *Guard) Verify(ctx context.Context, sessionID, supplied string) bool {
	if sessionID == "" || supplied == "" {
		return false
	}

	stored, err := g.store.Get(ctx, sessionID)
	if err != nil || stored == "" {
		return false
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return false
	}

	_ = g.store.Delete(ctx, sessionID)
	return true
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
