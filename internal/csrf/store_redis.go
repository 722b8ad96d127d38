package csrf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an unconsumed token survives. Abandoned forms
// should not accumulate keys forever.
const sessionTTL = 2 * time.Hour

// RedisSessionStore implements SessionStore on Redis, for deployments
// running more than one instance behind a load balancer.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore constructs a session store backed by the provided client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	if client == nil {
		panic("csrf: redis client must not be nil")
	}
	return &RedisSessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return "contactform:csrf:" + sessionID
}

// Get returns the live token for the session.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	return token, nil
}

// Set stores the session's token, replacing any previous one.
func (s *RedisSessionStore) Set(ctx context.Context, sessionID, token string) error {
	if err := s.client.Set(ctx, sessionKey(sessionID), token, sessionTTL).Err(); err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	return nil
}

// Delete removes the session's token.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}
