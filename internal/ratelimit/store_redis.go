package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKey        = "contactform:rate_limit"
	redisMaxRetries = 5
)

// RedisStore keeps the record set in a single Redis key, updated with an
// optimistic WATCH/MULTI transaction so concurrent instances retry instead
// of overwriting each other.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Store backed by the provided Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("ratelimit: redis client must not be nil")
	}
	return &RedisStore{client: client}
}

type redisRecord struct {
	Count       int   `json:"contador"`
	WindowStart int64 `json:"tiempo"`
}

// Update applies fn to the record set, retrying when another writer
// invalidates the watched key.
func (s *RedisStore) Update(ctx context.Context, fn func(records map[string]Record) error) error {
	txn := func(tx *redis.Tx) error {
		records, err := loadRedisRecords(ctx, tx)
		if err != nil {
			return err
		}

		if err := fn(records); err != nil {
			return err
		}

		raw := make(map[string]redisRecord, len(records))
		for id, r := range records {
			raw[id] = redisRecord{Count: r.Count, WindowStart: r.WindowStart.Unix()}
		}
		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("encode rate limit records: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, payload, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisMaxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, redisKey)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("update rate limit records: %w", err)
	}
	return errors.New("update rate limit records: too many transaction conflicts")
}

func loadRedisRecords(ctx context.Context, tx *redis.Tx) (map[string]Record, error) {
	data, err := tx.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return make(map[string]Record), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rate limit records: %w", err)
	}

	raw := make(map[string]redisRecord)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode rate limit records: %w", err)
		}
	}

	records := make(map[string]Record, len(raw))
	for id, r := range raw {
		records[id] = Record{Count: r.Count, WindowStart: time.Unix(r.WindowStart, 0)}
	}
	return records, nil
}
