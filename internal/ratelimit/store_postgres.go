package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"

	"github.com/fisacferrandez/contactform/internal/db"
)

// PostgresStore persists one row per tracked identity. Each update runs in
// a serializable transaction (retried on conflict) holding row locks over
// the full record set, which is small by construction: stale rows are
// pruned on every access.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore constructs a Store backed by PostgreSQL or CockroachDB.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Update applies fn to the record set inside a retrying transaction.
func (s *PostgresStore) Update(ctx context.Context, fn func(records map[string]Record) error) error {
	err := crdbpgx.ExecuteTx(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		records, err := loadRows(ctx, tx)
		if err != nil {
			return err
		}

		before := make(map[string]Record, len(records))
		for id, r := range records {
			before[id] = r
		}

		if err := fn(records); err != nil {
			return err
		}

		for id := range before {
			if _, ok := records[id]; !ok {
				if _, err := tx.Exec(ctx, `DELETE FROM rate_attempts WHERE identity = $1`, id); err != nil {
					return fmt.Errorf("delete rate attempt row: %w", err)
				}
			}
		}

		for id, rec := range records {
			if prev, ok := before[id]; ok && prev == rec {
				continue
			}
			if _, err := tx.Exec(ctx, `
                INSERT INTO rate_attempts (identity, attempt_count, window_start)
                VALUES ($1, $2, $3)
                ON CONFLICT (identity)
                DO UPDATE SET attempt_count = EXCLUDED.attempt_count, window_start = EXCLUDED.window_start
            `, id, rec.Count, rec.WindowStart.UTC()); err != nil {
				return fmt.Errorf("upsert rate attempt row: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update rate limit records: %w", err)
	}
	return nil
}

func loadRows(ctx context.Context, tx pgx.Tx) (map[string]Record, error) {
	rows, err := tx.Query(ctx, `SELECT identity, attempt_count, window_start FROM rate_attempts FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("select rate attempts: %w", err)
	}
	defer rows.Close()

	records := make(map[string]Record)
	for rows.Next() {
		var (
			id          string
			count       int
			windowStart time.Time
		)
		if err := rows.Scan(&id, &count, &windowStart); err != nil {
			return nil, fmt.Errorf("scan rate attempt row: %w", err)
		}
		records[id] = Record{Count: count, WindowStart: windowStart.UTC()}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate attempt rows: %w", err)
	}
	return records, nil
}
