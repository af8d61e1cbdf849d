// Package sqlite implements repositories on SQLite through modernc.org/sqlite.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"quickmind/internal/domain/entity"
	"quickmind/internal/repository"
	"quickmind/internal/resilience/circuitbreaker"
)

// ResultCacheRepo persists cached results. Timestamps are stored as Unix
// milliseconds so comparisons stay in SQL.
type ResultCacheRepo struct {
	db *circuitbreaker.DBCircuitBreaker
}

func NewResultCacheRepo(db *circuitbreaker.DBCircuitBreaker) repository.ResultCacheRepository {
	return &ResultCacheRepo{db: db}
}

func (repo *ResultCacheRepo) Get(ctx context.Context, key string, now time.Time) (*entity.CachedResult, error) {
	const query = `
SELECT cache_key, mode, output, levels, calls, created_at, expires_at
FROM result_cache
WHERE cache_key = ? AND expires_at > ?
LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query, key, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("Get: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("Get: rows.Err: %w", err)
		}
		return nil, nil
	}

	var (
		cached             entity.CachedResult
		created, expiresAt int64
	)
	if err := rows.Scan(&cached.Key, &cached.Mode, &cached.Output, &cached.Levels, &cached.Calls, &created, &expiresAt); err != nil {
		return nil, fmt.Errorf("Get: Scan: %w", err)
	}
	cached.CreatedAt = time.UnixMilli(created).UTC()
	cached.ExpiresAt = time.UnixMilli(expiresAt).UTC()
	return &cached, nil
}

func (repo *ResultCacheRepo) Put(ctx context.Context, result *entity.CachedResult) error {
	const query = `
INSERT INTO result_cache (cache_key, mode, output, levels, calls, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
    mode = excluded.mode,
    output = excluded.output,
    levels = excluded.levels,
    calls = excluded.calls,
    created_at = excluded.created_at,
    expires_at = excluded.expires_at`
	_, err := repo.db.ExecContext(ctx, query,
		result.Key, result.Mode, result.Output, result.Levels, result.Calls,
		result.CreatedAt.UnixMilli(), result.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("Put: ExecContext: %w", err)
	}
	return nil
}

func (repo *ResultCacheRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM result_cache WHERE expires_at <= ?`
	res, err := repo.db.ExecContext(ctx, query, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("PurgeExpired: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("PurgeExpired: RowsAffected: %w", err)
	}
	return n, nil
}
