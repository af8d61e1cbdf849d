package repository

import (
	"context"
	"time"

	"quickmind/internal/domain/entity"
)

// ResultCacheRepository stores finished results keyed by a content hash.
type ResultCacheRepository interface {
	// Get returns the entry for key, or nil when it is missing or expired at now.
	Get(ctx context.Context, key string, now time.Time) (*entity.CachedResult, error)
	// Put inserts or replaces the entry with the same key.
	Put(ctx context.Context, result *entity.CachedResult) error
	// PurgeExpired deletes entries expired at now and returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
