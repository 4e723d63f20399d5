package ports

import (
	"context"
	"time"
)

// Cache covers the Redis-backed concerns around the sale path. Item state is
// never cached here; every admission decision reads the repository directly.
type Cache interface {
	DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error

	IncrementDailySaleCounters(ctx context.Context, day string, lines, units int, cents int64) error
	GetDailySaleCounters(ctx context.Context, day string) (lines, units int, cents int64, err error)
}
