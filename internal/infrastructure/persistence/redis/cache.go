package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
	"github.com/pharmadesk/pharmacy-service/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Cache backs the sale path's coordination concerns: per-actor submission
// locks and daily sale counters. It never caches item records; admission
// decisions always read the database.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewCache(conn *Connection, log *logger.Logger) *Cache {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	return &Cache{
		client: client,
		logger: log,
	}
}

func (c *Cache) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	monitoring.RecordLockAttempt(key)
	result, err := c.client.SetNX(ctx, lockKey, "1", expiration).Result()
	if err == nil {
		if result {
			monitoring.RecordLockSuccess(key)
		} else {
			monitoring.RecordLockFailure(key, "already_locked")
		}
	} else {
		monitoring.RecordLockFailure(key, "redis_error")
	}
	return result, err
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("lock:%s", key)
	return c.client.Del(ctx, lockKey).Err()
}

const dailyCounterTTL = 48 * time.Hour

// IncrementDailySaleCounters bumps the per-day totals shown on the back
// office dashboard. Counters are advisory; the sales table stays the source
// of truth.
func (c *Cache) IncrementDailySaleCounters(ctx context.Context, day string, lines, units int, cents int64) error {
	pipe := c.client.Pipeline()

	linesKey := fmt.Sprintf("sales:%s:lines", day)
	unitsKey := fmt.Sprintf("sales:%s:units", day)
	centsKey := fmt.Sprintf("sales:%s:cents", day)

	pipe.IncrBy(ctx, linesKey, int64(lines))
	pipe.IncrBy(ctx, unitsKey, int64(units))
	pipe.IncrBy(ctx, centsKey, cents)
	pipe.Expire(ctx, linesKey, dailyCounterTTL)
	pipe.Expire(ctx, unitsKey, dailyCounterTTL)
	pipe.Expire(ctx, centsKey, dailyCounterTTL)

	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) GetDailySaleCounters(ctx context.Context, day string) (lines, units int, cents int64, err error) {
	pipe := c.client.Pipeline()

	linesCmd := pipe.Get(ctx, fmt.Sprintf("sales:%s:lines", day))
	unitsCmd := pipe.Get(ctx, fmt.Sprintf("sales:%s:units", day))
	centsCmd := pipe.Get(ctx, fmt.Sprintf("sales:%s:cents", day))

	if _, err = pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, 0, err
	}

	lines64, _ := linesCmd.Int64()
	units64, _ := unitsCmd.Int64()
	cents, _ = centsCmd.Int64()

	return int(lines64), int(units64), cents, nil
}
