package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/greenplate/foodsafe-backend/internal/config"
	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// snapshotKey holds the serialized reference tables. The admin CLI deletes
// it after reseeding; there is no TTL because reference data only changes
// through explicit reseeds.
const snapshotKey = "foodsafe:refdata:v1"

// NewClient connects to Redis and pings it for fail-fast validation.
// Returns (nil, nil) when the cache is disabled in config.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// refDataLoader is the raw-row side of the reference repo.
type refDataLoader interface {
	Load(ctx context.Context) (*domain.RefData, error)
}

// SnapshotCache is a read-through cache in front of the reference tables.
// Cache failures degrade to a direct Postgres read: a broken Redis must
// never take evaluation down with it.
type SnapshotCache struct {
	rdb    *redis.Client
	source refDataLoader
	log    *slog.Logger
}

// New builds the cache. A nil client disables caching; every Snapshot call
// then reads from the source directly.
func New(rdb *redis.Client, source refDataLoader, log *slog.Logger) *SnapshotCache {
	return &SnapshotCache{
		rdb:    rdb,
		source: source,
		log:    log.With("service", "refdata-cache"),
	}
}

// Snapshot returns the assembled reference snapshot, served from Redis when
// a valid cached copy exists.
func (c *SnapshotCache) Snapshot(ctx context.Context) (*domain.RefSnapshot, error) {
	if data := c.cached(ctx); data != nil {
		return data.Snapshot(), nil
	}

	data, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, data)
	return data.Snapshot(), nil
}

// Invalidate drops the cached copy. The next Snapshot call repopulates it.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	return nil
}

func (c *SnapshotCache) cached(ctx context.Context) *domain.RefData {
	if c.rdb == nil {
		return nil
	}

	payload, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "reference cache read failed", slog.Any("error", err))
		}
		return nil
	}

	var data domain.RefData
	if err := json.Unmarshal(payload, &data); err != nil {
		c.log.WarnContext(ctx, "corrupt cached reference data, reloading", slog.Any("error", err))
		return nil
	}
	return &data
}

func (c *SnapshotCache) store(ctx context.Context, data *domain.RefData) {
	if c.rdb == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		c.log.WarnContext(ctx, "marshal reference data for cache", slog.Any("error", err))
		return
	}
	if err := c.rdb.Set(ctx, snapshotKey, payload, 0).Err(); err != nil {
		c.log.WarnContext(ctx, "reference cache write failed", slog.Any("error", err))
	}
}
