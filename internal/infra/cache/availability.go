package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"courtbook/internal/pkg/config"
	"courtbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps computed day views in Redis for a short TTL.
// It only ever serves the read endpoint; booking decisions re-derive
// availability inside their transaction, so a stale entry can mislead a
// browser but never corrupt a booking. Committed mutations drop the
// affected days so readers converge without waiting out the TTL.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, cfg config.CacheConfig) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    cfg.AvailabilityTTL,
	}
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	return client, cleanup, nil
}

func availabilityKey(courtID uuid.UUID, date string, granularity time.Duration) string {
	return fmt.Sprintf("availability:%s:%s:%d", courtID, date, int(granularity.Minutes()))
}

// Get returns nil on a miss; cache errors degrade to a miss so Redis
// downtime never breaks the availability endpoint.
func (c *AvailabilityCache) Get(ctx context.Context, courtID uuid.UUID, date string, granularity time.Duration) (*queries.AvailabilityDay, error) {
	raw, err := c.client.Get(ctx, availabilityKey(courtID, date, granularity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		slog.Warn("availability cache get failed", "error", err)
		return nil, nil
	}

	var day queries.AvailabilityDay
	if err := json.Unmarshal(raw, &day); err != nil {
		slog.Warn("availability cache entry corrupt", "error", err)
		return nil, nil
	}
	return &day, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, courtID uuid.UUID, date string, granularity time.Duration, day *queries.AvailabilityDay) {
	raw, err := json.Marshal(day)
	if err != nil {
		slog.Warn("failed to marshal availability day", "error", err)
		return
	}
	if err := c.client.Set(ctx, availabilityKey(courtID, date, granularity), raw, c.ttl).Err(); err != nil {
		slog.Warn("availability cache set failed", "error", err)
	}
}

// Invalidate drops every granularity variant for the court and date.
func (c *AvailabilityCache) Invalidate(ctx context.Context, courtID uuid.UUID, date string) {
	pattern := fmt.Sprintf("availability:%s:%s:*", courtID, date)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("availability cache invalidate failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("availability cache scan failed", "error", err)
	}
}
