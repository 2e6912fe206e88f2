// Package cache puts a Redis read-through cache in front of the trigger
// mapping table. The table changes only when course content changes, so a
// short TTL keeps provider lookups off the database during a job run.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/config"
	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	triggerKeyPrefix = "email_trigger:"

	defaultTriggerTTL = 10 * time.Minute
)

// MappingSource is the authoritative trigger mapping lookup.
type MappingSource interface {
	Get(ctx context.Context, progressDay int) (domain.TriggerMapping, error)
}

// TriggerMappings caches MappingSource results in Redis. Redis failures are
// logged and the lookup falls through to the source.
type TriggerMappings struct {
	client *redis.Client
	source MappingSource
	ttl    time.Duration
	log    *zap.Logger
}

// Connect opens a Redis client for cfg and verifies it with a PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// NewTriggerMappings wraps source with a Redis cache. A zero ttl uses the
// package default.
func NewTriggerMappings(client *redis.Client, source MappingSource, ttl time.Duration, log *zap.Logger) *TriggerMappings {
	if ttl <= 0 {
		ttl = defaultTriggerTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TriggerMappings{client: client, source: source, ttl: ttl, log: log}
}

func triggerKey(progressDay int) string {
	return fmt.Sprintf("%s%d", triggerKeyPrefix, progressDay)
}

// Get returns the cached mapping for progressDay, loading and caching it
// from the source on a miss. Source misses are not cached.
func (c *TriggerMappings) Get(ctx context.Context, progressDay int) (domain.TriggerMapping, error) {
	key := triggerKey(progressDay)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var m domain.TriggerMapping
		jerr := json.Unmarshal(data, &m)
		if jerr == nil {
			return m, nil
		}
		c.log.Warn("discarding undecodable cached trigger mapping",
			zap.Int("day", progressDay), zap.Error(jerr))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("trigger mapping cache read failed",
			zap.Int("day", progressDay), zap.Error(err))
	}

	m, err := c.source.Get(ctx, progressDay)
	if err != nil {
		return domain.TriggerMapping{}, err
	}

	data, err = json.Marshal(m)
	if err != nil {
		return m, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("trigger mapping cache write failed",
			zap.Int("day", progressDay), zap.Error(err))
	}
	return m, nil
}

// Invalidate drops the cached mapping for progressDay.
func (c *TriggerMappings) Invalidate(ctx context.Context, progressDay int) error {
	if err := c.client.Del(ctx, triggerKey(progressDay)).Err(); err != nil {
		return fmt.Errorf("invalidate trigger mapping %d: %w", progressDay, err)
	}
	return nil
}
