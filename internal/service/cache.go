package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// jsonCache is a read-through helper over redis. A nil client disables it.
type jsonCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func newJSONCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) jsonCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return jsonCache{client: client, ttl: ttl, logger: logger}
}

func (c jsonCache) get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to read cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

func (c jsonCache) set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to encode cache entry")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store cache entry")
	}
}
