/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package predstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "topcut:"

// RedisCache is an httpcache.Cache backed by Redis. Entries expire after
// ttl; a ttl of 0 keeps them forever.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	ctx    context.Context
}

func NewRedisCache(ctx context.Context, client *redis.Client,
	ttl time.Duration, logger *zap.Logger) *RedisCache {

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
		ctx:    ctx,
	}
}

// Ping verifies the server is reachable.
func (c *RedisCache) Ping() error {
	return c.client.Ping(c.ctx).Err()
}

func (c *RedisCache) Get(key string) ([]byte, bool) {
	data, err := c.client.Get(c.ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("key", key),
				zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(key string, data []byte) {
	if err := c.client.Set(c.ctx, redisKeyPrefix+key, data,
		c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", key),
			zap.Error(err))
	}
}

func (c *RedisCache) Delete(key string) {
	if err := c.client.Del(c.ctx, redisKeyPrefix+key).Err(); err != nil {
		c.logger.Warn("redis delete failed", zap.String("key", key),
			zap.Error(err))
	}
}
