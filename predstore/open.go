/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package predstore

import (
	"context"
	"fmt"

	"github.com/gregjones/httpcache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mikeb26/swiss-topcut/internal"
	"github.com/mikeb26/swiss-topcut/s3cache"
)

// Open builds a Store over the backend selected by cfg.Store.
func Open(ctx context.Context, cfg *internal.Config,
	logger *zap.Logger) (*Store, error) {

	cache, err := OpenCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(cache, logger), nil
}

// OpenCache returns the raw byte cache selected by cfg.Store. Besides
// backing a Store it can back an http client, see
// internal.NewCachedHttpClient.
func OpenCache(ctx context.Context, cfg *internal.Config,
	logger *zap.Logger) (httpcache.Cache, error) {

	if logger == nil {
		logger = zap.NewNop()
	}

	var cache httpcache.Cache
	switch cfg.Store {
	case internal.StoreS3:
		s3c := s3cache.New(ctx, s3cache.Options{
			Bucket: cfg.S3Bucket,
			Prefix: cfg.S3Prefix,
			Gzip:   cfg.S3Gzip,
			Logger: logger,
		})
		if err := s3c.Init(); err != nil {
			return nil, fmt.Errorf("unable to open s3 store: %w", err)
		}
		cache = s3c
	case internal.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			MaxRetries: 3,
		})
		rc := NewRedisCache(ctx, client, cfg.RedisTTL, logger)
		if err := rc.Ping(); err != nil {
			client.Close()
			return nil, fmt.Errorf("unable to reach redis at %v: %w",
				cfg.RedisAddr, err)
		}
		cache = rc
	case internal.StoreMemory, "":
		cache = httpcache.NewMemoryCache()
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	logger.Debug("opened cache", zap.String("store", cfg.Store))

	return cache, nil
}
