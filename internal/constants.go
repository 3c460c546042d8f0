/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	DefaultTrials        = 1000
	DefaultProgressEvery = 100
	DefaultTopCut        = 8
	DefaultDrawRate      = 0.01

	DefaultStore    = StoreMemory
	DefaultS3Bucket = "swiss-topcut-prod-predictions"
	DefaultS3Prefix = "topcut"
	DefaultRedisTTL = 14 * 24 * time.Hour
	DefaultLogLevel = "info"

	DefaultFetchMaxAge = 5 * time.Minute
	UserAgent          = "swiss-topcut/1.0 (+https://github.com/mikeb26/swiss-topcut)"

	EnvPrefix = "TOPCUT_"
)

// prediction store backends
const (
	StoreMemory = "memory"
	StoreS3     = "s3"
	StoreRedis  = "redis"
)
