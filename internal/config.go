/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the CLI commands. Values come from the
// environment (optionally seeded from a .env file); command line flags
// override them.
type Config struct {
	Trials   int
	Workers  int
	Seed     int64
	TopCut   int
	DrawRate float64

	Store         string
	S3Bucket      string
	S3Prefix      string
	S3Gzip        bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	// FetchMaxAge is how long fetched standings pages and payloads are
	// served from the store before being fetched again.
	FetchMaxAge time.Duration

	LogLevel string
}

// LoadConfig reads envFiles (".env" when none are given) into the process
// environment and builds a Config from it. Missing env files are not an
// error; variables already set in the environment win over the files.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load env file: %w", err)
	}

	cfg := &Config{
		Trials:        getEnvInt("TRIALS", DefaultTrials),
		Workers:       getEnvInt("WORKERS", runtime.NumCPU()),
		Seed:          getEnvInt64("SEED", 0),
		TopCut:        getEnvInt("CUT", DefaultTopCut),
		DrawRate:      getEnvFloat("DRAW_RATE", DefaultDrawRate),
		Store:         strings.ToLower(getEnv("STORE", DefaultStore)),
		S3Bucket:      getEnv("S3_BUCKET", DefaultS3Bucket),
		S3Prefix:      getEnv("S3_PREFIX", DefaultS3Prefix),
		S3Gzip:        getEnvBool("S3_GZIP", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisTTL:      getEnvDuration("REDIS_TTL", DefaultRedisTTL),
		FetchMaxAge:   getEnvDuration("FETCH_MAX_AGE", DefaultFetchMaxAge),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Trials < 1 {
		return fmt.Errorf("%vTRIALS must be positive, got %v", EnvPrefix,
			cfg.Trials)
	}
	if cfg.TopCut < 1 {
		return fmt.Errorf("%vCUT must be positive, got %v", EnvPrefix,
			cfg.TopCut)
	}
	if cfg.DrawRate < 0 || cfg.DrawRate > 1 {
		return fmt.Errorf("%vDRAW_RATE must be within [0,1], got %v",
			EnvPrefix, cfg.DrawRate)
	}
	switch cfg.Store {
	case StoreMemory, StoreS3, StoreRedis:
	default:
		return fmt.Errorf("%vSTORE must be one of %v, %v or %v; got %q",
			EnvPrefix, StoreMemory, StoreS3, StoreRedis, cfg.Store)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
