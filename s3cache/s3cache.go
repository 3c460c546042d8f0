/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache provides an implementation of httpcache.Cache that stores
 * and retrieves data using Amazon S3. Objects are stored under a readable key
 * beneath a configurable prefix so that persisted predictions and snapshots
 * can be inspected with ordinary S3 tooling.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Options configure a Cache.
type Options struct {
	Bucket string
	// Prefix is prepended to every object key, e.g. "topcut".
	Prefix string
	// Gzip compresses entries in Set and decompresses them in Get. Object
	// keys get a ".gz" suffix.
	Gzip   bool
	Logger *zap.Logger
}

// Cache objects store and retrieve data using Amazon S3.
type Cache struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client the cache uses when interacting with S3.
	// By default this is initialized in Init() with the default Config, but
	// callers can optionally override this with their own s3 client.
	Client *s3.Client

	opts   Options
	logger *zap.Logger

	// The context to specify when initiating s3 requests
	ctx context.Context
}

// New returns a Cache backed by opts.Bucket. Callers should invoke Init() on
// the returned Cache before use.
func New(ctx context.Context, opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		ctx:    ctx,
		opts:   opts,
		logger: logger.With(zap.String("bucket", opts.Bucket)),
	}
}

// Init loads the default AWS configuration and verifies the bucket is
// reachable. The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
func (c *Cache) Init() error {
	var err error
	c.Config, err = config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return fmt.Errorf("s3cache.init: failed to load AWS config: %w", err)
	}
	c.Client = s3.NewFromConfig(c.Config)

	if _, err = c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.opts.Bucket),
	}); err != nil {
		return fmt.Errorf("s3cache.init: head bucket failed for %s: %w",
			c.opts.Bucket, err)
	}
	if _, err = c.Client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.opts.Bucket),
		Prefix:  aws.String(c.opts.Prefix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3cache.init: list objects failed for %s: %w",
			c.opts.Bucket, err)
	}

	return nil
}

// Get returns the data stored under key. A missing object is a plain miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	objKey := c.objectKey(key)
	resp, err := c.Client.GetObject(c.ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
			c.logger.Warn("s3cache.get: get object failed",
				zap.String("key", objKey), zap.Error(err))
		}
		return nil, false
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if c.opts.Gzip {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.Warn("s3cache.get: open compressed object failed",
				zap.String("key", objKey), zap.Error(err))
			return nil, false
		}
		defer gz.Close()
		rdr = gz
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		c.logger.Warn("s3cache.get: read object failed",
			zap.String("key", objKey), zap.Error(err))
		return nil, false
	}

	return data, true
}

// Set stores data under key. Failures are logged; httpcache.Cache has no
// way to report them.
func (c *Cache) Set(key string, data []byte) {
	objKey := c.objectKey(key)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.opts.Bucket),
		Key:         aws.String(objKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	}
	if c.opts.Gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			c.logger.Warn("s3cache.set: gzip failed", zap.String("key", objKey),
				zap.Error(err))
			return
		}
		if err := gw.Close(); err != nil {
			c.logger.Warn("s3cache.set: gzip close failed",
				zap.String("key", objKey), zap.Error(err))
			return
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.Client.PutObject(c.ctx, input); err != nil {
		c.logger.Warn("s3cache.set: put failed", zap.String("key", objKey),
			zap.Error(err))
	}
}

func (c *Cache) Delete(key string) {
	objKey := c.objectKey(key)
	_, err := c.Client.DeleteObject(c.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		c.logger.Warn("s3cache.delete: delete failed",
			zap.String("key", objKey), zap.Error(err))
	}
}

// objectKey maps a cache key such as "predictions/123" to
// "<prefix>/predictions%2F123[.gz]".
func (c *Cache) objectKey(key string) string {
	objKey := path.Join(c.opts.Prefix, url.PathEscape(key))
	if c.opts.Gzip {
		objKey += ".gz"
	}
	return objKey
}
