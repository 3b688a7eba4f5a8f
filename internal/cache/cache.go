// Package cache stores extraction results keyed by file content so repeated uploads of
// the same bytes skip re-extraction.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/BerylCAtieno/file-forensics-api/internal/config"
	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// ErrCacheMiss is returned by Get when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (*models.ExtractionResult, error)
	Set(ctx context.Context, key string, result *models.ExtractionResult) error
}

// Key identifies a result by extension and SHA-256; the extension is part of the key
// because dispatch depends on it.
func Key(ext string, hashes *models.HashSet) string {
	return fmt.Sprintf("forensics:v1:%s:%s", ext, hashes.SHA256)
}

type redisCache struct {
	inner *redis.Client
	ttl   time.Duration
}

// NewRedisCache connects to cfg.RedisAddr and verifies the connection.
func NewRedisCache(cfg *config.Config) (Cache, error) {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil, errors.New("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisCache{inner: client, ttl: cfg.CacheTTL}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (*models.ExtractionResult, error) {
	raw, err := c.inner.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var result models.ExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, nil
}

func (c *redisCache) Set(ctx context.Context, key string, result *models.ExtractionResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return c.inner.Set(ctx, key, raw, c.ttl).Err()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.ExtractionResult, error) { return nil, ErrCacheMiss }

func (Noop) Set(context.Context, string, *models.ExtractionResult) error { return nil }
