// Package cache stores short-lived fund estimates in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// EstimateCache caches realtime fund estimates.
// Get returns (nil, nil) on a miss.
type EstimateCache interface {
	GetEstimate(ctx context.Context, fundCode string) (*model.FundEstimate, error)
	SetEstimate(ctx context.Context, estimate model.FundEstimate) error
	Close() error
}

// RedisEstimateCache is an EstimateCache backed by redis JSON values with a fixed TTL.
type RedisEstimateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEstimateCache parses url (redis://host:port/db) and returns a cache using it.
func NewRedisEstimateCache(url string, ttl time.Duration) (*RedisEstimateCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisEstimateCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// EstimateKey is the redis key of a fund's realtime estimate.
func EstimateKey(fundCode string) string {
	return fmt.Sprintf("fund:estimate:%s", fundCode)
}

// Ping checks connectivity.
func (c *RedisEstimateCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisEstimateCache) GetEstimate(ctx context.Context, fundCode string) (*model.FundEstimate, error) {
	data, err := c.client.Get(ctx, EstimateKey(fundCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var estimate model.FundEstimate
	if err := json.Unmarshal(data, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (c *RedisEstimateCache) SetEstimate(ctx context.Context, estimate model.FundEstimate) error {
	data, err := json.Marshal(estimate)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, EstimateKey(estimate.FundCode), data, c.ttl).Err()
}

func (c *RedisEstimateCache) Close() error {
	return c.client.Close()
}

// NopEstimateCache never stores anything. Used when redis is not configured.
type NopEstimateCache struct{}

func (NopEstimateCache) GetEstimate(context.Context, string) (*model.FundEstimate, error) {
	return nil, nil
}

func (NopEstimateCache) SetEstimate(context.Context, model.FundEstimate) error { return nil }

func (NopEstimateCache) Close() error { return nil }
