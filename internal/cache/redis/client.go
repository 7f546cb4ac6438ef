package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agroandes/backend/pkg/logger"
	"github.com/agroandes/backend/pkg/retry"
)

// Client caches deterministic engine responses. The reference dataset is
// immutable for the process lifetime, so a cached response never goes
// stale; only the configured TTL bounds memory use.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	cfg := retry.DefaultConfig()
	cfg.Logger = logger.Log

	err := retry.Do(ctx, cfg, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl),
	)

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) SetRecommendation(ctx context.Context, queryHash string, response interface{}) error {
	return c.set(ctx, fmt.Sprintf("recommend:%s", queryHash), response)
}

func (c *Client) GetRecommendation(ctx context.Context, queryHash string, response interface{}) (bool, error) {
	return c.get(ctx, fmt.Sprintf("recommend:%s", queryHash), response)
}

func (c *Client) SetCropDetail(ctx context.Context, cropID int64, response interface{}) error {
	return c.set(ctx, fmt.Sprintf("crop:%d", cropID), response)
}

func (c *Client) GetCropDetail(ctx context.Context, cropID int64, response interface{}) (bool, error) {
	return c.get(ctx, fmt.Sprintf("crop:%d", cropID), response)
}

func (c *Client) set(ctx context.Context, key string, response interface{}) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	err = c.client.Set(ctx, key, data, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}

	logger.Debug("Response cached", zap.String("key", key))
	return nil
}

func (c *Client) get(ctx context.Context, key string, response interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cache key: %w", err)
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	logger.Debug("Cache hit", zap.String("key", key))
	return true, nil
}
