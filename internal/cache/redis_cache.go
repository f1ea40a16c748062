package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

const redisKeyPrefix = "entitlement:orders:"

// Connect initializes a Redis client from a redis:// URL or host:port.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisOrderCache shares order snapshots between service replicas.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOrderCache(client *redis.Client, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{client: client, ttl: ttl}
}

func (c *RedisOrderCache) Get(ctx context.Context, userID string) ([]models.Order, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		// unreadable entry: drop it and report a miss
		_ = c.client.Del(ctx, redisKeyPrefix+userID).Err()
		return nil, false, nil
	}
	return orders, true, nil
}

func (c *RedisOrderCache) Set(ctx context.Context, userID string, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+userID, raw, c.ttl).Err()
}

func (c *RedisOrderCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, redisKeyPrefix+userID).Err()
}
