package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService wraps the redis client with JSON get/set helpers and the key
// conventions used across the app. All methods degrade to cache misses on
// redis errors so a dead cache never breaks a request.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(addr, password string, db int) *CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &CacheService{client: client}
}

// Ping verifies connectivity at startup.
func (c *CacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching pattern. Used for coarse
// invalidation of per-store analytics keys.
func (c *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}

func (c *CacheService) Close() error {
	return c.client.Close()
}

// Key conventions.

func CatalogStoreKey(catalogID string) string {
	return fmt.Sprintf("catalog:store:%s", catalogID)
}

func AnalyticsKey(storeID uuid.UUID, section string) string {
	return fmt.Sprintf("analytics:%s:%s", storeID, section)
}

func AnalyticsPattern(storeID uuid.UUID) string {
	return fmt.Sprintf("analytics:%s:*", storeID)
}
