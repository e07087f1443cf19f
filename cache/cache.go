// Package cache holds the optional Redis layer. The shop works without it:
// when REDIS_ADDR is unset every call is a miss and reads fall through to
// the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/redis/go-redis/v9"
)

const StatsCacheTTL = 5 * time.Minute

var Client *redis.Client

// InitRedis connects using REDIS_ADDR / REDIS_PASSWORD. Returns false when
// Redis is not configured; callers treat that as "cache disabled".
func InitRedis() bool {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.L.Info("redis not configured, caching disabled")
		return false
	}

	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if _, err := Client.Ping(context.Background()).Result(); err != nil {
		logger.L.Error("redis connection failed, caching disabled", "addr", addr, "err", err)
		Client = nil
		return false
	}

	logger.L.Info("redis connected", "addr", addr)
	return true
}

// Close releases the Redis connection if one was opened.
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}

func statsKey(productID uint) string {
	return fmt.Sprintf("product:%d:review-stats", productID)
}

// GetJSON loads the key into dest. Reports false on a miss, a disabled
// cache, or a decode failure.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if Client == nil {
		return false
	}
	data, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores the value under the key with a TTL. Failures only log:
// the cache is best-effort.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if Client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := Client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.L.Warn("cache set failed", "key", key, "err", err)
	}
}

// GetProductStats loads a cached review aggregate for a product.
func GetProductStats(ctx context.Context, productID uint, dest interface{}) bool {
	return GetJSON(ctx, statsKey(productID), dest)
}

// SetProductStats caches a product's review aggregate.
func SetProductStats(ctx context.Context, productID uint, value interface{}) {
	SetJSON(ctx, statsKey(productID), value, StatsCacheTTL)
}

// InvalidateProductStats drops a product's cached aggregate after any review
// mutation.
func InvalidateProductStats(ctx context.Context, productID uint) {
	if Client == nil {
		return
	}
	if err := Client.Del(ctx, statsKey(productID)).Err(); err != nil {
		logger.L.Warn("cache invalidation failed", "product_id", productID, "err", err)
	}
}
