package database

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// RedisClient returns the shared redis client, creating it on first use so
// tests can point REDIS_ADDR at a miniredis instance before touching it.
func RedisClient() *redis.Client {
	redisOnce.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
			logrus.Warn("REDIS_ADDR not set, using localhost:6379")
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
	})
	return redisClient
}

// CacheGet loads a cached JSON value into dest. A miss, an unreachable redis
// and a decode failure all report false; the caller falls through to mongo.
func CacheGet(ctx context.Context, key string, dest interface{}) bool {
	payload, err := RedisClient().Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Debug("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		logrus.WithError(err).Warnf("corrupt cache entry %s", key)
		return false
	}
	return true
}

func CacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).Warnf("cache marshal failed for %s", key)
		return
	}
	if err := RedisClient().Set(ctx, key, payload, ttl).Err(); err != nil {
		logrus.WithError(err).Debug("cache set failed")
	}
}

func CacheDel(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := RedisClient().Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Debug("cache del failed")
	}
}
