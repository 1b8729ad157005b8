package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DictTTL bounds how long a cached dictionary entry lives; CC-CEDICT
// changes rarely but the cache should not be immortal.
const DictTTL = 30 * 24 * time.Hour

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings. Callers treat a nil cache as
// "no cache" (fail-open), matching how the server starts without Redis.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Printf("[cache] connected to Redis at %s", redisURL)
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, DictTTL).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// DictKey is the cache key for one simplified surface form.
func DictKey(word string) string {
	return "dict:" + word
}
