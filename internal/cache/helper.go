package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fieldops/internal/observability"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// GetJSON fetches key and unmarshals its value into dest. Returns
// ErrCacheMiss when the key is absent or Redis is unavailable.
func GetJSON(ctx context.Context, key string, dest interface{}) error {
	if client == nil {
		return ErrCacheMiss
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observability.CacheMisses.WithLabelValues(keyPrefix(key)).Inc()
			return ErrCacheMiss
		}
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return err
	}
	observability.CacheHits.WithLabelValues(keyPrefix(key)).Inc()
	return nil
}

// SetJSON marshals value and stores it under key with the given TTL.
// A nil client is a no-op so callers never branch on cache availability.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// CacheAside returns the cached value for key, or loads it, stores it and
// returns it. Load errors are returned as-is; cache write failures are
// swallowed since the loaded value is still good.
func CacheAside(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() (interface{}, error)) error {
	if err := GetJSON(ctx, key, dest); err == nil {
		return nil
	} else if !errors.Is(err, ErrCacheMiss) {
		// Redis errors degrade to a direct load.
		observability.RedisErrorRate.WithLabelValues("get").Inc()
	}

	value, err := load()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, value, ttl)
	return nil
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
