// Package cache provides the read-through cache used for hot public reads.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Key prefixes. Mutations drop whole prefixes.
const (
	PrefixProperties = "properties:"
	PrefixAdminStats = "admin:stats"
)

type Cache interface {
	// Get reports found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Remember returns the cached value of key or stores the result of load.
// Cache failures are logged and never fail the read.
func Remember[T any](ctx context.Context, c Cache, log *zap.Logger, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if raw, found, err := c.Get(ctx, key); err != nil {
		log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// Invalidate drops every prefix, logging failures.
func Invalidate(ctx context.Context, c Cache, log *zap.Logger, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := c.DeletePrefix(ctx, prefix); err != nil {
			log.Warn("Cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

// Nop never stores anything. It is used when no cache is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) DeletePrefix(context.Context, string) error               { return nil }
