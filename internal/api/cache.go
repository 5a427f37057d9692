package api

import (
	"context" // Context for Redis operations
	"errors"  // Error matching
	"time"    // Cache lifetime

	"kindred/internal/utils" // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

const (
	usersCacheKey        = "admin:users"        // Cached user listing
	participantsCacheKey = "admin:participants" // Cached participant listing
)

// ListCache caches admin listings in Redis; a zero TTL disables caching.
// Entries are stored per generation and every mutation bumps the generation, so a
// listing read before a mutation can never be served after it.
type ListCache struct {
	rdb *redis.Client // Redis client
	ttl time.Duration // Entry lifetime
}

// NewListCache returns a listing cache
func NewListCache(rdb *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

// enabled reports whether listings are cached at all
func (lc *ListCache) enabled() bool {
	return lc != nil && lc.ttl > 0
}

// generation returns the current generation of a listing; "" means the counter is unreadable
func (lc *ListCache) generation(ctx context.Context, key string) string {
	gen, err := lc.rdb.Get(ctx, key+":gen").Result()
	if errors.Is(err, redis.Nil) {
		return "0" // Never invalidated
	}
	if err != nil {
		return ""
	}
	return gen
}

// get loads the cached listing into dest. It returns the generation to pass to set
// and whether the entry was found.
func (lc *ListCache) get(ctx context.Context, key string, dest any) (string, bool) {
	if !lc.enabled() {
		return "", false
	}
	gen := lc.generation(ctx, key)
	if gen == "" {
		return "", false
	}
	found, err := utils.GetCache(ctx, lc.rdb, key+":"+gen, dest)
	return gen, err == nil && found // A broken cache entry is treated as a miss
}

// set stores a listing under the generation returned by get; failures only cost a cache miss later
func (lc *ListCache) set(ctx context.Context, key, gen string, value any) {
	if !lc.enabled() || gen == "" {
		return
	}
	_ = utils.SetCache(ctx, lc.rdb, key+":"+gen, value, lc.ttl)
}

// invalidate bumps the generation of each listing after a mutation
func (lc *ListCache) invalidate(ctx context.Context, keys ...string) {
	if lc == nil {
		return
	}
	for _, key := range keys {
		if err := lc.rdb.Incr(ctx, key+":gen").Err(); err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   key,         // Cache key
				"error": err.Error(), // Error message
			}).Warn("Failed to invalidate listing cache")
		}
	}
}
