package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "storefront:cart:"
	maxJitter = 5 * time.Minute
)

// RedisCache holds cart snapshots with a sliding expiry: every read pushes the
// deadline out again, so only carts nobody looks at age out.
type RedisCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
	jitter  func() time.Duration
}

// NewRedisCache accepts any go-redis client, including cluster and failover ones.
func NewRedisCache(client redis.UniversalClient, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
		jitter:  func() time.Duration { return rand.N(maxJitter) },
	}
}

func (r *RedisCache) Get(ctx context.Context, sessionID string) (*domain.SavedCart, error) {
	raw, err := r.client.GetEx(ctx, cacheKey(sessionID), r.ttl()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	cart := new(domain.SavedCart)
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}

func (r *RedisCache) Set(ctx context.Context, cart *domain.SavedCart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(cart.SessionID), raw, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete is a no-op for sessions that have nothing cached.
func (r *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Unlink(ctx, cacheKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis unlink failed: %w", err)
	}
	return nil
}

// ttl spreads expiries so carts written together do not all lapse at once.
func (r *RedisCache) ttl() time.Duration {
	return r.baseTTL + r.jitter()
}

func cacheKey(sessionID string) string {
	return keyPrefix + sessionID
}
