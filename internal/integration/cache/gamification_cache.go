// Package cache provides Redis-backed caches for derived read models.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// DefaultGamificationTTL bounds how stale a cached gamification state can
// get. The pay path invalidates explicitly; the TTL covers everything else
// (clock rollover turning pending payments overdue, external writes).
const DefaultGamificationTTL = 5 * time.Minute

// gamificationCache implements adapter.GamificationCache on Redis.
type gamificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGamificationCache creates a Redis-backed gamification cache.
func NewGamificationCache(client *redis.Client, ttl time.Duration) adapter.GamificationCache {
	if ttl <= 0 {
		ttl = DefaultGamificationTTL
	}
	return &gamificationCache{
		client: client,
		ttl:    ttl,
	}
}

func gamificationKey(userID uuid.UUID) string {
	return "gamification:state:" + userID.String()
}

// Get returns the cached state for the user, or nil on a miss.
func (c *gamificationCache) Get(ctx context.Context, userID uuid.UUID) (*entity.GamificationState, error) {
	payload, err := c.client.Get(ctx, gamificationKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read gamification cache: %w", err)
	}

	var state entity.GamificationState
	if err := json.Unmarshal(payload, &state); err != nil {
		// A corrupt entry is treated as a miss; the caller recomputes
		// and overwrites it.
		return nil, nil
	}
	return &state, nil
}

// Set stores the state for the user with the cache's TTL.
func (c *gamificationCache) Set(ctx context.Context, userID uuid.UUID, state *entity.GamificationState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode gamification state: %w", err)
	}

	if err := c.client.Set(ctx, gamificationKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write gamification cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached state for the user.
func (c *gamificationCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, gamificationKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate gamification cache: %w", err)
	}
	return nil
}
