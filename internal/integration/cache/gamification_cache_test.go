package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, client
}

func sampleState() *entity.GamificationState {
	return &entity.GamificationState{
		Points: 125,
		Level: entity.Level{
			Level:          2,
			Name:           "Saver",
			PointsRequired: 100,
			PointsToNext:   175,
		},
		Streak:               3,
		CompletionRate:       87.5,
		FinancialHealthScore: 64,
		ComputedAt:           time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestGamificationCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss returns nil without error", func(t *testing.T) {
		_, client := newTestCache(t)
		cache := NewGamificationCache(client, time.Minute)

		state, err := cache.Get(ctx, uuid.New())
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if state != nil {
			t.Errorf("expected nil on miss, got %+v", state)
		}
	})

	t.Run("set then get round-trips the state", func(t *testing.T) {
		_, client := newTestCache(t)
		cache := NewGamificationCache(client, time.Minute)
		userID := uuid.New()

		if err := cache.Set(ctx, userID, sampleState()); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}

		state, err := cache.Get(ctx, userID)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if state == nil {
			t.Fatal("expected a hit")
		}
		if state.Points != 125 || state.Level.Name != "Saver" || state.Streak != 3 {
			t.Errorf("unexpected state %+v", state)
		}
		if state.CompletionRate != 87.5 || state.FinancialHealthScore != 64 {
			t.Errorf("unexpected scores %+v", state)
		}
	})

	t.Run("entries expire after the TTL", func(t *testing.T) {
		server, client := newTestCache(t)
		cache := NewGamificationCache(client, time.Minute)
		userID := uuid.New()

		if err := cache.Set(ctx, userID, sampleState()); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}

		server.FastForward(2 * time.Minute)

		state, err := cache.Get(ctx, userID)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if state != nil {
			t.Errorf("expected expired entry to miss, got %+v", state)
		}
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		_, client := newTestCache(t)
		cache := NewGamificationCache(client, time.Minute)
		userID := uuid.New()

		if err := cache.Set(ctx, userID, sampleState()); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
		if err := cache.Invalidate(ctx, userID); err != nil {
			t.Fatalf("Invalidate returned error: %v", err)
		}

		state, err := cache.Get(ctx, userID)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if state != nil {
			t.Errorf("expected miss after invalidate, got %+v", state)
		}
	})

	t.Run("corrupt payload is treated as a miss", func(t *testing.T) {
		server, client := newTestCache(t)
		cache := NewGamificationCache(client, time.Minute)
		userID := uuid.New()

		server.Set("gamification:state:"+userID.String(), "not-json")

		state, err := cache.Get(ctx, userID)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if state != nil {
			t.Errorf("expected miss on corrupt entry, got %+v", state)
		}
	})
}
