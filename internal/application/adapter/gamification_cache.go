// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// GamificationCache defines the interface for caching computed gamification
// state. Computing the state walks the user's full payment history, so the
// read side keeps a short-lived copy; the pay action invalidates it.
type GamificationCache interface {
	// Get returns the cached state for the user, or nil on a miss.
	Get(ctx context.Context, userID uuid.UUID) (*entity.GamificationState, error)

	// Set stores the state for the user with the cache's TTL.
	Set(ctx context.Context, userID uuid.UUID, state *entity.GamificationState) error

	// Invalidate drops the cached state for the user.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
