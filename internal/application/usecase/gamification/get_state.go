// Package gamification computes the user's payment-discipline state.
package gamification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// GetStateInput represents the input for reading the gamification state.
type GetStateInput struct {
	UserID uuid.UUID
	// SkipCache forces a recomputation, bypassing the cached state.
	SkipCache bool
}

// GetStateOutput represents the output of reading the gamification state.
type GetStateOutput struct {
	State *entity.GamificationState
	// FromCache reports whether the state came from the cache.
	FromCache bool
}

// GetStateUseCase computes (or serves from cache) the user's gamification
// state.
type GetStateUseCase struct {
	installmentRepo adapter.InstallmentRepository
	cache           adapter.GamificationCache
}

// NewGetStateUseCase creates a new GetStateUseCase instance.
func NewGetStateUseCase(
	installmentRepo adapter.InstallmentRepository,
	cache adapter.GamificationCache,
) *GetStateUseCase {
	return &GetStateUseCase{
		installmentRepo: installmentRepo,
		cache:           cache,
	}
}

// Execute returns the gamification state. Cache failures degrade to a
// recomputation; they never fail the read.
func (uc *GetStateUseCase) Execute(ctx context.Context, input GetStateInput) (*GetStateOutput, error) {
	if !input.SkipCache {
		cached, err := uc.cache.Get(ctx, input.UserID)
		if err != nil {
			slog.Warn("Gamification cache read failed",
				"userID", input.UserID,
				"error", err,
			)
		} else if cached != nil {
			return &GetStateOutput{State: cached, FromCache: true}, nil
		}
	}

	installments, err := uc.installmentRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}

	state := Compute(installments, time.Now())

	if err := uc.cache.Set(ctx, input.UserID, state); err != nil {
		slog.Warn("Gamification cache write failed",
			"userID", input.UserID,
			"error", err,
		)
	}

	return &GetStateOutput{State: state}, nil
}

// Compute folds the full gamification state out of the installment history.
func Compute(installments []*entity.Installment, now time.Time) *entity.GamificationState {
	points := computePoints(installments, now)
	level := levelFor(points)
	streak := computeStreak(installments, now)
	badges := computeBadges(installments, streak, now)
	completion := completionRate(installments, now)

	return &entity.GamificationState{
		Points:               points,
		Level:                *level,
		Streak:               streak,
		Badges:               badges,
		CompletionRate:       completion,
		FinancialHealthScore: healthScore(level.Level, completion, streak, len(badges)),
		ComputedAt:           now,
	}
}
