// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// BadgeResponse represents an earned badge in API responses.
type BadgeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rarity      string    `json:"rarity"`
	EarnedAt    time.Time `json:"earned_at"`
}

// LevelResponse represents the user's position in the level table.
type LevelResponse struct {
	Level          int      `json:"level"`
	Name           string   `json:"name"`
	PointsRequired int      `json:"points_required"`
	PointsToNext   int      `json:"points_to_next"`
	Benefits       []string `json:"benefits"`
}

// GamificationStateResponse represents the gamification read-model.
type GamificationStateResponse struct {
	Points               int             `json:"points"`
	Level                LevelResponse   `json:"level"`
	Streak               int             `json:"streak"`
	Badges               []BadgeResponse `json:"badges"`
	CompletionRate       float64         `json:"completion_rate"`
	FinancialHealthScore int             `json:"financial_health_score"`
	ComputedAt           time.Time       `json:"computed_at"`
	FromCache            bool            `json:"from_cache"`
}

// ToGamificationStateResponse converts a GamificationState entity to its DTO.
func ToGamificationStateResponse(state *entity.GamificationState) GamificationStateResponse {
	badges := make([]BadgeResponse, len(state.Badges))
	for i, badge := range state.Badges {
		badges[i] = BadgeResponse{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Rarity:      string(badge.Rarity),
			EarnedAt:    badge.EarnedAt,
		}
	}
	return GamificationStateResponse{
		Points: state.Points,
		Level: LevelResponse{
			Level:          state.Level.Level,
			Name:           state.Level.Name,
			PointsRequired: state.Level.PointsRequired,
			PointsToNext:   state.Level.PointsToNext,
			Benefits:       state.Level.Benefits,
		},
		Streak:               state.Streak,
		Badges:               badges,
		CompletionRate:       state.CompletionRate,
		FinancialHealthScore: state.FinancialHealthScore,
		ComputedAt:           state.ComputedAt,
	}
}
