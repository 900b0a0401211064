// Package entity defines the core business entities for the domain layer.
package entity

import "time"

// BadgeRarity is a fixed attribute of each badge definition.
type BadgeRarity string

const (
	BadgeRarityCommon    BadgeRarity = "common"
	BadgeRarityRare      BadgeRarity = "rare"
	BadgeRarityEpic      BadgeRarity = "epic"
	BadgeRarityLegendary BadgeRarity = "legendary"
)

// Badge represents an earned achievement. Badges are idempotent: once the
// underlying condition has been met they are reported on every computation
// and never revoked.
type Badge struct {
	ID          string
	Name        string
	Description string
	Rarity      BadgeRarity
	EarnedAt    time.Time
}

// Level describes a position in the monotonic points-to-level table.
// Crossing a threshold increases the level but never resets points.
type Level struct {
	Level          int
	Name           string
	PointsRequired int
	PointsToNext   int
	Benefits       []string
}

// GamificationState is the derived read-model over a user's installment
// payment history. It is never persisted as its own entity and can be
// recomputed at any time.
type GamificationState struct {
	Points               int
	Level                Level
	Streak               int // Consecutive on-time months
	Badges               []Badge
	CompletionRate       float64 // 0-100
	FinancialHealthScore int     // 0-100, weighted composite
	ComputedAt           time.Time
}
