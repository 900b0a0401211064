// Package gamification computes the user's payment-discipline state.
package gamification

import (
	"time"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// badgeDefinition pairs a fixed badge identity with its earning predicate.
// Predicates are monotone over the payment history: once true, always true.
type badgeDefinition struct {
	id          string
	name        string
	description string
	rarity      entity.BadgeRarity
	earned      func(s badgeStats) bool
}

// badgeStats is the aggregate the predicates are evaluated against.
type badgeStats struct {
	paidCount      int
	onTimeCount    int
	lateCount      int
	completedPlans int
	streak         int
}

var badgeDefinitions = []badgeDefinition{
	{
		id:          "first_payment",
		name:        "First Step",
		description: "Pay your first installment",
		rarity:      entity.BadgeRarityCommon,
		earned:      func(s badgeStats) bool { return s.paidCount >= 1 },
	},
	{
		id:          "on_time_10",
		name:        "Reliable",
		description: "Pay 10 installments on time",
		rarity:      entity.BadgeRarityRare,
		earned:      func(s badgeStats) bool { return s.onTimeCount >= 10 },
	},
	{
		id:          "comeback",
		name:        "Comeback",
		description: "Recover from 3 late payments",
		rarity:      entity.BadgeRarityRare,
		earned:      func(s badgeStats) bool { return s.lateCount >= 3 },
	},
	{
		id:          "finisher_3",
		name:        "Finisher",
		description: "Complete 3 installment plans",
		rarity:      entity.BadgeRarityEpic,
		earned:      func(s badgeStats) bool { return s.completedPlans >= 3 },
	},
	{
		id:          "zero_delay",
		name:        "Zero Delay",
		description: "20 payments without a single late one",
		rarity:      entity.BadgeRarityEpic,
		earned:      func(s badgeStats) bool { return s.paidCount >= 20 && s.lateCount == 0 },
	},
	{
		id:          "streak_6",
		name:        "Half-Year Streak",
		description: "Keep a 6-month on-time streak",
		rarity:      entity.BadgeRarityLegendary,
		earned:      func(s badgeStats) bool { return s.streak >= 6 },
	},
}

// computeBadges evaluates every definition against the history aggregate.
func computeBadges(installments []*entity.Installment, streak int, now time.Time) []entity.Badge {
	stats := badgeStats{streak: streak}
	for _, installment := range installments {
		for _, payment := range installment.Payments {
			if payment.Status != entity.PaymentStatusPaid {
				continue
			}
			stats.paidCount++
			if payment.IsPaidOnTime() {
				stats.onTimeCount++
			} else {
				stats.lateCount++
			}
		}
		if installment.IsCompleted() {
			stats.completedPlans++
		}
	}

	var badges []entity.Badge
	for _, def := range badgeDefinitions {
		if !def.earned(stats) {
			continue
		}
		badges = append(badges, entity.Badge{
			ID:          def.id,
			Name:        def.name,
			Description: def.description,
			Rarity:      def.rarity,
			EarnedAt:    now,
		})
	}
	return badges
}
