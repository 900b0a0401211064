// Package gamification computes the user's payment-discipline state: points,
// level, streak, badges, completion rate and the composite financial health
// score. The whole state is a pure fold over the installment payment
// history, so it is recomputed on demand and cached, never stored.
package gamification

import (
	"math"
	"time"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// Points awarded or deducted per payment event.
const (
	pointsPerPaid        = 10
	pointsOnTimeBonus    = 5
	pointsPerCompleted   = 50
	maxLatePenalty       = 20
	maxOverduePenalty    = 30
	latePenaltyPerDay    = 2
	overduePenaltyPerDay = 1
)

// levelThresholds maps level N (index+1) to the points required to reach it.
var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2200, 3000, 4000, 5500}

// levelNames labels each level for display.
var levelNames = []string{
	"Beginner",
	"Saver",
	"Planner",
	"Organizer",
	"Strategist",
	"Achiever",
	"Expert",
	"Master",
	"Guru",
	"Legend",
}

// computePoints folds the points rules over all payments. The result is
// floored at zero; penalties can never push a user negative.
func computePoints(installments []*entity.Installment, now time.Time) int {
	points := 0
	for _, installment := range installments {
		for _, payment := range installment.Payments {
			switch {
			case payment.Status == entity.PaymentStatusPaid:
				points += pointsPerPaid
				if payment.IsPaidOnTime() {
					points += pointsOnTimeBonus
				} else {
					penalty := latePenaltyPerDay * payment.DaysLate()
					if penalty > maxLatePenalty {
						penalty = maxLatePenalty
					}
					points -= penalty
				}
			case payment.EffectiveStatus(now) == entity.PaymentStatusOverdue:
				penalty := overduePenaltyPerDay * daysOverdue(payment, now)
				if penalty > maxOverduePenalty {
					penalty = maxOverduePenalty
				}
				points -= penalty
			}
		}
		if installment.IsCompleted() {
			points += pointsPerCompleted
		}
	}
	if points < 0 {
		points = 0
	}
	return points
}

// daysOverdue returns how many whole days past due a pending payment is.
func daysOverdue(payment *entity.InstallmentPayment, now time.Time) int {
	days := int(now.Sub(payment.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// levelFor returns the level reached with the given points.
func levelFor(points int) *entity.Level {
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}

	out := &entity.Level{
		Level:          level,
		Name:           levelNames[level-1],
		PointsRequired: levelThresholds[level-1],
	}
	if level < len(levelThresholds) {
		out.PointsToNext = levelThresholds[level] - points
	}
	return out
}

// computeStreak counts consecutive months, walking back from the current
// month, in which every payment due was paid on or before its due date. A
// month with no due payments, or with any late or unpaid payment, ends the
// walk.
func computeStreak(installments []*entity.Installment, now time.Time) int {
	type monthState struct {
		due       int
		violation bool
	}
	months := make(map[string]*monthState)
	stateFor := func(due time.Time) *monthState {
		key := due.Format("2006-01")
		s, ok := months[key]
		if !ok {
			s = &monthState{}
			months[key] = s
		}
		return s
	}

	for _, installment := range installments {
		for _, payment := range installment.Payments {
			// Payments not yet due don't count for or against any month.
			if payment.Status == entity.PaymentStatusPending && payment.EffectiveStatus(now) != entity.PaymentStatusOverdue {
				continue
			}
			s := stateFor(payment.DueDate)
			s.due++
			if !payment.IsPaidOnTime() {
				s.violation = true
			}
		}
	}

	streak := 0
	cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	// The current month may have nothing due yet; an ongoing streak is not
	// broken by it, so start the walk one month back in that case.
	if s, ok := months[cursor.Format("2006-01")]; !ok || s.due == 0 {
		cursor = cursor.AddDate(0, -1, 0)
	} else if s.violation {
		return 0
	} else {
		streak++
		cursor = cursor.AddDate(0, -1, 0)
	}

	for {
		s, ok := months[cursor.Format("2006-01")]
		if !ok || s.due == 0 || s.violation {
			break
		}
		streak++
		cursor = cursor.AddDate(0, -1, 0)
	}
	return streak
}

// completionRate returns paid / (paid + past-due-pending) as a 0-100
// percentage. Payments not yet due don't lower the rate.
func completionRate(installments []*entity.Installment, now time.Time) float64 {
	paid := 0
	pastDuePending := 0
	for _, installment := range installments {
		for _, payment := range installment.Payments {
			switch {
			case payment.Status == entity.PaymentStatusPaid:
				paid++
			case payment.EffectiveStatus(now) == entity.PaymentStatusOverdue:
				pastDuePending++
			}
		}
	}
	if paid+pastDuePending == 0 {
		return 100
	}
	return float64(paid) / float64(paid+pastDuePending) * 100
}

// healthScore combines level, completion, streak and badges into the 0-100
// composite: 30% level progress, 30% completion rate, 20% streak (capped at
// 12 months), 20% badges (capped at 20).
func healthScore(level int, completion float64, streak int, badgeCount int) int {
	capped := func(v float64) float64 {
		if v > 100 {
			return 100
		}
		return v
	}
	levelScore := capped(float64(level) / 10 * 100)
	streakScore := capped(float64(streak) / 12 * 100)
	badgeScore := capped(float64(badgeCount) / 20 * 100)
	completionScore := capped(completion)

	return int(math.Round(0.3*levelScore + 0.3*completionScore + 0.2*streakScore + 0.2*badgeScore))
}
