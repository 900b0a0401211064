// Package gamification computes the user's payment-discipline state.
package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// paidPayment builds a paid payment due at `due`, paid `lateDays` after.
func paidPayment(installmentID uuid.UUID, number int, due time.Time, lateDays int) *entity.InstallmentPayment {
	payment := entity.NewInstallmentPayment(installmentID, number, due, decimal.NewFromInt(100))
	paidDate := due.AddDate(0, 0, lateDays)
	amount := decimal.NewFromInt(100)
	payment.Status = entity.PaymentStatusPaid
	payment.PaidDate = &paidDate
	payment.PaidAmount = &amount
	return payment
}

func pendingPayment(installmentID uuid.UUID, number int, due time.Time) *entity.InstallmentPayment {
	return entity.NewInstallmentPayment(installmentID, number, due, decimal.NewFromInt(100))
}

func fixedPlan(userID uuid.UUID, totalInstallments int, payments ...*entity.InstallmentPayment) *entity.Installment {
	installment := entity.NewInstallment(
		userID, "plan", "", decimal.NewFromInt(int64(100*totalInstallments)),
		totalInstallments, decimal.NewFromInt(100), "bills", time.Now().AddDate(0, -totalInstallments, 0), uuid.New(),
	)
	installment.Payments = payments
	return installment
}

// testNow is a fixed mid-month clock so month arithmetic in the fixtures
// never normalizes across month boundaries.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestComputePoints(t *testing.T) {
	now := testNow
	userID := uuid.New()

	t.Run("on-time payment earns base plus bonus", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 2, paidPayment(id, 1, now.AddDate(0, -1, 0), 0))

		points := computePoints([]*entity.Installment{plan}, now)
		if points != 15 {
			t.Errorf("expected 15 points, got %d", points)
		}
	})

	t.Run("late payment penalty is capped at 20", func(t *testing.T) {
		id := uuid.New()
		// 3 days late: 10 - 6 = 4.
		plan := fixedPlan(userID, 2, paidPayment(id, 1, now.AddDate(0, -1, 0), 3))
		if points := computePoints([]*entity.Installment{plan}, now); points != 4 {
			t.Errorf("expected 4 points for 3 days late, got %d", points)
		}

		// 45 days late: penalty capped at 20, 10 - 20 floors at 0.
		plan = fixedPlan(userID, 2, paidPayment(id, 1, now.AddDate(0, -3, 0), 45))
		if points := computePoints([]*entity.Installment{plan}, now); points != 0 {
			t.Errorf("expected 0 points for 45 days late, got %d", points)
		}
	})

	t.Run("still-overdue payment is penalized per day up to 30", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 2,
			paidPayment(id, 1, now.AddDate(0, -2, 0), 0),   // +15
			pendingPayment(id, 2, now.AddDate(0, 0, -10)),  // -10
		)
		if points := computePoints([]*entity.Installment{plan}, now); points != 5 {
			t.Errorf("expected 5 points, got %d", points)
		}
	})

	t.Run("completed plan earns the completion bonus", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 2,
			paidPayment(id, 1, now.AddDate(0, -2, 0), 0),
			paidPayment(id, 2, now.AddDate(0, -1, 0), 0),
		)
		// 2*15 + 50 = 80
		if points := computePoints([]*entity.Installment{plan}, now); points != 80 {
			t.Errorf("expected 80 points, got %d", points)
		}
	})

	t.Run("points never go negative", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 3,
			pendingPayment(id, 1, now.AddDate(0, -2, 0)),
			pendingPayment(id, 2, now.AddDate(0, -3, 0)),
		)
		if points := computePoints([]*entity.Installment{plan}, now); points != 0 {
			t.Errorf("expected floor at 0, got %d", points)
		}
	})
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{1000, 5},
		{5499, 9},
		{5500, 10},
		{99999, 10},
	}
	for _, c := range cases {
		if got := levelFor(c.points); got.Level != c.level {
			t.Errorf("points %d: expected level %d, got %d", c.points, c.level, got.Level)
		}
	}

	t.Run("points to next level", func(t *testing.T) {
		level := levelFor(150)
		if level.Level != 2 {
			t.Fatalf("expected level 2, got %d", level.Level)
		}
		if level.PointsToNext != 150 {
			t.Errorf("expected 150 points to next, got %d", level.PointsToNext)
		}
	})
}

func TestComputeStreak(t *testing.T) {
	userID := uuid.New()
	now := testNow

	t.Run("consecutive on-time months count back from today", func(t *testing.T) {
		id := uuid.New()
		var payments []*entity.InstallmentPayment
		for k := 1; k <= 4; k++ {
			payments = append(payments, paidPayment(id, k, now.AddDate(0, -k, 0), 0))
		}
		plan := fixedPlan(userID, 6, payments...)

		if streak := computeStreak([]*entity.Installment{plan}, now); streak != 4 {
			t.Errorf("expected streak 4, got %d", streak)
		}
	})

	t.Run("a late month breaks the streak", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 6,
			paidPayment(id, 1, now.AddDate(0, -1, 0), 0),
			paidPayment(id, 2, now.AddDate(0, -2, 0), 5), // late
			paidPayment(id, 3, now.AddDate(0, -3, 0), 0),
		)
		if streak := computeStreak([]*entity.Installment{plan}, now); streak != 1 {
			t.Errorf("expected streak 1, got %d", streak)
		}
	})

	t.Run("a gap month breaks the scan", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 6,
			paidPayment(id, 1, now.AddDate(0, -1, 0), 0),
			// Nothing due two months ago.
			paidPayment(id, 2, now.AddDate(0, -3, 0), 0),
		)
		if streak := computeStreak([]*entity.Installment{plan}, now); streak != 1 {
			t.Errorf("expected streak 1, got %d", streak)
		}
	})

	t.Run("no history means no streak", func(t *testing.T) {
		if streak := computeStreak(nil, now); streak != 0 {
			t.Errorf("expected streak 0, got %d", streak)
		}
	})
}

func TestCompletionRate(t *testing.T) {
	userID := uuid.New()
	now := testNow
	id := uuid.New()

	t.Run("future pending payments do not lower the rate", func(t *testing.T) {
		plan := fixedPlan(userID, 4,
			paidPayment(id, 1, now.AddDate(0, -2, 0), 0),
			paidPayment(id, 2, now.AddDate(0, -1, 0), 0),
			pendingPayment(id, 3, now.AddDate(0, 1, 0)),
			pendingPayment(id, 4, now.AddDate(0, 2, 0)),
		)
		if rate := completionRate([]*entity.Installment{plan}, now); rate != 100 {
			t.Errorf("expected 100%%, got %.2f", rate)
		}
	})

	t.Run("overdue pending payments lower the rate", func(t *testing.T) {
		plan := fixedPlan(userID, 4,
			paidPayment(id, 1, now.AddDate(0, -3, 0), 0),
			paidPayment(id, 2, now.AddDate(0, -2, 0), 0),
			paidPayment(id, 3, now.AddDate(0, -1, 0), 0),
			pendingPayment(id, 4, now.AddDate(0, 0, -5)),
		)
		if rate := completionRate([]*entity.Installment{plan}, now); rate != 75 {
			t.Errorf("expected 75%%, got %.2f", rate)
		}
	})

	t.Run("empty history reports full completion", func(t *testing.T) {
		if rate := completionRate(nil, now); rate != 100 {
			t.Errorf("expected 100%%, got %.2f", rate)
		}
	})
}

func TestHealthScore(t *testing.T) {
	t.Run("reference composite", func(t *testing.T) {
		// 0.3*50 + 0.3*90 + 0.2*50 + 0.2*50 = 62
		if score := healthScore(5, 90, 6, 10); score != 62 {
			t.Errorf("expected score 62, got %d", score)
		}
	})

	t.Run("sub-scores are capped at 100", func(t *testing.T) {
		if score := healthScore(10, 100, 24, 40); score != 100 {
			t.Errorf("expected score 100, got %d", score)
		}
	})

	t.Run("empty state", func(t *testing.T) {
		// Level 1 floor: 0.3*10 + 0.3*100 + 0 + 0 = 33.
		if score := healthScore(1, 100, 0, 0); score != 33 {
			t.Errorf("expected score 33, got %d", score)
		}
	})
}

func TestComputeBadges(t *testing.T) {
	userID := uuid.New()
	now := testNow

	t.Run("first paid payment earns the first badge", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 2, paidPayment(id, 1, now.AddDate(0, -1, 0), 0))

		badges := computeBadges([]*entity.Installment{plan}, 1, now)
		if !hasBadge(badges, "first_payment") {
			t.Error("expected first_payment badge")
		}
		if hasBadge(badges, "on_time_10") {
			t.Error("did not expect on_time_10 badge")
		}
	})

	t.Run("zero delay requires 20 paid and no late ones", func(t *testing.T) {
		id := uuid.New()
		var payments []*entity.InstallmentPayment
		for k := 1; k <= 20; k++ {
			payments = append(payments, paidPayment(id, k, now.AddDate(0, -k, 0), 0))
		}
		plan := fixedPlan(userID, 24, payments...)

		badges := computeBadges([]*entity.Installment{plan}, 3, now)
		if !hasBadge(badges, "zero_delay") {
			t.Error("expected zero_delay badge")
		}

		// One late payment forfeits it.
		plan.Payments[0] = paidPayment(id, 1, now.AddDate(0, -1, 0), 2)
		badges = computeBadges([]*entity.Installment{plan}, 3, now)
		if hasBadge(badges, "zero_delay") {
			t.Error("did not expect zero_delay badge with a late payment")
		}
	})

	t.Run("six month streak badge", func(t *testing.T) {
		badges := computeBadges(nil, 6, now)
		if !hasBadge(badges, "streak_6") {
			t.Error("expected streak_6 badge")
		}
	})
}

func hasBadge(badges []entity.Badge, id string) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestGetStateUseCase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	t.Run("computes on miss and serves from cache after", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 2, paidPayment(id, 1, now.AddDate(0, -1, 0), 0))
		repo := usecasetest.NewInstallmentRepo(plan)
		cache := usecasetest.NewGamificationCache()
		uc := NewGetStateUseCase(repo, cache)

		first, err := uc.Execute(ctx, GetStateInput{UserID: userID})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if first.FromCache {
			t.Error("expected a computed state on first read")
		}
		if first.State.Points != 15 {
			t.Errorf("expected 15 points, got %d", first.State.Points)
		}

		second, err := uc.Execute(ctx, GetStateInput{UserID: userID})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if !second.FromCache {
			t.Error("expected the second read to hit the cache")
		}
	})

	t.Run("invalidation forces a recomputation", func(t *testing.T) {
		id := uuid.New()
		plan := fixedPlan(userID, 2, paidPayment(id, 1, now.AddDate(0, -1, 0), 0))
		repo := usecasetest.NewInstallmentRepo(plan)
		cache := usecasetest.NewGamificationCache()
		uc := NewGetStateUseCase(repo, cache)

		if _, err := uc.Execute(ctx, GetStateInput{UserID: userID}); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if err := cache.Invalidate(ctx, userID); err != nil {
			t.Fatalf("Invalidate failed: %v", err)
		}

		out, err := uc.Execute(ctx, GetStateInput{UserID: userID})
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out.FromCache {
			t.Error("expected recomputation after invalidation")
		}
	})
}
