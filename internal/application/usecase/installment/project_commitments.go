// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// DefaultProjectionMonths is the default projection window.
const DefaultProjectionMonths = 6

// MonthProjection is the committed amount of one calendar month.
type MonthProjection struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
	// Installments names the plans contributing to the month.
	Installments []string
}

// ProjectCommitmentsInput represents the input for the projection.
type ProjectCommitmentsInput struct {
	UserID uuid.UUID
	Months int
}

// ProjectCommitmentsOutput represents the output of the projection.
type ProjectCommitmentsOutput struct {
	Projections []*MonthProjection
}

// ProjectCommitmentsUseCase projects scheduled commitments per calendar
// month. Recurring installments are projected through the whole window,
// even past their generated rows.
type ProjectCommitmentsUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewProjectCommitmentsUseCase creates a new ProjectCommitmentsUseCase instance.
func NewProjectCommitmentsUseCase(installmentRepo adapter.InstallmentRepository) *ProjectCommitmentsUseCase {
	return &ProjectCommitmentsUseCase{installmentRepo: installmentRepo}
}

// Execute performs the projection over the next `months` calendar months,
// current month included.
func (uc *ProjectCommitmentsUseCase) Execute(ctx context.Context, input ProjectCommitmentsInput) (*ProjectCommitmentsOutput, error) {
	months := input.Months
	if months <= 0 {
		months = DefaultProjectionMonths
	}

	installments, err := uc.installmentRepo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}

	now := time.Now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowEnd := windowStart.AddDate(0, months, 0)

	type bucket struct {
		total        decimal.Decimal
		contributors map[string]bool
	}
	buckets := make(map[string]*bucket, months)
	bucketFor := func(due time.Time) *bucket {
		key := due.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{total: decimal.Zero, contributors: make(map[string]bool)}
			buckets[key] = b
		}
		return b
	}
	inWindow := func(due time.Time) bool {
		return !due.Before(windowStart) && due.Before(windowEnd)
	}

	for _, installment := range installments {
		lastGenerated := 0
		for _, payment := range installment.Payments {
			if payment.InstallmentNumber > lastGenerated {
				lastGenerated = payment.InstallmentNumber
			}
			if payment.Status != entity.PaymentStatusPending || !inWindow(payment.DueDate) {
				continue
			}
			b := bucketFor(payment.DueDate)
			b.total = b.total.Add(payment.ScheduledAmount)
			b.contributors[installment.Name] = true
		}

		// Recurring plans keep committing past their generated rows.
		if installment.IsRecurring {
			for k := lastGenerated; ; k++ {
				dueDate := installment.DueDateFor(k)
				if !dueDate.Before(windowEnd) {
					break
				}
				if installment.EndDate != nil && dueDate.After(*installment.EndDate) {
					break
				}
				if !inWindow(dueDate) {
					continue
				}
				b := bucketFor(dueDate)
				b.total = b.total.Add(installment.InstallmentAmount)
				b.contributors[installment.Name] = true
			}
		}
	}

	output := &ProjectCommitmentsOutput{Projections: make([]*MonthProjection, 0, months)}
	for k := 0; k < months; k++ {
		monthStart := windowStart.AddDate(0, k, 0)
		projection := &MonthProjection{
			Year:  monthStart.Year(),
			Month: monthStart.Month(),
			Total: decimal.Zero,
		}
		if b, ok := buckets[monthStart.Format("2006-01")]; ok {
			projection.Total = b.total
			for name := range b.contributors {
				projection.Installments = append(projection.Installments, name)
			}
			sort.Strings(projection.Installments)
		}
		output.Projections = append(output.Projections, projection)
	}

	return output, nil
}
