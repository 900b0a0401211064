// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// DefaultUpcomingDays is the default look-ahead window for upcoming payments.
const DefaultUpcomingDays = 30

// ScheduledPaymentOutput is a payment row paired with its installment.
type ScheduledPaymentOutput struct {
	Payment         *PaymentOutput
	InstallmentID   uuid.UUID
	InstallmentName string
	Category        string
}

// UpcomingPaymentsInput represents the input for the upcoming scan.
type UpcomingPaymentsInput struct {
	UserID uuid.UUID
	Days   int
}

// UpcomingPaymentsOutput represents the output of the upcoming scan.
type UpcomingPaymentsOutput struct {
	Payments []*ScheduledPaymentOutput
}

// UpcomingPaymentsUseCase lists pending payments due within a window.
type UpcomingPaymentsUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewUpcomingPaymentsUseCase creates a new UpcomingPaymentsUseCase instance.
func NewUpcomingPaymentsUseCase(installmentRepo adapter.InstallmentRepository) *UpcomingPaymentsUseCase {
	return &UpcomingPaymentsUseCase{installmentRepo: installmentRepo}
}

// Execute returns pending payments due in [today, today+days], ascending by
// due date. Recurring horizons are extended first so a long window never
// outruns generation.
func (uc *UpcomingPaymentsUseCase) Execute(ctx context.Context, input UpcomingPaymentsInput) (*UpcomingPaymentsOutput, error) {
	days := input.Days
	if days <= 0 {
		days = DefaultUpcomingDays
	}

	installments, err := uc.installmentRepo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := today.AddDate(0, 0, days)

	var out []*ScheduledPaymentOutput
	for _, installment := range installments {
		if installment.IsRecurring {
			if rows := generateAhead(installment, RecurringHorizonPeriods); len(rows) > 0 {
				if err := uc.installmentRepo.CreatePayments(ctx, rows); err != nil {
					return nil, fmt.Errorf("failed to extend recurring schedule: %w", err)
				}
				installment.Payments = append(installment.Payments, rows...)
			}
		}

		for _, payment := range installment.Payments {
			if payment.Status != entity.PaymentStatusPending {
				continue
			}
			if payment.DueDate.Before(today) || payment.DueDate.After(windowEnd) {
				continue
			}
			out = append(out, &ScheduledPaymentOutput{
				Payment:         toPaymentOutput(payment, now),
				InstallmentID:   installment.ID,
				InstallmentName: installment.Name,
				Category:        installment.Category,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Payment.DueDate.Before(out[j].Payment.DueDate)
	})

	return &UpcomingPaymentsOutput{Payments: out}, nil
}
