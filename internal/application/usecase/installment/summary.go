// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/gamification"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// CompletionProjection pairs an installment with its projected last due date.
type CompletionProjection struct {
	InstallmentID   uuid.UUID
	InstallmentName string
	CompletionDate  time.Time
}

// SummaryInput represents the input for the installment summary.
type SummaryInput struct {
	UserID uuid.UUID
}

// SummaryOutput aggregates the user's installment position.
type SummaryOutput struct {
	ActiveCount int
	// MonthlyCommitment is the scheduled amount pending in the current
	// calendar month.
	MonthlyCommitment decimal.Decimal
	UpcomingCount     int
	UpcomingAmount    decimal.Decimal
	OverdueCount      int
	OverdueAmount     decimal.Decimal
	// CompletedThisMonth counts fixed plans whose final payment was paid in
	// the current calendar month.
	CompletedThisMonth int
	// Completions projects when each active fixed plan ends.
	Completions []*CompletionProjection
	Gamification *entity.GamificationState
}

// SummaryUseCase aggregates installments, schedule windows and the
// gamification block into one read.
type SummaryUseCase struct {
	installmentRepo adapter.InstallmentRepository
	upcoming        *UpcomingPaymentsUseCase
	overdue         *OverduePaymentsUseCase
	gamification    *gamification.GetStateUseCase
}

// NewSummaryUseCase creates a new SummaryUseCase instance.
func NewSummaryUseCase(
	installmentRepo adapter.InstallmentRepository,
	upcoming *UpcomingPaymentsUseCase,
	overdue *OverduePaymentsUseCase,
	gamificationState *gamification.GetStateUseCase,
) *SummaryUseCase {
	return &SummaryUseCase{
		installmentRepo: installmentRepo,
		upcoming:        upcoming,
		overdue:         overdue,
		gamification:    gamificationState,
	}
}

// Execute builds the summary.
func (uc *SummaryUseCase) Execute(ctx context.Context, input SummaryInput) (*SummaryOutput, error) {
	installments, err := uc.installmentRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	output := &SummaryOutput{
		MonthlyCommitment: decimal.Zero,
		UpcomingAmount:    decimal.Zero,
		OverdueAmount:     decimal.Zero,
	}

	for _, installment := range installments {
		if installment.IsActive {
			output.ActiveCount++
		}

		var lastPaid *time.Time
		for _, payment := range installment.Payments {
			if payment.Status == entity.PaymentStatusPending &&
				!payment.DueDate.Before(monthStart) && payment.DueDate.Before(monthEnd) {
				output.MonthlyCommitment = output.MonthlyCommitment.Add(payment.ScheduledAmount)
			}
			if payment.Status == entity.PaymentStatusPaid && payment.PaidDate != nil {
				if lastPaid == nil || payment.PaidDate.After(*lastPaid) {
					lastPaid = payment.PaidDate
				}
			}
		}

		if installment.IsCompleted() && lastPaid != nil &&
			!lastPaid.Before(monthStart) && lastPaid.Before(monthEnd) {
			output.CompletedThisMonth++
		}

		// Fixed active plans complete at their final due date.
		if installment.IsActive && !installment.IsRecurring && !installment.IsCompleted() {
			output.Completions = append(output.Completions, &CompletionProjection{
				InstallmentID:   installment.ID,
				InstallmentName: installment.Name,
				CompletionDate:  installment.DueDateFor(installment.TotalInstallments - 1),
			})
		}
	}

	upcoming, err := uc.upcoming.Execute(ctx, UpcomingPaymentsInput{UserID: input.UserID, Days: DefaultUpcomingDays})
	if err != nil {
		return nil, err
	}
	output.UpcomingCount = len(upcoming.Payments)
	for _, row := range upcoming.Payments {
		output.UpcomingAmount = output.UpcomingAmount.Add(row.Payment.ScheduledAmount)
	}

	overdue, err := uc.overdue.Execute(ctx, OverduePaymentsInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	output.OverdueCount = len(overdue.Payments)
	for _, row := range overdue.Payments {
		output.OverdueAmount = output.OverdueAmount.Add(row.Payment.ScheduledAmount)
	}

	state, err := uc.gamification.Execute(ctx, gamification.GetStateInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	output.Gamification = state.State

	return output, nil
}
