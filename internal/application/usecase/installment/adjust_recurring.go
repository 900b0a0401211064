// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// AdjustRecurringInput represents the input for a recurring amount change.
type AdjustRecurringInput struct {
	InstallmentID uuid.UUID
	UserID        uuid.UUID
	NewAmount     decimal.Decimal
	Reason        string
	EffectiveDate time.Time
}

// AdjustRecurringOutput represents the output of a recurring amount change.
type AdjustRecurringOutput struct {
	Installment *InstallmentOutput
	Adjustment  *AdjustmentOutput
	// RepricedPayments is the number of pending rows moved to the new amount.
	RepricedPayments int
}

// AdjustRecurringUseCase handles changing the per-period amount of a
// recurring installment. Adjustments are never retroactive: paid payments
// and pending payments due before the effective date keep their amounts.
type AdjustRecurringUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewAdjustRecurringUseCase creates a new AdjustRecurringUseCase instance.
func NewAdjustRecurringUseCase(installmentRepo adapter.InstallmentRepository) *AdjustRecurringUseCase {
	return &AdjustRecurringUseCase{installmentRepo: installmentRepo}
}

// Execute performs the adjustment.
func (uc *AdjustRecurringUseCase) Execute(ctx context.Context, input AdjustRecurringInput) (*AdjustRecurringOutput, error) {
	installment, err := loadInstallment(ctx, uc.installmentRepo, input.InstallmentID, input.UserID)
	if err != nil {
		return nil, err
	}

	if !installment.IsRecurring {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeNotRecurring,
			"only recurring installments can be adjusted",
			domainerror.ErrNotRecurring,
		)
	}

	if !input.NewAmount.IsPositive() {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeInvalidInstallmentAmount,
			"adjusted amount must be positive",
			domainerror.ErrInvalidInstallmentAmount,
		)
	}

	// An effective date at or before an already-paid due date would rewrite
	// history that the wallet has already seen.
	for _, payment := range installment.Payments {
		if payment.Status == entity.PaymentStatusPaid && !input.EffectiveDate.After(payment.DueDate) {
			return nil, domainerror.NewInstallmentError(
				domainerror.ErrCodeAdjustmentBeforePaid,
				fmt.Sprintf("effective date %s does not postdate the paid payment due %s",
					input.EffectiveDate.Format("2006-01-02"), payment.DueDate.Format("2006-01-02")),
				domainerror.ErrAdjustmentBeforePaid,
			)
		}
	}

	adjustment := &entity.InstallmentAdjustment{
		ID:             uuid.New(),
		InstallmentID:  installment.ID,
		EffectiveDate:  input.EffectiveDate,
		PreviousAmount: installment.InstallmentAmount,
		NewAmount:      input.NewAmount,
		Reason:         input.Reason,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.installmentRepo.CreateAdjustment(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}
	installment.Adjustments = append(installment.Adjustments, adjustment)

	// Future generation picks up the new amount from here.
	installment.InstallmentAmount = input.NewAmount
	installment.UpdatedAt = time.Now().UTC()
	if err := uc.installmentRepo.Update(ctx, installment); err != nil {
		return nil, fmt.Errorf("failed to update installment: %w", err)
	}

	// Re-price generated pending rows due on or after the effective date.
	repriced := 0
	for _, payment := range installment.Payments {
		if payment.Status != entity.PaymentStatusPending || payment.DueDate.Before(input.EffectiveDate) {
			continue
		}
		payment.ScheduledAmount = input.NewAmount
		payment.UpdatedAt = time.Now().UTC()
		if err := uc.installmentRepo.UpdatePayment(ctx, payment); err != nil {
			return nil, fmt.Errorf("failed to reprice payment %d: %w", payment.InstallmentNumber, err)
		}
		repriced++
	}

	now := time.Now()
	return &AdjustRecurringOutput{
		Installment: toInstallmentOutput(installment, now),
		Adjustment: &AdjustmentOutput{
			ID:             adjustment.ID,
			EffectiveDate:  adjustment.EffectiveDate,
			PreviousAmount: adjustment.PreviousAmount,
			NewAmount:      adjustment.NewAmount,
			Reason:         adjustment.Reason,
			CreatedAt:      adjustment.CreatedAt,
		},
		RepricedPayments: repriced,
	}, nil
}
