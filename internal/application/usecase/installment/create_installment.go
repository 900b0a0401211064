// Package installment contains the installment scheduling use cases.
// Schedules are pre-generated: fixed installments get every payment row at
// creation time, recurring installments keep a rolling horizon of pending
// rows ahead of today.
package installment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// RecurringHorizonPeriods is how many periods ahead a recurring schedule
// keeps generated.
const RecurringHorizonPeriods = 12

// CreateInstallmentInput represents the input for installment creation.
//
// Fixed plans set TotalAmount and TotalInstallments; the per-period amount
// is an exact cent split unless CustomAmounts provides one amount per
// period. Recurring plans set InstallmentAmount per period instead, with an
// optional EndDate.
type CreateInstallmentInput struct {
	UserID              uuid.UUID
	Name                string
	Description         string
	TotalAmount         decimal.Decimal
	TotalInstallments   int
	InstallmentAmount   decimal.Decimal
	CustomAmounts       []decimal.Decimal
	Category            string
	StartDate           time.Time
	SourceWalletID      uuid.UUID
	DestinationWalletID *uuid.UUID
	IsRecurring         bool
	RecurringType       entity.RecurringType
	EndDate             *time.Time
}

// CreateInstallmentOutput represents the output of installment creation.
type CreateInstallmentOutput struct {
	Installment *InstallmentOutput
}

// CreateInstallmentUseCase handles installment creation logic.
type CreateInstallmentUseCase struct {
	installmentRepo adapter.InstallmentRepository
	walletRepo      adapter.WalletRepository
}

// NewCreateInstallmentUseCase creates a new CreateInstallmentUseCase instance.
func NewCreateInstallmentUseCase(
	installmentRepo adapter.InstallmentRepository,
	walletRepo adapter.WalletRepository,
) *CreateInstallmentUseCase {
	return &CreateInstallmentUseCase{
		installmentRepo: installmentRepo,
		walletRepo:      walletRepo,
	}
}

// Execute performs the installment creation and pre-generates the schedule.
func (uc *CreateInstallmentUseCase) Execute(ctx context.Context, input CreateInstallmentInput) (*CreateInstallmentOutput, error) {
	if _, err := uc.walletRepo.FindByID(ctx, input.SourceWalletID, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrWalletNotFound) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNotFound,
				"source wallet not found",
				domainerror.ErrWalletNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find source wallet: %w", err)
	}

	var installment *entity.Installment
	var err error
	if input.IsRecurring {
		installment, err = uc.buildRecurring(input)
	} else {
		installment, err = uc.buildFixed(input)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.installmentRepo.Create(ctx, installment); err != nil {
		return nil, fmt.Errorf("failed to create installment: %w", err)
	}

	return &CreateInstallmentOutput{Installment: toInstallmentOutput(installment, time.Now())}, nil
}

// buildFixed validates a fixed plan and generates its full schedule.
func (uc *CreateInstallmentUseCase) buildFixed(input CreateInstallmentInput) (*entity.Installment, error) {
	if input.TotalInstallments < 1 {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeInvalidInstallmentCount,
			"total installments must be positive",
			domainerror.ErrInvalidInstallmentCount,
		)
	}
	if !input.TotalAmount.IsPositive() {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeInvalidInstallmentAmount,
			"total amount must be positive",
			domainerror.ErrInvalidInstallmentAmount,
		)
	}

	amounts, err := splitAmounts(input.TotalAmount, input.TotalInstallments, input.CustomAmounts)
	if err != nil {
		return nil, err
	}

	installment := entity.NewInstallment(
		input.UserID,
		input.Name,
		input.Description,
		input.TotalAmount,
		input.TotalInstallments,
		amounts[0],
		input.Category,
		input.StartDate,
		input.SourceWalletID,
	)
	installment.DestinationWalletID = input.DestinationWalletID

	for k, amount := range amounts {
		installment.Payments = append(installment.Payments,
			entity.NewInstallmentPayment(installment.ID, k+1, installment.DueDateFor(k), amount))
	}

	return installment, nil
}

// buildRecurring validates a recurring plan and generates its rolling horizon.
func (uc *CreateInstallmentUseCase) buildRecurring(input CreateInstallmentInput) (*entity.Installment, error) {
	if !input.InstallmentAmount.IsPositive() {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeInvalidInstallmentAmount,
			"installment amount must be positive",
			domainerror.ErrInvalidInstallmentAmount,
		)
	}
	if input.RecurringType != entity.RecurringTypeMonthly && input.RecurringType != entity.RecurringTypeYearly {
		input.RecurringType = entity.RecurringTypeMonthly
	}

	installment := entity.NewInstallment(
		input.UserID,
		input.Name,
		input.Description,
		decimal.Zero,
		0,
		input.InstallmentAmount,
		input.Category,
		input.StartDate,
		input.SourceWalletID,
	)
	installment.DestinationWalletID = input.DestinationWalletID
	installment.IsRecurring = true
	installment.RecurringType = input.RecurringType
	installment.EndDate = input.EndDate

	installment.Payments = generateAhead(installment, RecurringHorizonPeriods)

	return installment, nil
}

// splitAmounts returns one amount per period. Custom amounts must match the
// period count and sum exactly to the total; the default split is equal to
// the cent, any remainder landing on the last period.
func splitAmounts(total decimal.Decimal, count int, custom []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(custom) > 0 {
		if len(custom) != count {
			return nil, domainerror.NewInstallmentError(
				domainerror.ErrCodeCustomAmountsMismatch,
				fmt.Sprintf("expected %d custom amounts, got %d", count, len(custom)),
				domainerror.ErrCustomAmountsMismatch,
			)
		}
		sum := decimal.Zero
		for _, amount := range custom {
			if !amount.IsPositive() {
				return nil, domainerror.NewInstallmentError(
					domainerror.ErrCodeInvalidInstallmentAmount,
					"custom amounts must be positive",
					domainerror.ErrInvalidInstallmentAmount,
				)
			}
			sum = sum.Add(amount)
		}
		if !sum.Equal(total) {
			return nil, domainerror.NewInstallmentError(
				domainerror.ErrCodeCustomAmountsMismatch,
				fmt.Sprintf("custom amounts sum to %s, expected %s", sum, total),
				domainerror.ErrCustomAmountsMismatch,
			)
		}
		return custom, nil
	}

	base := total.Div(decimal.NewFromInt(int64(count))).RoundDown(2)
	amounts := make([]decimal.Decimal, count)
	for k := 0; k < count-1; k++ {
		amounts[k] = base
	}
	// Last period absorbs the rounding remainder so the sum is exact.
	amounts[count-1] = total.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))
	return amounts, nil
}

// generateAhead returns pending payment rows for a recurring installment up
// to `periods` periods from today, skipping periods already generated and
// periods past EndDate.
func generateAhead(installment *entity.Installment, periods int) []*entity.InstallmentPayment {
	generated := make(map[int]bool, len(installment.Payments))
	maxNumber := 0
	for _, payment := range installment.Payments {
		generated[payment.InstallmentNumber] = true
		if payment.InstallmentNumber > maxNumber {
			maxNumber = payment.InstallmentNumber
		}
	}

	horizon := horizonEnd(installment, periods, time.Now())

	var rows []*entity.InstallmentPayment
	for k := 0; ; k++ {
		dueDate := installment.DueDateFor(k)
		if dueDate.After(horizon) {
			break
		}
		if installment.EndDate != nil && dueDate.After(*installment.EndDate) {
			break
		}
		if generated[k+1] {
			continue
		}
		rows = append(rows, entity.NewInstallmentPayment(installment.ID, k+1, dueDate, installment.InstallmentAmount))
	}
	return rows
}

// horizonEnd returns the date the rolling generation window reaches.
func horizonEnd(installment *entity.Installment, periods int, now time.Time) time.Time {
	if installment.Period() == entity.RecurringTypeYearly {
		return now.AddDate(periods, 0, 0)
	}
	return now.AddDate(0, periods, 0)
}
