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
)

// PaymentOutput represents one scheduled payment in use case outputs.
// Status carries the derived read-time value: pending rows past their due
// date report overdue.
type PaymentOutput struct {
	ID                uuid.UUID
	InstallmentID     uuid.UUID
	InstallmentNumber int
	DueDate           time.Time
	ScheduledAmount   decimal.Decimal
	PaidAmount        *decimal.Decimal
	PaidDate          *time.Time
	Status            entity.PaymentStatus
	TransactionID     *uuid.UUID
}

// AdjustmentOutput represents one recurring-amount change.
type AdjustmentOutput struct {
	ID             uuid.UUID
	EffectiveDate  time.Time
	PreviousAmount decimal.Decimal
	NewAmount      decimal.Decimal
	Reason         string
	CreatedAt      time.Time
}

// InstallmentOutput represents installment data in use case outputs.
type InstallmentOutput struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	Description         string
	TotalAmount         decimal.Decimal
	TotalInstallments   int
	InstallmentAmount   decimal.Decimal
	Category            string
	StartDate           time.Time
	SourceWalletID      uuid.UUID
	DestinationWalletID *uuid.UUID
	IsRecurring         bool
	RecurringType       entity.RecurringType
	EndDate             *time.Time
	IsActive            bool
	PaidCount           int
	TotalPaid           decimal.Decimal
	IsCompleted         bool
	NextDueDate         *time.Time
	Payments            []*PaymentOutput
	Adjustments         []*AdjustmentOutput
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// toPaymentOutput maps a payment entity to its output representation.
func toPaymentOutput(payment *entity.InstallmentPayment, now time.Time) *PaymentOutput {
	return &PaymentOutput{
		ID:                payment.ID,
		InstallmentID:     payment.InstallmentID,
		InstallmentNumber: payment.InstallmentNumber,
		DueDate:           payment.DueDate,
		ScheduledAmount:   payment.ScheduledAmount,
		PaidAmount:        payment.PaidAmount,
		PaidDate:          payment.PaidDate,
		Status:            payment.EffectiveStatus(now),
		TransactionID:     payment.TransactionID,
	}
}

// toInstallmentOutput maps an installment entity to its output representation.
func toInstallmentOutput(installment *entity.Installment, now time.Time) *InstallmentOutput {
	output := &InstallmentOutput{
		ID:                  installment.ID,
		UserID:              installment.UserID,
		Name:                installment.Name,
		Description:         installment.Description,
		TotalAmount:         installment.TotalAmount,
		TotalInstallments:   installment.TotalInstallments,
		InstallmentAmount:   installment.InstallmentAmount,
		Category:            installment.Category,
		StartDate:           installment.StartDate,
		SourceWalletID:      installment.SourceWalletID,
		DestinationWalletID: installment.DestinationWalletID,
		IsRecurring:         installment.IsRecurring,
		RecurringType:       installment.RecurringType,
		EndDate:             installment.EndDate,
		IsActive:            installment.IsActive,
		PaidCount:           installment.PaidCount(),
		TotalPaid:           installment.TotalPaid(),
		IsCompleted:         installment.IsCompleted(),
		NextDueDate:         installment.NextDueDate(),
		CreatedAt:           installment.CreatedAt,
		UpdatedAt:           installment.UpdatedAt,
	}
	for _, payment := range installment.Payments {
		output.Payments = append(output.Payments, toPaymentOutput(payment, now))
	}
	for _, adjustment := range installment.Adjustments {
		output.Adjustments = append(output.Adjustments, &AdjustmentOutput{
			ID:             adjustment.ID,
			EffectiveDate:  adjustment.EffectiveDate,
			PreviousAmount: adjustment.PreviousAmount,
			NewAmount:      adjustment.NewAmount,
			Reason:         adjustment.Reason,
			CreatedAt:      adjustment.CreatedAt,
		})
	}
	return output
}

// ListInstallmentsInput represents the input for listing installments.
type ListInstallmentsInput struct {
	UserID     uuid.UUID
	ActiveOnly bool
}

// ListInstallmentsOutput represents the output of listing installments.
type ListInstallmentsOutput struct {
	Installments []*InstallmentOutput
}

// ListInstallmentsUseCase handles installment listing logic.
type ListInstallmentsUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewListInstallmentsUseCase creates a new ListInstallmentsUseCase instance.
func NewListInstallmentsUseCase(installmentRepo adapter.InstallmentRepository) *ListInstallmentsUseCase {
	return &ListInstallmentsUseCase{installmentRepo: installmentRepo}
}

// Execute performs the installment listing.
func (uc *ListInstallmentsUseCase) Execute(ctx context.Context, input ListInstallmentsInput) (*ListInstallmentsOutput, error) {
	var installments []*entity.Installment
	var err error
	if input.ActiveOnly {
		installments, err = uc.installmentRepo.FindActiveByUser(ctx, input.UserID)
	} else {
		installments, err = uc.installmentRepo.FindByUser(ctx, input.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}

	now := time.Now()
	output := &ListInstallmentsOutput{Installments: make([]*InstallmentOutput, 0, len(installments))}
	for _, installment := range installments {
		output.Installments = append(output.Installments, toInstallmentOutput(installment, now))
	}
	return output, nil
}
