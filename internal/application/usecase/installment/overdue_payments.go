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

// OverduePaymentsInput represents the input for the overdue scan.
type OverduePaymentsInput struct {
	UserID uuid.UUID
}

// OverduePaymentsOutput represents the output of the overdue scan.
type OverduePaymentsOutput struct {
	Payments []*ScheduledPaymentOutput
}

// OverduePaymentsUseCase lists pending payments past their due date.
// Overdue is derived here at read time; nothing is ever stored as overdue.
type OverduePaymentsUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewOverduePaymentsUseCase creates a new OverduePaymentsUseCase instance.
func NewOverduePaymentsUseCase(installmentRepo adapter.InstallmentRepository) *OverduePaymentsUseCase {
	return &OverduePaymentsUseCase{installmentRepo: installmentRepo}
}

// Execute returns pending payments with a due date before today, oldest first.
func (uc *OverduePaymentsUseCase) Execute(ctx context.Context, input OverduePaymentsInput) (*OverduePaymentsOutput, error) {
	installments, err := uc.installmentRepo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}

	now := time.Now()
	var out []*ScheduledPaymentOutput
	for _, installment := range installments {
		for _, payment := range installment.Payments {
			if payment.EffectiveStatus(now) != entity.PaymentStatusOverdue {
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

	return &OverduePaymentsOutput{Payments: out}, nil
}
