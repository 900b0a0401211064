// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
)

// UpdateInstallmentInput represents the input for installment update.
// Amounts and schedules are not edited here: fixed schedules are immutable
// after creation and recurring amounts change through adjustments.
type UpdateInstallmentInput struct {
	InstallmentID uuid.UUID
	UserID        uuid.UUID
	Name          *string
	Description   *string
	Category      *string
	IsActive      *bool
	EndDate       *time.Time
	ClearEndDate  bool
}

// UpdateInstallmentOutput represents the output of installment update.
type UpdateInstallmentOutput struct {
	Installment *InstallmentOutput
}

// UpdateInstallmentUseCase handles installment metadata updates and
// activation toggling.
type UpdateInstallmentUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewUpdateInstallmentUseCase creates a new UpdateInstallmentUseCase instance.
func NewUpdateInstallmentUseCase(installmentRepo adapter.InstallmentRepository) *UpdateInstallmentUseCase {
	return &UpdateInstallmentUseCase{installmentRepo: installmentRepo}
}

// Execute performs the installment update.
func (uc *UpdateInstallmentUseCase) Execute(ctx context.Context, input UpdateInstallmentInput) (*UpdateInstallmentOutput, error) {
	installment, err := loadInstallment(ctx, uc.installmentRepo, input.InstallmentID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		installment.Name = *input.Name
	}
	if input.Description != nil {
		installment.Description = *input.Description
	}
	if input.Category != nil {
		installment.Category = *input.Category
	}
	if input.IsActive != nil {
		installment.IsActive = *input.IsActive
	}
	if input.ClearEndDate {
		installment.EndDate = nil
	} else if input.EndDate != nil {
		installment.EndDate = input.EndDate
	}

	installment.UpdatedAt = time.Now().UTC()

	if err := uc.installmentRepo.Update(ctx, installment); err != nil {
		return nil, fmt.Errorf("failed to update installment: %w", err)
	}

	return &UpdateInstallmentOutput{Installment: toInstallmentOutput(installment, time.Now())}, nil
}
