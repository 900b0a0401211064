// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
)

// DeleteInstallmentInput represents the input for installment deletion.
type DeleteInstallmentInput struct {
	InstallmentID uuid.UUID
	UserID        uuid.UUID
}

// DeleteInstallmentUseCase handles installment deletion. Payments already
// made keep their transactions; only the plan and its schedule go.
type DeleteInstallmentUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewDeleteInstallmentUseCase creates a new DeleteInstallmentUseCase instance.
func NewDeleteInstallmentUseCase(installmentRepo adapter.InstallmentRepository) *DeleteInstallmentUseCase {
	return &DeleteInstallmentUseCase{installmentRepo: installmentRepo}
}

// Execute performs the installment deletion.
func (uc *DeleteInstallmentUseCase) Execute(ctx context.Context, input DeleteInstallmentInput) error {
	if _, err := loadInstallment(ctx, uc.installmentRepo, input.InstallmentID, input.UserID); err != nil {
		return err
	}
	if err := uc.installmentRepo.Delete(ctx, input.InstallmentID, input.UserID); err != nil {
		return fmt.Errorf("failed to delete installment: %w", err)
	}
	return nil
}
