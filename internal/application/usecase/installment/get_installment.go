// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// GetInstallmentInput represents the input for retrieving one installment.
type GetInstallmentInput struct {
	InstallmentID uuid.UUID
	UserID        uuid.UUID
}

// GetInstallmentOutput represents the output of retrieving one installment.
type GetInstallmentOutput struct {
	Installment *InstallmentOutput
}

// GetInstallmentUseCase handles single installment retrieval.
type GetInstallmentUseCase struct {
	installmentRepo adapter.InstallmentRepository
}

// NewGetInstallmentUseCase creates a new GetInstallmentUseCase instance.
func NewGetInstallmentUseCase(installmentRepo adapter.InstallmentRepository) *GetInstallmentUseCase {
	return &GetInstallmentUseCase{installmentRepo: installmentRepo}
}

// Execute performs the installment retrieval.
func (uc *GetInstallmentUseCase) Execute(ctx context.Context, input GetInstallmentInput) (*GetInstallmentOutput, error) {
	installment, err := loadInstallment(ctx, uc.installmentRepo, input.InstallmentID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetInstallmentOutput{Installment: toInstallmentOutput(installment, time.Now())}, nil
}

// loadInstallment fetches an installment scoped to the user, translating
// not-found into the coded domain error.
func loadInstallment(ctx context.Context, repo adapter.InstallmentRepository, id uuid.UUID, userID uuid.UUID) (*entity.Installment, error) {
	installment, err := repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrInstallmentNotFound) {
			return nil, domainerror.NewInstallmentError(
				domainerror.ErrCodeInstallmentNotFound,
				"installment not found",
				domainerror.ErrInstallmentNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find installment: %w", err)
	}
	return installment, nil
}
