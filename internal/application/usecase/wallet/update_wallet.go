// Package wallet contains wallet-related use cases.
package wallet

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

// UpdateWalletInput represents the input for wallet update. Balance is not
// editable here; it only moves through the balance engine or recalculation.
type UpdateWalletInput struct {
	WalletID uuid.UUID
	UserID   uuid.UUID
	Name     *string
	Type     *entity.WalletType
}

// UpdateWalletOutput represents the output of wallet update.
type UpdateWalletOutput struct {
	Wallet *WalletOutput
}

// UpdateWalletUseCase handles wallet update logic.
type UpdateWalletUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewUpdateWalletUseCase creates a new UpdateWalletUseCase instance.
func NewUpdateWalletUseCase(walletRepo adapter.WalletRepository) *UpdateWalletUseCase {
	return &UpdateWalletUseCase{walletRepo: walletRepo}
}

// Execute performs the wallet update.
func (uc *UpdateWalletUseCase) Execute(ctx context.Context, input UpdateWalletInput) (*UpdateWalletOutput, error) {
	wallet, err := uc.walletRepo.FindByID(ctx, input.WalletID, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrWalletNotFound) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNotFound,
				"wallet not found",
				domainerror.ErrWalletNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" || len(*input.Name) > MaxWalletNameLength {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNameRequired,
				fmt.Sprintf("wallet name must be 1 to %d characters", MaxWalletNameLength),
				domainerror.ErrWalletNameRequired,
			)
		}
		wallet.Name = *input.Name
	}

	if input.Type != nil {
		if !isValidWalletType(*input.Type) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeInvalidWalletType,
				"wallet type must be one of checking, savings, credit_card, investment, cash, other",
				domainerror.ErrInvalidWalletType,
			)
		}
		wallet.Type = *input.Type
	}

	wallet.UpdatedAt = time.Now().UTC()

	if err := uc.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return &UpdateWalletOutput{Wallet: toWalletOutput(wallet)}, nil
}
