// Package wallet contains wallet-related use cases.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// GetWalletInput represents the input for retrieving a single wallet.
type GetWalletInput struct {
	WalletID uuid.UUID
	UserID   uuid.UUID
}

// GetWalletOutput represents the output of retrieving a single wallet.
type GetWalletOutput struct {
	Wallet *WalletOutput
}

// GetWalletUseCase handles single wallet retrieval.
type GetWalletUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewGetWalletUseCase creates a new GetWalletUseCase instance.
func NewGetWalletUseCase(walletRepo adapter.WalletRepository) *GetWalletUseCase {
	return &GetWalletUseCase{walletRepo: walletRepo}
}

// Execute performs the wallet retrieval.
func (uc *GetWalletUseCase) Execute(ctx context.Context, input GetWalletInput) (*GetWalletOutput, error) {
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

	return &GetWalletOutput{Wallet: toWalletOutput(wallet)}, nil
}
