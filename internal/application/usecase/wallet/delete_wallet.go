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

// DeleteWalletInput represents the input for wallet deletion.
type DeleteWalletInput struct {
	WalletID uuid.UUID
	UserID   uuid.UUID
}

// DeleteWalletUseCase handles wallet deletion logic.
type DeleteWalletUseCase struct {
	walletRepo      adapter.WalletRepository
	transactionRepo adapter.TransactionRepository
}

// NewDeleteWalletUseCase creates a new DeleteWalletUseCase instance.
func NewDeleteWalletUseCase(
	walletRepo adapter.WalletRepository,
	transactionRepo adapter.TransactionRepository,
) *DeleteWalletUseCase {
	return &DeleteWalletUseCase{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the wallet deletion. A wallet with transactions still
// referencing it, as source or as transfer destination, cannot be deleted;
// dropping it would silently change other wallets' recalculated history.
func (uc *DeleteWalletUseCase) Execute(ctx context.Context, input DeleteWalletInput) error {
	if _, err := uc.walletRepo.FindByID(ctx, input.WalletID, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrWalletNotFound) {
			return domainerror.NewWalletError(
				domainerror.ErrCodeWalletNotFound,
				"wallet not found",
				domainerror.ErrWalletNotFound,
			)
		}
		return fmt.Errorf("failed to find wallet: %w", err)
	}

	hasTransactions, err := uc.transactionRepo.ExistsByWallet(ctx, input.WalletID, input.UserID)
	if err != nil {
		return fmt.Errorf("failed to check wallet transactions: %w", err)
	}
	if hasTransactions {
		return domainerror.NewWalletError(
			domainerror.ErrCodeWalletHasTransactions,
			"wallet still has transactions; delete or move them first",
			domainerror.ErrWalletHasTransactions,
		)
	}

	if err := uc.walletRepo.Delete(ctx, input.WalletID, input.UserID); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	return nil
}
