// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	balanceEngine   *balance.Engine
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	balanceEngine *balance.Engine,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
		balanceEngine:   balanceEngine,
	}
}

// Execute performs the transaction deletion. The balance effect is reverted
// first; deleting a bundle parent also removes its children, which carry no
// balance effect of their own.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) error {
	transaction, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return fmt.Errorf("failed to find transaction: %w", err)
	}

	if transaction.UserID != input.UserID {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to delete this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	if transaction.IsChild() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionIsChild,
			"bundle children are removed through the parent's children endpoint",
			domainerror.ErrTransactionIsChild,
		)
	}

	return uc.transactionRepo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error {
		engine := uc.balanceEngine.WithRepositories(walletRepo, txRepo)
		if err := engine.Revert(ctx, transaction); err != nil {
			return fmt.Errorf("failed to revert balance effect: %w", err)
		}

		if transaction.IsBundle() {
			deleted, err := txRepo.DeleteChildren(ctx, transaction.ID, input.UserID)
			if err != nil {
				return fmt.Errorf("failed to delete bundle children: %w", err)
			}
			slog.Debug("Deleted bundle children",
				"transactionID", transaction.ID,
				"children", deleted,
			)
		}

		if err := txRepo.Delete(ctx, transaction.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	})
}
