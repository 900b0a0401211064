// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// UpdateTransactionInput represents the input for transaction update.
// Wallet, destination and type are immutable after creation; moving a
// transaction is delete plus create.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Date          *time.Time
	Description   *string
	Amount        *decimal.Decimal
	Category      *string
	Subcategory   *string
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *TransactionOutput
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	balanceEngine   *balance.Engine
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	balanceEngine *balance.Engine,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		balanceEngine:   balanceEngine,
	}
}

// Execute performs the transaction update. An amount change moves the
// wallet by the net difference in one write per affected wallet.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	transaction, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if transaction.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to update this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	// Children are edited through the bundle endpoints so the parent total
	// stays in sync.
	if transaction.IsChild() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionIsChild,
			"bundle children are edited through the parent's children endpoint",
			domainerror.ErrTransactionIsChild,
		)
	}

	oldAmount := transaction.Amount

	if input.Amount != nil && !input.Amount.Equal(oldAmount) {
		// A parent's amount is the cached sum of its children.
		if transaction.IsBundle() {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeBundleAmountLocked,
				"bundle amount is derived from its children and cannot be edited directly",
				domainerror.ErrBundleAmountLocked,
			)
		}
		if input.Amount.IsNegative() {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionAmount,
				"transaction amount must not be negative",
				domainerror.ErrInvalidTransactionAmount,
			)
		}
		transaction.Amount = *input.Amount
	}

	if input.Date != nil {
		transaction.Date = *input.Date
	}
	if input.Description != nil {
		if len(*input.Description) > MaxDescriptionLength {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeDescriptionTooLong,
				fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
				domainerror.ErrDescriptionTooLong,
			)
		}
		transaction.Description = *input.Description
	}
	if input.Category != nil {
		transaction.Category = *input.Category
	}
	if input.Subcategory != nil {
		transaction.Subcategory = *input.Subcategory
	}

	transaction.UpdatedAt = time.Now().UTC()

	err = uc.transactionRepo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error {
		if err := txRepo.Update(ctx, transaction); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if !transaction.Amount.Equal(oldAmount) {
			engine := uc.balanceEngine.WithRepositories(walletRepo, txRepo)
			if err := engine.ApplyDelta(ctx, transaction, oldAmount, transaction.Amount); err != nil {
				return fmt.Errorf("failed to adjust wallet balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateTransactionOutput{Transaction: ToTransactionOutput(transaction)}, nil
}
