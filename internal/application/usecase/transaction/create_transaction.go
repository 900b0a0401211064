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
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
const MaxDescriptionLength = 255

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	WalletID    uuid.UUID
	ToWalletID  *uuid.UUID // Transfers only
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	Category    string
	Subcategory string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *TransactionOutput
}

// CreateTransactionUseCase handles transaction creation logic. Every created
// transaction flows through the balance engine so the wallet totals stay
// consistent with the ledger.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	walletRepo      adapter.WalletRepository
	balanceEngine   *balance.Engine
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	walletRepo adapter.WalletRepository,
	balanceEngine *balance.Engine,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		balanceEngine:   balanceEngine,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if err := validateTransactionInput(input.Description, input.Amount, input.Type, input.WalletID, input.ToWalletID); err != nil {
		return nil, err
	}

	// Source wallet must exist and belong to the user.
	if _, err := uc.walletRepo.FindByID(ctx, input.WalletID, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrWalletNotFound) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNotFound,
				"wallet not found",
				domainerror.ErrWalletNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}

	// Same check for the transfer destination.
	if input.Type == entity.TransactionTypeTransfer {
		if _, err := uc.walletRepo.FindByID(ctx, *input.ToWalletID, input.UserID); err != nil {
			if errors.Is(err, domainerror.ErrWalletNotFound) {
				return nil, domainerror.NewWalletError(
					domainerror.ErrCodeWalletNotFound,
					"destination wallet not found",
					domainerror.ErrWalletNotFound,
				)
			}
			return nil, fmt.Errorf("failed to find destination wallet: %w", err)
		}
	}

	transaction := entity.NewTransaction(
		input.UserID,
		input.WalletID,
		input.Date,
		input.Description,
		input.Amount,
		input.Type,
		input.Category,
	)
	transaction.Subcategory = input.Subcategory
	if input.Type == entity.TransactionTypeTransfer {
		transaction.ToWalletID = input.ToWalletID
	}

	err := uc.transactionRepo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error {
		if err := txRepo.Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		engine := uc.balanceEngine.WithRepositories(walletRepo, txRepo)
		if err := engine.Apply(ctx, transaction); err != nil {
			return fmt.Errorf("failed to apply balance effect: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateTransactionOutput{Transaction: ToTransactionOutput(transaction)}, nil
}

// validateTransactionInput enforces the shared leaf transaction rules.
func validateTransactionInput(
	description string,
	amount decimal.Decimal,
	transactionType entity.TransactionType,
	walletID uuid.UUID,
	toWalletID *uuid.UUID,
) error {
	if len(description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	if !isValidTransactionType(transactionType) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'income', 'expense' or 'transfer'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if amount.IsNegative() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"transaction amount must not be negative",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if transactionType == entity.TransactionTypeTransfer {
		if toWalletID == nil {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTransferDestination,
				"transfer requires a destination wallet",
				domainerror.ErrTransferDestinationRequired,
			)
		}
		if *toWalletID == walletID {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTransferSameWallet,
				"transfer source and destination wallets must differ",
				domainerror.ErrTransferSameWallet,
			)
		}
	}

	return nil
}

// isValidTransactionType validates the transaction type.
func isValidTransactionType(transactionType entity.TransactionType) bool {
	return transactionType == entity.TransactionTypeIncome ||
		transactionType == entity.TransactionTypeExpense ||
		transactionType == entity.TransactionTypeTransfer
}
