// Package bundle contains the bundle aggregator use cases.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	"github.com/wallet-ledger/backend/internal/application/usecase/transaction"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// UpdateChildInput represents the input for editing a bundle line item.
type UpdateChildInput struct {
	ParentID    uuid.UUID
	ChildID     uuid.UUID
	UserID      uuid.UUID
	Description *string
	Amount      *decimal.Decimal
	Quantity    *int
	Category    *string
	Subcategory *string
}

// UpdateChildOutput represents the output of editing a line item.
type UpdateChildOutput struct {
	Child  *transaction.TransactionOutput
	Parent *transaction.TransactionOutput
}

// UpdateChildUseCase handles editing a child line item.
type UpdateChildUseCase struct {
	transactionRepo adapter.TransactionRepository
	balanceEngine   *balance.Engine
}

// NewUpdateChildUseCase creates a new UpdateChildUseCase instance.
func NewUpdateChildUseCase(
	transactionRepo adapter.TransactionRepository,
	balanceEngine *balance.Engine,
) *UpdateChildUseCase {
	return &UpdateChildUseCase{
		transactionRepo: transactionRepo,
		balanceEngine:   balanceEngine,
	}
}

// Execute performs the child update and reprices the parent.
func (uc *UpdateChildUseCase) Execute(ctx context.Context, input UpdateChildInput) (*UpdateChildOutput, error) {
	parent, err := loadParent(ctx, uc.transactionRepo, input.ParentID, input.UserID)
	if err != nil {
		return nil, err
	}

	child, err := loadChild(ctx, uc.transactionRepo, parent, input.ChildID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTransactionAmount,
				"child amount must not be negative",
				domainerror.ErrInvalidTransactionAmount,
			)
		}
		child.Amount = *input.Amount
	}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidQuantity,
				"quantity must be positive",
				domainerror.ErrInvalidQuantity,
			)
		}
		child.Quantity = *input.Quantity
	}
	if input.Description != nil {
		child.Description = *input.Description
	}
	if input.Category != nil {
		child.Category = *input.Category
	}
	if input.Subcategory != nil {
		child.Subcategory = *input.Subcategory
	}
	child.UpdatedAt = time.Now().UTC()

	err = uc.transactionRepo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error {
		if err := txRepo.Update(ctx, child); err != nil {
			return fmt.Errorf("failed to update child transaction: %w", err)
		}
		return recomputeParent(ctx, txRepo, walletRepo, uc.balanceEngine, parent)
	})
	if err != nil {
		return nil, err
	}

	return &UpdateChildOutput{
		Child:  transaction.ToTransactionOutput(child),
		Parent: transaction.ToTransactionOutput(parent),
	}, nil
}

// loadChild fetches a child and verifies it belongs to the given parent.
func loadChild(ctx context.Context, repo adapter.TransactionRepository, parent *entity.Transaction, childID uuid.UUID) (*entity.Transaction, error) {
	child, err := repo.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"child transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find child transaction: %w", err)
	}

	if child.ParentID == nil || *child.ParentID != parent.ID || child.UserID != parent.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotChild,
			"transaction is not a child of this bundle",
			domainerror.ErrTransactionNotChild,
		)
	}

	return child, nil
}
