// Package bundle contains the bundle aggregator use cases.
package bundle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	"github.com/wallet-ledger/backend/internal/application/usecase/transaction"
)

// RemoveChildInput represents the input for removing a bundle line item.
type RemoveChildInput struct {
	ParentID uuid.UUID
	ChildID  uuid.UUID
	UserID   uuid.UUID
}

// RemoveChildOutput represents the output of removing a line item.
type RemoveChildOutput struct {
	Parent *transaction.TransactionOutput
}

// RemoveChildUseCase handles removing a child line item from a bundle.
type RemoveChildUseCase struct {
	transactionRepo adapter.TransactionRepository
	balanceEngine   *balance.Engine
}

// NewRemoveChildUseCase creates a new RemoveChildUseCase instance.
func NewRemoveChildUseCase(
	transactionRepo adapter.TransactionRepository,
	balanceEngine *balance.Engine,
) *RemoveChildUseCase {
	return &RemoveChildUseCase{
		transactionRepo: transactionRepo,
		balanceEngine:   balanceEngine,
	}
}

// Execute performs the child removal. Removing the last child demotes the
// parent back to a standalone transaction with its stashed original amount.
func (uc *RemoveChildUseCase) Execute(ctx context.Context, input RemoveChildInput) (*RemoveChildOutput, error) {
	parent, err := loadParent(ctx, uc.transactionRepo, input.ParentID, input.UserID)
	if err != nil {
		return nil, err
	}

	child, err := loadChild(ctx, uc.transactionRepo, parent, input.ChildID)
	if err != nil {
		return nil, err
	}

	err = uc.transactionRepo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error {
		if err := txRepo.Delete(ctx, child.ID); err != nil {
			return fmt.Errorf("failed to delete child transaction: %w", err)
		}
		return recomputeParent(ctx, txRepo, walletRepo, uc.balanceEngine, parent)
	})
	if err != nil {
		return nil, err
	}

	return &RemoveChildOutput{Parent: transaction.ToTransactionOutput(parent)}, nil
}
