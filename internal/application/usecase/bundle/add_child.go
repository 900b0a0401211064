// Package bundle contains the bundle aggregator use cases. A bundle is a
// parent transaction whose amount is the cached sum of its children's
// line totals. Every mutation here runs inside one storage transaction so
// the child row, the parent's cached total and the wallet balance move
// together.
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

// AddChildInput represents the input for adding a line item to a bundle.
type AddChildInput struct {
	ParentID    uuid.UUID
	UserID      uuid.UUID
	Description string
	Amount      decimal.Decimal
	Quantity    int
	Category    string
	Subcategory string
}

// AddChildOutput represents the output of adding a line item.
type AddChildOutput struct {
	Child  *transaction.TransactionOutput
	Parent *transaction.TransactionOutput
}

// AddChildUseCase handles adding a child line item to a parent transaction.
type AddChildUseCase struct {
	transactionRepo adapter.TransactionRepository
	balanceEngine   *balance.Engine
}

// NewAddChildUseCase creates a new AddChildUseCase instance.
func NewAddChildUseCase(
	transactionRepo adapter.TransactionRepository,
	balanceEngine *balance.Engine,
) *AddChildUseCase {
	return &AddChildUseCase{
		transactionRepo: transactionRepo,
		balanceEngine:   balanceEngine,
	}
}

// Execute performs the child addition. The first child turns the parent
// into a bundle: its standalone amount is stashed so removing the last
// child later restores it exactly.
func (uc *AddChildUseCase) Execute(ctx context.Context, input AddChildInput) (*AddChildOutput, error) {
	if input.Quantity < 1 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidQuantity,
			"quantity must be positive",
			domainerror.ErrInvalidQuantity,
		)
	}
	if input.Amount.IsNegative() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"child amount must not be negative",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	parent, err := loadParent(ctx, uc.transactionRepo, input.ParentID, input.UserID)
	if err != nil {
		return nil, err
	}

	child := entity.NewTransaction(
		input.UserID,
		parent.WalletID,
		parent.Date,
		input.Description,
		input.Amount,
		parent.Type,
		input.Category,
	)
	child.Subcategory = input.Subcategory
	child.Quantity = input.Quantity
	child.ParentID = &parent.ID

	err = uc.transactionRepo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error {
		if err := txRepo.Create(ctx, child); err != nil {
			return fmt.Errorf("failed to create child transaction: %w", err)
		}
		return recomputeParent(ctx, txRepo, walletRepo, uc.balanceEngine, parent)
	})
	if err != nil {
		return nil, err
	}

	return &AddChildOutput{
		Child:  transaction.ToTransactionOutput(child),
		Parent: transaction.ToTransactionOutput(parent),
	}, nil
}

// loadParent fetches and validates the bundle parent.
func loadParent(ctx context.Context, repo adapter.TransactionRepository, parentID uuid.UUID, userID uuid.UUID) (*entity.Transaction, error) {
	parent, err := repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find parent transaction: %w", err)
	}

	if parent.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	// A child cannot itself become a bundle; nesting stops at one level.
	if parent.IsChild() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionIsChild,
			"a bundle child cannot have children of its own",
			domainerror.ErrTransactionIsChild,
		)
	}

	return parent, nil
}

// recomputeParent recalculates the parent's cached total from its children
// and moves the wallet by the net difference. Called with transactional
// repositories after the child mutation has been written. The parent entity
// is updated in place.
func recomputeParent(
	ctx context.Context,
	txRepo adapter.TransactionRepository,
	walletRepo adapter.WalletRepository,
	balanceEngine *balance.Engine,
	parent *entity.Transaction,
) error {
	children, err := txRepo.FindChildren(ctx, parent.ID, parent.UserID)
	if err != nil {
		return fmt.Errorf("failed to load bundle children: %w", err)
	}

	oldAmount := parent.Amount

	if len(children) == 0 {
		// Last child removed: restore the stashed standalone amount.
		restored := oldAmount
		if parent.PrebundleAmount != nil {
			restored = *parent.PrebundleAmount
		}
		parent.Amount = restored
		parent.HasChildren = false
		parent.ChildrenCount = 0
		parent.PrebundleAmount = nil
	} else {
		if !parent.HasChildren && parent.PrebundleAmount == nil {
			// First child: stash the standalone amount.
			stashed := oldAmount
			parent.PrebundleAmount = &stashed
		}
		total := decimal.Zero
		for _, child := range children {
			total = total.Add(child.LineTotal())
		}
		parent.Amount = total
		parent.HasChildren = true
		parent.ChildrenCount = len(children)
	}

	parent.UpdatedAt = time.Now().UTC()

	if err := txRepo.Update(ctx, parent); err != nil {
		return fmt.Errorf("failed to update parent transaction: %w", err)
	}

	engine := balanceEngine.WithRepositories(walletRepo, txRepo)
	if err := engine.ApplyDelta(ctx, parent, oldAmount, parent.Amount); err != nil {
		return fmt.Errorf("failed to adjust wallet balance: %w", err)
	}

	return nil
}
