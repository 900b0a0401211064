// Package bundle contains the bundle aggregator use cases.
package bundle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/transaction"
)

// ListChildrenInput represents the input for listing a bundle's line items.
type ListChildrenInput struct {
	ParentID uuid.UUID
	UserID   uuid.UUID
}

// ListChildrenOutput represents the output of listing line items.
type ListChildrenOutput struct {
	Parent   *transaction.TransactionOutput
	Children []*transaction.TransactionOutput
}

// ListChildrenUseCase handles reading a bundle with its line items.
type ListChildrenUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListChildrenUseCase creates a new ListChildrenUseCase instance.
func NewListChildrenUseCase(transactionRepo adapter.TransactionRepository) *ListChildrenUseCase {
	return &ListChildrenUseCase{transactionRepo: transactionRepo}
}

// Execute performs the listing.
func (uc *ListChildrenUseCase) Execute(ctx context.Context, input ListChildrenInput) (*ListChildrenOutput, error) {
	parent, err := loadParent(ctx, uc.transactionRepo, input.ParentID, input.UserID)
	if err != nil {
		return nil, err
	}

	children, err := uc.transactionRepo.FindChildren(ctx, parent.ID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle children: %w", err)
	}

	output := &ListChildrenOutput{
		Parent:   transaction.ToTransactionOutput(parent),
		Children: make([]*transaction.TransactionOutput, 0, len(children)),
	}
	for _, child := range children {
		output.Children = append(output.Children, transaction.ToTransactionOutput(child))
	}

	return output, nil
}
