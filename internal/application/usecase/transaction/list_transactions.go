// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

const (
	// DefaultPageLimit is the default number of transactions per page.
	DefaultPageLimit = 50
	// MaxPageLimit is the maximum number of transactions per page.
	MaxPageLimit = 200
)

// TransactionOutput represents transaction data in use case outputs.
type TransactionOutput struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	WalletID        uuid.UUID
	ToWalletID      *uuid.UUID
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	Quantity        int
	Type            entity.TransactionType
	Category        string
	Subcategory     string
	ParentID        *uuid.UUID
	HasChildren     bool
	ChildrenCount   int
	PrebundleAmount *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ToTransactionOutput maps a transaction entity to its output representation.
func ToTransactionOutput(txn *entity.Transaction) *TransactionOutput {
	return &TransactionOutput{
		ID:              txn.ID,
		UserID:          txn.UserID,
		WalletID:        txn.WalletID,
		ToWalletID:      txn.ToWalletID,
		Date:            txn.Date,
		Description:     txn.Description,
		Amount:          txn.Amount,
		Quantity:        txn.Quantity,
		Type:            txn.Type,
		Category:        txn.Category,
		Subcategory:     txn.Subcategory,
		ParentID:        txn.ParentID,
		HasChildren:     txn.HasChildren,
		ChildrenCount:   txn.ChildrenCount,
		PrebundleAmount: txn.PrebundleAmount,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.UpdatedAt,
	}
}

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID    uuid.UUID
	WalletID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      *entity.TransactionType
	Category  string
	Search    string
	Page      int
	Limit     int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}

// ListTransactionsUseCase handles transaction listing logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactionRepo: transactionRepo}
}

// Execute performs the transaction listing. Only top-level transactions are
// returned; bundle children are fetched through the children endpoint.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	filter := adapter.TransactionFilter{
		UserID:    input.UserID,
		WalletID:  input.WalletID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Type:      input.Type,
		Category:  input.Category,
		Search:    input.Search,
	}
	pagination := adapter.TransactionPagination{Page: page, Limit: limit}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	output := &ListTransactionsOutput{
		Transactions: make([]*TransactionOutput, 0, len(result.Transactions)),
		Total:        result.Total,
		Page:         page,
		Limit:        limit,
		TotalPages:   int((result.Total + int64(limit) - 1) / int64(limit)),
	}
	for _, txn := range result.Transactions {
		output.Transactions = append(output.Transactions, ToTransactionOutput(txn))
	}

	return output, nil
}
