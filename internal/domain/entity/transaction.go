// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a financial event against a wallet.
//
// A transaction is one of three things:
//   - a leaf transaction with a self-contained, balance-affecting amount;
//   - a parent (bundle) transaction whose Amount is the cached sum of its
//     children's Amount*Quantity and HasChildren is true;
//   - a child transaction (ParentID set) that contributes to its parent's
//     cached total but never touches wallet balances directly.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	WalletID    uuid.UUID
	ToWalletID  *uuid.UUID // Destination wallet, transfers only
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Quantity    int // Line-item multiplier, defaults to 1
	Type        TransactionType
	Category    string
	Subcategory string

	// Bundle fields. PrebundleAmount stores the standalone amount the
	// parent held before it gained its first child, so removing the last
	// child restores a well-defined value instead of a shadowed leftover.
	ParentID        *uuid.UUID
	HasChildren     bool
	ChildrenCount   int
	PrebundleAmount *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewTransaction creates a new leaf Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	walletID uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	category string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		WalletID:    walletID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Quantity:    1,
		Type:        transactionType,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsChild reports whether the transaction is a line item under a bundle.
func (t *Transaction) IsChild() bool {
	return t.ParentID != nil
}

// IsBundle reports whether the transaction currently acts as a parent whose
// amount is the cached sum of its children.
func (t *Transaction) IsBundle() bool {
	return t.HasChildren
}

// LineTotal returns Amount*Quantity, the child's contribution to its
// parent's cached total. Quantity zero is treated as 1.
func (t *Transaction) LineTotal() decimal.Decimal {
	quantity := t.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return t.Amount.Mul(decimal.NewFromInt(int64(quantity)))
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
