// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	UserID    uuid.UUID
	WalletID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      *entity.TransactionType
	Category  string
	Search    string // Case-insensitive description match
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves top-level (non-child) transactions based on
	// filter criteria with pagination, newest first.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// FindByWallet retrieves every transaction referencing the wallet as
	// source or as transfer destination. Bundle children are excluded: only
	// the parent's cached total affects wallet balance. This is the scan
	// behind the full balance recalculation.
	FindByWallet(ctx context.Context, walletID uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error)

	// FindChildren retrieves all children of a parent transaction, ordered
	// by description.
	FindChildren(ctx context.Context, parentID uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteChildren soft-deletes every child of a parent transaction.
	// Returns the count of deleted children.
	DeleteChildren(ctx context.Context, parentID uuid.UUID, userID uuid.UUID) (int64, error)

	// ExistsByWallet checks whether any transaction still references the
	// wallet as source or transfer destination.
	ExistsByWallet(ctx context.Context, walletID uuid.UUID, userID uuid.UUID) (bool, error)

	// RunInTransaction executes fn inside one storage transaction. The
	// repositories passed to fn operate on the transactional connection, so
	// a child mutation, the parent recompute and the wallet balance write
	// commit or roll back as a unit.
	RunInTransaction(ctx context.Context, fn func(txRepo TransactionRepository, walletRepo WalletRepository) error) error
}
