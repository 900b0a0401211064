// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// WalletRepository defines the interface for wallet persistence operations.
type WalletRepository interface {
	// Create creates a new wallet in the database.
	Create(ctx context.Context, wallet *entity.Wallet) error

	// FindByID retrieves a wallet by its ID, scoped to the owning user.
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Wallet, error)

	// FindByUser retrieves all wallets for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Wallet, error)

	// Update updates an existing wallet in the database.
	Update(ctx context.Context, wallet *entity.Wallet) error

	// Delete soft-deletes a wallet from the database.
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// IncrementBalance atomically adds delta to the wallet's stored balance
	// in a single UPDATE. This is the incremental path the balance engine
	// relies on; it must not read-modify-write the balance in Go.
	IncrementBalance(ctx context.Context, id uuid.UUID, userID uuid.UUID, delta decimal.Decimal) error

	// SetBalance overwrites the wallet's stored balance. Used by the full
	// recalculation repair path.
	SetBalance(ctx context.Context, id uuid.UUID, userID uuid.UUID, balance decimal.Decimal) error
}
