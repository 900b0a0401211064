// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletType represents the kind of account a wallet models.
type WalletType string

const (
	WalletTypeChecking   WalletType = "checking"
	WalletTypeSavings    WalletType = "savings"
	WalletTypeCreditCard WalletType = "credit_card"
	WalletTypeInvestment WalletType = "investment"
	WalletTypeCash       WalletType = "cash"
	WalletTypeOther      WalletType = "other"
)

// Wallet represents a named balance-holding account belonging to one user.
//
// Balance is a derived but persisted running total. It is maintained
// incrementally by the balance engine and can be rebuilt from the wallet's
// full transaction history at any time.
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      WalletType
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewWallet creates a new Wallet entity with an optional opening balance.
func NewWallet(userID uuid.UUID, name string, walletType WalletType, openingBalance decimal.Decimal) *Wallet {
	now := time.Now().UTC()

	return &Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      walletType,
		Balance:   openingBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
