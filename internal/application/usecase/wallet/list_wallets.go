// Package wallet contains wallet-related use cases.
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// WalletOutput represents wallet data in use case outputs.
type WalletOutput struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      entity.WalletType
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// toWalletOutput maps a wallet entity to its output representation.
func toWalletOutput(wallet *entity.Wallet) *WalletOutput {
	return &WalletOutput{
		ID:        wallet.ID,
		UserID:    wallet.UserID,
		Name:      wallet.Name,
		Type:      wallet.Type,
		Balance:   wallet.Balance,
		CreatedAt: wallet.CreatedAt,
		UpdatedAt: wallet.UpdatedAt,
	}
}

// ListWalletsInput represents the input for listing wallets.
type ListWalletsInput struct {
	UserID uuid.UUID
}

// ListWalletsOutput represents the output of listing wallets.
type ListWalletsOutput struct {
	Wallets []*WalletOutput
	// Total is the sum of all wallet balances, the user's net position.
	Total decimal.Decimal
}

// ListWalletsUseCase handles wallet listing logic.
type ListWalletsUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewListWalletsUseCase creates a new ListWalletsUseCase instance.
func NewListWalletsUseCase(walletRepo adapter.WalletRepository) *ListWalletsUseCase {
	return &ListWalletsUseCase{walletRepo: walletRepo}
}

// Execute performs the wallet listing.
func (uc *ListWalletsUseCase) Execute(ctx context.Context, input ListWalletsInput) (*ListWalletsOutput, error) {
	wallets, err := uc.walletRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	output := &ListWalletsOutput{
		Wallets: make([]*WalletOutput, 0, len(wallets)),
		Total:   decimal.Zero,
	}
	for _, wallet := range wallets {
		output.Wallets = append(output.Wallets, toWalletOutput(wallet))
		output.Total = output.Total.Add(wallet.Balance)
	}

	return output, nil
}
