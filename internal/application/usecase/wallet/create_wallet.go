// Package wallet contains wallet-related use cases.
package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// MaxWalletNameLength is the maximum allowed length for wallet names.
const MaxWalletNameLength = 100

// CreateWalletInput represents the input for wallet creation.
type CreateWalletInput struct {
	UserID         uuid.UUID
	Name           string
	Type           entity.WalletType
	OpeningBalance decimal.Decimal
}

// CreateWalletOutput represents the output of wallet creation.
type CreateWalletOutput struct {
	Wallet *WalletOutput
}

// CreateWalletUseCase handles wallet creation logic.
type CreateWalletUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewCreateWalletUseCase creates a new CreateWalletUseCase instance.
func NewCreateWalletUseCase(walletRepo adapter.WalletRepository) *CreateWalletUseCase {
	return &CreateWalletUseCase{walletRepo: walletRepo}
}

// Execute performs the wallet creation.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, input CreateWalletInput) (*CreateWalletOutput, error) {
	if input.Name == "" {
		return nil, domainerror.NewWalletError(
			domainerror.ErrCodeWalletNameRequired,
			"wallet name is required",
			domainerror.ErrWalletNameRequired,
		)
	}

	if len(input.Name) > MaxWalletNameLength {
		return nil, domainerror.NewWalletError(
			domainerror.ErrCodeWalletNameRequired,
			fmt.Sprintf("wallet name must not exceed %d characters", MaxWalletNameLength),
			domainerror.ErrWalletNameRequired,
		)
	}

	if !isValidWalletType(input.Type) {
		return nil, domainerror.NewWalletError(
			domainerror.ErrCodeInvalidWalletType,
			"wallet type must be one of checking, savings, credit_card, investment, cash, other",
			domainerror.ErrInvalidWalletType,
		)
	}

	wallet := entity.NewWallet(input.UserID, input.Name, input.Type, input.OpeningBalance)

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return &CreateWalletOutput{Wallet: toWalletOutput(wallet)}, nil
}

// isValidWalletType validates the wallet type.
func isValidWalletType(walletType entity.WalletType) bool {
	switch walletType {
	case entity.WalletTypeChecking,
		entity.WalletTypeSavings,
		entity.WalletTypeCreditCard,
		entity.WalletTypeInvestment,
		entity.WalletTypeCash,
		entity.WalletTypeOther:
		return true
	}
	return false
}
