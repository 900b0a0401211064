// Package wallet contains wallet-related use cases.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// RecalculateBalanceInput represents the input for balance recalculation.
type RecalculateBalanceInput struct {
	WalletID uuid.UUID
	UserID   uuid.UUID
}

// RecalculateBalanceOutput represents the output of balance recalculation.
type RecalculateBalanceOutput struct {
	WalletID        uuid.UUID
	PreviousBalance decimal.Decimal
	Balance         decimal.Decimal
	// Drift is the difference the repair corrected. Zero means the stored
	// balance already matched the transaction history.
	Drift decimal.Decimal
}

// RecalculateBalanceUseCase rebuilds a wallet's stored balance from its
// transaction history.
type RecalculateBalanceUseCase struct {
	walletRepo    adapter.WalletRepository
	balanceEngine *balance.Engine
}

// NewRecalculateBalanceUseCase creates a new RecalculateBalanceUseCase instance.
func NewRecalculateBalanceUseCase(
	walletRepo adapter.WalletRepository,
	balanceEngine *balance.Engine,
) *RecalculateBalanceUseCase {
	return &RecalculateBalanceUseCase{
		walletRepo:    walletRepo,
		balanceEngine: balanceEngine,
	}
}

// Execute performs the balance recalculation.
func (uc *RecalculateBalanceUseCase) Execute(ctx context.Context, input RecalculateBalanceInput) (*RecalculateBalanceOutput, error) {
	wallet, err := uc.walletRepo.FindByID(ctx, input.WalletID, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrWalletNotFound) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNotFound,
				"wallet not found",
				domainerror.ErrWalletNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}

	previous := wallet.Balance

	recalculated, err := uc.balanceEngine.Recalculate(ctx, input.WalletID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to recalculate balance: %w", err)
	}

	drift := recalculated.Sub(previous)
	if !drift.IsZero() {
		slog.Warn("Wallet balance drift corrected",
			"walletID", input.WalletID,
			"previousBalance", previous,
			"recalculatedBalance", recalculated,
			"drift", drift,
		)
	}

	return &RecalculateBalanceOutput{
		WalletID:        input.WalletID,
		PreviousBalance: previous,
		Balance:         recalculated,
		Drift:           drift,
	}, nil
}
