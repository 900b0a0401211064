// Package balance implements the wallet balance engine. Every transaction
// mutation routes through it so that wallet balances stay the exact sum of
// the transactions that reference them.
package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// Engine applies transaction effects to wallet balances. It holds no state
// of its own; all writes go through the wallet repository's atomic
// increment so concurrent mutations cannot lose updates.
type Engine struct {
	walletRepo      adapter.WalletRepository
	transactionRepo adapter.TransactionRepository
}

// NewEngine creates a new balance Engine instance.
func NewEngine(walletRepo adapter.WalletRepository, transactionRepo adapter.TransactionRepository) *Engine {
	return &Engine{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
	}
}

// WithRepositories returns an Engine bound to the given repositories. Used
// inside storage transactions, where the callback receives transactional
// repository handles.
func (e *Engine) WithRepositories(walletRepo adapter.WalletRepository, transactionRepo adapter.TransactionRepository) *Engine {
	return &Engine{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
	}
}

// Apply records the balance effect of a transaction: income credits the
// wallet, expense debits it, transfer debits the source and credits the
// destination. Bundle children carry no effect of their own and must not
// be passed here.
func (e *Engine) Apply(ctx context.Context, transaction *entity.Transaction) error {
	return e.shift(ctx, transaction, transaction.Amount)
}

// Revert undoes the balance effect of a transaction, restoring every
// affected wallet to the balance it would hold had the transaction never
// existed. Revert(Apply(t)) is an exact no-op.
func (e *Engine) Revert(ctx context.Context, transaction *entity.Transaction) error {
	return e.shift(ctx, transaction, transaction.Amount.Neg())
}

// ApplyDelta adjusts wallets for an amount change on an existing
// transaction. It writes the net difference (new minus old) in a single
// increment per wallet instead of reverting the old amount and applying
// the new one, so the balance is never observable in a half-updated state.
func (e *Engine) ApplyDelta(ctx context.Context, transaction *entity.Transaction, oldAmount, newAmount decimal.Decimal) error {
	return e.shift(ctx, transaction, newAmount.Sub(oldAmount))
}

// shift moves `amount` through the wallet(s) according to the transaction
// type. A zero amount writes nothing.
func (e *Engine) shift(ctx context.Context, transaction *entity.Transaction, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}

	switch transaction.Type {
	case entity.TransactionTypeIncome:
		if err := e.walletRepo.IncrementBalance(ctx, transaction.WalletID, transaction.UserID, amount); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
	case entity.TransactionTypeExpense:
		if err := e.walletRepo.IncrementBalance(ctx, transaction.WalletID, transaction.UserID, amount.Neg()); err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}
	case entity.TransactionTypeTransfer:
		if transaction.ToWalletID == nil {
			return fmt.Errorf("transfer transaction %s has no destination wallet", transaction.ID)
		}
		if err := e.walletRepo.IncrementBalance(ctx, transaction.WalletID, transaction.UserID, amount.Neg()); err != nil {
			return fmt.Errorf("failed to debit source wallet: %w", err)
		}
		if err := e.walletRepo.IncrementBalance(ctx, *transaction.ToWalletID, transaction.UserID, amount); err != nil {
			return fmt.Errorf("failed to credit destination wallet: %w", err)
		}
	default:
		return fmt.Errorf("unknown transaction type %q", transaction.Type)
	}

	return nil
}

// Recalculate rebuilds a wallet's balance from scratch by folding every
// transaction that references it, as source or as transfer destination,
// and overwrites the stored balance with the result. Bundle children are
// excluded from the scan; only the parent's cached total counts.
func (e *Engine) Recalculate(ctx context.Context, walletID uuid.UUID, userID uuid.UUID) (decimal.Decimal, error) {
	transactions, err := e.transactionRepo.FindByWallet(ctx, walletID, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load wallet transactions: %w", err)
	}

	balance := decimal.Zero
	for _, transaction := range transactions {
		switch transaction.Type {
		case entity.TransactionTypeIncome:
			balance = balance.Add(transaction.Amount)
		case entity.TransactionTypeExpense:
			balance = balance.Sub(transaction.Amount)
		case entity.TransactionTypeTransfer:
			if transaction.WalletID == walletID {
				balance = balance.Sub(transaction.Amount)
			}
			if transaction.ToWalletID != nil && *transaction.ToWalletID == walletID {
				balance = balance.Add(transaction.Amount)
			}
		}
	}

	if err := e.walletRepo.SetBalance(ctx, walletID, userID, balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to store recalculated balance: %w", err)
	}

	return balance, nil
}
