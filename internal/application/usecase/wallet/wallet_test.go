// Package wallet contains wallet-related use cases.
package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	"github.com/wallet-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates a wallet with its opening balance", func(t *testing.T) {
		repo := usecasetest.NewWalletRepo()
		uc := NewCreateWalletUseCase(repo)

		out, err := uc.Execute(ctx, CreateWalletInput{
			UserID:         userID,
			Name:           "Checking",
			Type:           entity.WalletTypeChecking,
			OpeningBalance: decimal.NewFromInt(1500),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if out.Wallet.ID == uuid.Nil {
			t.Error("expected wallet ID to be set")
		}
		if !out.Wallet.Balance.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("expected balance 1500, got %s", out.Wallet.Balance)
		}
		if len(repo.Wallets) != 1 {
			t.Errorf("expected 1 persisted wallet, got %d", len(repo.Wallets))
		}
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		uc := NewCreateWalletUseCase(usecasetest.NewWalletRepo())

		if _, err := uc.Execute(ctx, CreateWalletInput{
			UserID: userID,
			Type:   entity.WalletTypeCash,
		}); err == nil {
			t.Error("expected error for empty name")
		}
	})

	t.Run("rejects an unknown wallet type", func(t *testing.T) {
		uc := NewCreateWalletUseCase(usecasetest.NewWalletRepo())

		if _, err := uc.Execute(ctx, CreateWalletInput{
			UserID: userID,
			Name:   "Mystery",
			Type:   entity.WalletType("shoebox"),
		}); err == nil {
			t.Error("expected error for unknown wallet type")
		}
	})
}

func TestListWallets(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("sums balances into the net position", func(t *testing.T) {
		checking := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.NewFromInt(1000))
		savings := entity.NewWallet(userID, "Savings", entity.WalletTypeSavings, decimal.RequireFromString("250.50"))
		other := entity.NewWallet(uuid.New(), "Not Mine", entity.WalletTypeCash, decimal.NewFromInt(999))
		uc := NewListWalletsUseCase(usecasetest.NewWalletRepo(checking, savings, other))

		out, err := uc.Execute(ctx, ListWalletsInput{UserID: userID})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(out.Wallets) != 2 {
			t.Fatalf("expected 2 wallets, got %d", len(out.Wallets))
		}
		if !out.Total.Equal(decimal.RequireFromString("1250.50")) {
			t.Errorf("expected total 1250.50, got %s", out.Total)
		}
	})
}

func TestUpdateWallet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("renames a wallet", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Old Name", entity.WalletTypeChecking, decimal.Zero)
		uc := NewUpdateWalletUseCase(usecasetest.NewWalletRepo(wallet))

		name := "New Name"
		out, err := uc.Execute(ctx, UpdateWalletInput{
			WalletID: wallet.ID,
			UserID:   userID,
			Name:     &name,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if out.Wallet.Name != "New Name" {
			t.Errorf("expected name New Name, got %s", out.Wallet.Name)
		}
	})

	t.Run("rejects an invalid type change", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		uc := NewUpdateWalletUseCase(usecasetest.NewWalletRepo(wallet))

		bad := entity.WalletType("shoebox")
		if _, err := uc.Execute(ctx, UpdateWalletInput{
			WalletID: wallet.ID,
			UserID:   userID,
			Type:     &bad,
		}); err == nil {
			t.Error("expected error for invalid wallet type")
		}
	})

	t.Run("another user's wallet is not found", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		uc := NewUpdateWalletUseCase(usecasetest.NewWalletRepo(wallet))

		name := "Hijacked"
		if _, err := uc.Execute(ctx, UpdateWalletInput{
			WalletID: wallet.ID,
			UserID:   uuid.New(),
			Name:     &name,
		}); err == nil {
			t.Error("expected not found error")
		}
	})
}

func TestDeleteWallet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("deletes a wallet without transactions", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Doomed", entity.WalletTypeSavings, decimal.Zero)
		walletRepo := usecasetest.NewWalletRepo(wallet)
		transactionRepo := usecasetest.NewTransactionRepo(walletRepo)
		uc := NewDeleteWalletUseCase(walletRepo, transactionRepo)

		if err := uc.Execute(ctx, DeleteWalletInput{WalletID: wallet.ID, UserID: userID}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if len(walletRepo.Wallets) != 0 {
			t.Errorf("expected 0 wallets, got %d", len(walletRepo.Wallets))
		}
	})

	t.Run("refuses to delete a wallet with transactions", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Busy", entity.WalletTypeChecking, decimal.NewFromInt(500))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		txn := entity.NewTransaction(userID, wallet.ID, time.Now(), "groceries",
			decimal.NewFromInt(45), entity.TransactionTypeExpense, "food")
		transactionRepo := usecasetest.NewTransactionRepo(walletRepo, txn)
		uc := NewDeleteWalletUseCase(walletRepo, transactionRepo)

		if err := uc.Execute(ctx, DeleteWalletInput{WalletID: wallet.ID, UserID: userID}); err == nil {
			t.Error("expected error for wallet with transactions")
		}
		if len(walletRepo.Wallets) != 1 {
			t.Errorf("expected wallet to survive, got %d wallets", len(walletRepo.Wallets))
		}
	})
}

func TestRecalculateBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("reports zero drift on a consistent wallet", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Audited", entity.WalletTypeChecking, decimal.NewFromInt(300))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		income := entity.NewTransaction(userID, wallet.ID, time.Now(), "salary",
			decimal.NewFromInt(500), entity.TransactionTypeIncome, "salary")
		expense := entity.NewTransaction(userID, wallet.ID, time.Now(), "rent",
			decimal.NewFromInt(200), entity.TransactionTypeExpense, "housing")
		transactionRepo := usecasetest.NewTransactionRepo(walletRepo, income, expense)
		engine := balance.NewEngine(walletRepo, transactionRepo)
		uc := NewRecalculateBalanceUseCase(walletRepo, engine)

		out, err := uc.Execute(ctx, RecalculateBalanceInput{WalletID: wallet.ID, UserID: userID})
		if err != nil {
			t.Fatalf("Recalculate failed: %v", err)
		}
		if !out.Drift.IsZero() {
			t.Errorf("expected zero drift, got %s", out.Drift)
		}
		if !out.Balance.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected balance 300, got %s", out.Balance)
		}
	})

	t.Run("overwrites a drifted balance and reports the correction", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Drifted", entity.WalletTypeChecking, decimal.NewFromInt(75))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		transactionRepo := usecasetest.NewTransactionRepo(walletRepo)
		engine := balance.NewEngine(walletRepo, transactionRepo)
		uc := NewRecalculateBalanceUseCase(walletRepo, engine)

		out, err := uc.Execute(ctx, RecalculateBalanceInput{WalletID: wallet.ID, UserID: userID})
		if err != nil {
			t.Fatalf("Recalculate failed: %v", err)
		}
		if !out.Drift.Equal(decimal.NewFromInt(-75)) {
			t.Errorf("expected drift -75, got %s", out.Drift)
		}
		if !wallet.Balance.IsZero() {
			t.Errorf("expected stored balance 0, got %s", wallet.Balance)
		}
	})
}
