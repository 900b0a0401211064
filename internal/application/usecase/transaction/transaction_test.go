// Package transaction contains transaction-related use cases.
package transaction

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

func setup(userID uuid.UUID, wallets ...*entity.Wallet) (*usecasetest.WalletRepo, *usecasetest.TransactionRepo, *balance.Engine) {
	walletRepo := usecasetest.NewWalletRepo(wallets...)
	transactionRepo := usecasetest.NewTransactionRepo(walletRepo)
	return walletRepo, transactionRepo, balance.NewEngine(walletRepo, transactionRepo)
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("income is persisted and credited to the wallet", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		walletRepo, transactionRepo, engine := setup(userID, wallet)
		uc := NewCreateTransactionUseCase(transactionRepo, walletRepo, engine)

		out, err := uc.Execute(ctx, CreateTransactionInput{
			UserID:      userID,
			WalletID:    wallet.ID,
			Date:        time.Now(),
			Description: "salary",
			Amount:      decimal.NewFromInt(2500),
			Type:        entity.TransactionTypeIncome,
			Category:    "salary",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if out.Transaction.ID == uuid.Nil {
			t.Error("expected transaction ID to be set")
		}
		if !wallet.Balance.Equal(decimal.NewFromInt(2500)) {
			t.Errorf("expected wallet balance 2500, got %s", wallet.Balance)
		}
	})

	t.Run("transfer requires a distinct destination wallet", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		walletRepo, transactionRepo, engine := setup(userID, wallet)
		uc := NewCreateTransactionUseCase(transactionRepo, walletRepo, engine)

		if _, err := uc.Execute(ctx, CreateTransactionInput{
			UserID:      userID,
			WalletID:    wallet.ID,
			Date:        time.Now(),
			Description: "move",
			Amount:      decimal.NewFromInt(10),
			Type:        entity.TransactionTypeTransfer,
		}); err == nil {
			t.Error("expected error for transfer without destination")
		}

		if _, err := uc.Execute(ctx, CreateTransactionInput{
			UserID:      userID,
			WalletID:    wallet.ID,
			ToWalletID:  &wallet.ID,
			Date:        time.Now(),
			Description: "move",
			Amount:      decimal.NewFromInt(10),
			Type:        entity.TransactionTypeTransfer,
		}); err == nil {
			t.Error("expected error for transfer into the same wallet")
		}
	})

	t.Run("unknown wallet is rejected", func(t *testing.T) {
		walletRepo, transactionRepo, engine := setup(userID)
		uc := NewCreateTransactionUseCase(transactionRepo, walletRepo, engine)

		if _, err := uc.Execute(ctx, CreateTransactionInput{
			UserID:      userID,
			WalletID:    uuid.New(),
			Date:        time.Now(),
			Description: "ghost",
			Amount:      decimal.NewFromInt(10),
			Type:        entity.TransactionTypeExpense,
		}); err == nil {
			t.Error("expected error for unknown wallet")
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("amount change moves the wallet by the difference", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.NewFromInt(-50))
		_, transactionRepo, engine := setup(userID, wallet)

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.NewFromInt(50),
			Quantity: 1,
		}
		if err := transactionRepo.Create(ctx, txn); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		newAmount := decimal.NewFromInt(80)
		uc := NewUpdateTransactionUseCase(transactionRepo, engine)
		out, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: txn.ID,
			UserID:        userID,
			Amount:        &newAmount,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !out.Transaction.Amount.Equal(decimal.NewFromInt(80)) {
			t.Errorf("expected amount 80, got %s", out.Transaction.Amount)
		}
		if !wallet.Balance.Equal(decimal.NewFromInt(-80)) {
			t.Errorf("expected wallet balance -80, got %s", wallet.Balance)
		}
	})

	t.Run("bundle parent amount is locked", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		_, transactionRepo, engine := setup(userID, wallet)

		parent := &entity.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			WalletID:    wallet.ID,
			Type:        entity.TransactionTypeExpense,
			Amount:      decimal.NewFromInt(100),
			Quantity:    1,
			HasChildren: true,
		}
		if err := transactionRepo.Create(ctx, parent); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		newAmount := decimal.NewFromInt(1)
		uc := NewUpdateTransactionUseCase(transactionRepo, engine)
		if _, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: parent.ID,
			UserID:        userID,
			Amount:        &newAmount,
		}); err == nil {
			t.Error("expected error editing a bundle parent's amount")
		}
	})

	t.Run("children are rejected", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		_, transactionRepo, engine := setup(userID, wallet)

		parentID := uuid.New()
		child := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			ParentID: &parentID,
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.NewFromInt(5),
			Quantity: 1,
		}
		if err := transactionRepo.Create(ctx, child); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		description := "renamed"
		uc := NewUpdateTransactionUseCase(transactionRepo, engine)
		if _, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: child.ID,
			UserID:        userID,
			Description:   &description,
		}); err == nil {
			t.Error("expected error editing a bundle child here")
		}
	})

	t.Run("other user's transaction is not editable", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		_, transactionRepo, engine := setup(userID, wallet)

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.NewFromInt(5),
			Quantity: 1,
		}
		if err := transactionRepo.Create(ctx, txn); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		description := "stolen"
		uc := NewUpdateTransactionUseCase(transactionRepo, engine)
		if _, err := uc.Execute(ctx, UpdateTransactionInput{
			TransactionID: txn.ID,
			UserID:        uuid.New(),
			Description:   &description,
		}); err == nil {
			t.Error("expected authorization error")
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("delete reverts the balance effect", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.NewFromInt(100))
		_, transactionRepo, engine := setup(userID, wallet)

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeIncome,
			Amount:   decimal.NewFromInt(100),
			Quantity: 1,
		}
		if err := transactionRepo.Create(ctx, txn); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		uc := NewDeleteTransactionUseCase(transactionRepo, engine)
		if err := uc.Execute(ctx, DeleteTransactionInput{TransactionID: txn.ID, UserID: userID}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if !wallet.Balance.IsZero() {
			t.Errorf("expected wallet balance 0 after revert, got %s", wallet.Balance)
		}
		if _, err := transactionRepo.FindByID(ctx, txn.ID); err == nil {
			t.Error("expected transaction to be deleted")
		}
	})

	t.Run("deleting a bundle removes its children too", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.NewFromInt(-60))
		_, transactionRepo, engine := setup(userID, wallet)

		parent := &entity.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			WalletID:    wallet.ID,
			Type:        entity.TransactionTypeExpense,
			Amount:      decimal.NewFromInt(60),
			Quantity:    1,
			HasChildren: true,
		}
		child := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			ParentID: &parent.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.NewFromInt(60),
			Quantity: 1,
		}
		for _, txn := range []*entity.Transaction{parent, child} {
			if err := transactionRepo.Create(ctx, txn); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}

		uc := NewDeleteTransactionUseCase(transactionRepo, engine)
		if err := uc.Execute(ctx, DeleteTransactionInput{TransactionID: parent.ID, UserID: userID}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if !wallet.Balance.IsZero() {
			t.Errorf("expected wallet balance 0, got %s", wallet.Balance)
		}
		if _, err := transactionRepo.FindByID(ctx, child.ID); err == nil {
			t.Error("expected child to be deleted with the parent")
		}
	})
}
