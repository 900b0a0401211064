// Package balance implements the wallet balance engine.
package balance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestEngine_Apply(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("income credits the wallet", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeIncome,
			Amount:   mustDecimal(t, "150.25"),
		}

		if err := engine.Apply(ctx, txn); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !wallet.Balance.Equal(mustDecimal(t, "150.25")) {
			t.Errorf("expected balance 150.25, got %s", wallet.Balance)
		}
	})

	t.Run("expense debits the wallet", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "100"))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   mustDecimal(t, "40.75"),
		}

		if err := engine.Apply(ctx, txn); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !wallet.Balance.Equal(mustDecimal(t, "59.25")) {
			t.Errorf("expected balance 59.25, got %s", wallet.Balance)
		}
	})

	t.Run("transfer moves money between wallets and conserves the total", func(t *testing.T) {
		source := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "500"))
		destination := entity.NewWallet(userID, "Savings", entity.WalletTypeSavings, mustDecimal(t, "200"))
		walletRepo := usecasetest.NewWalletRepo(source, destination)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			WalletID:   source.ID,
			ToWalletID: &destination.ID,
			Type:       entity.TransactionTypeTransfer,
			Amount:     mustDecimal(t, "120.50"),
		}

		if err := engine.Apply(ctx, txn); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !source.Balance.Equal(mustDecimal(t, "379.50")) {
			t.Errorf("expected source balance 379.50, got %s", source.Balance)
		}
		if !destination.Balance.Equal(mustDecimal(t, "320.50")) {
			t.Errorf("expected destination balance 320.50, got %s", destination.Balance)
		}
		total := source.Balance.Add(destination.Balance)
		if !total.Equal(mustDecimal(t, "700")) {
			t.Errorf("transfer changed the combined balance: got %s", total)
		}
	})

	t.Run("transfer without destination fails", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeTransfer,
			Amount:   mustDecimal(t, "10"),
		}

		if err := engine.Apply(ctx, txn); err == nil {
			t.Error("expected error for transfer with no destination")
		}
	})

	t.Run("zero amount writes nothing", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "77"))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.Zero,
		}

		if err := engine.Apply(ctx, txn); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !wallet.Balance.Equal(mustDecimal(t, "77")) {
			t.Errorf("expected balance unchanged at 77, got %s", wallet.Balance)
		}
	})
}

func TestEngine_Revert(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("revert after apply restores the original balance", func(t *testing.T) {
		source := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "500"))
		destination := entity.NewWallet(userID, "Savings", entity.WalletTypeSavings, mustDecimal(t, "200"))
		walletRepo := usecasetest.NewWalletRepo(source, destination)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		transactions := []*entity.Transaction{
			{ID: uuid.New(), UserID: userID, WalletID: source.ID, Type: entity.TransactionTypeIncome, Amount: mustDecimal(t, "33.33")},
			{ID: uuid.New(), UserID: userID, WalletID: source.ID, Type: entity.TransactionTypeExpense, Amount: mustDecimal(t, "12.01")},
			{ID: uuid.New(), UserID: userID, WalletID: source.ID, ToWalletID: &destination.ID, Type: entity.TransactionTypeTransfer, Amount: mustDecimal(t, "99.99")},
		}

		for _, txn := range transactions {
			if err := engine.Apply(ctx, txn); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
		}
		for _, txn := range transactions {
			if err := engine.Revert(ctx, txn); err != nil {
				t.Fatalf("Revert failed: %v", err)
			}
		}

		if !source.Balance.Equal(mustDecimal(t, "500")) {
			t.Errorf("expected source restored to 500, got %s", source.Balance)
		}
		if !destination.Balance.Equal(mustDecimal(t, "200")) {
			t.Errorf("expected destination restored to 200, got %s", destination.Balance)
		}
	})
}

func TestEngine_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("writes only the net difference", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "1000"))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   mustDecimal(t, "80"),
		}

		// Amount moves from 50 to 80: wallet should end 30 lower.
		if err := engine.ApplyDelta(ctx, txn, mustDecimal(t, "50"), mustDecimal(t, "80")); err != nil {
			t.Fatalf("ApplyDelta failed: %v", err)
		}
		if !wallet.Balance.Equal(mustDecimal(t, "970")) {
			t.Errorf("expected balance 970, got %s", wallet.Balance)
		}
	})

	t.Run("equal amounts are a no-op", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "1000"))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: wallet.ID,
			Type:     entity.TransactionTypeIncome,
			Amount:   mustDecimal(t, "25"),
		}

		if err := engine.ApplyDelta(ctx, txn, mustDecimal(t, "25"), mustDecimal(t, "25")); err != nil {
			t.Fatalf("ApplyDelta failed: %v", err)
		}
		if !wallet.Balance.Equal(mustDecimal(t, "1000")) {
			t.Errorf("expected balance unchanged at 1000, got %s", wallet.Balance)
		}
	})

	t.Run("transfer delta adjusts both wallets", func(t *testing.T) {
		source := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "400"))
		destination := entity.NewWallet(userID, "Savings", entity.WalletTypeSavings, mustDecimal(t, "100"))
		walletRepo := usecasetest.NewWalletRepo(source, destination)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		txn := &entity.Transaction{
			ID:         uuid.New(),
			UserID:     userID,
			WalletID:   source.ID,
			ToWalletID: &destination.ID,
			Type:       entity.TransactionTypeTransfer,
			Amount:     mustDecimal(t, "60"),
		}

		if err := engine.ApplyDelta(ctx, txn, mustDecimal(t, "100"), mustDecimal(t, "60")); err != nil {
			t.Fatalf("ApplyDelta failed: %v", err)
		}
		if !source.Balance.Equal(mustDecimal(t, "440")) {
			t.Errorf("expected source balance 440, got %s", source.Balance)
		}
		if !destination.Balance.Equal(mustDecimal(t, "60")) {
			t.Errorf("expected destination balance 60, got %s", destination.Balance)
		}
	})
}

func TestEngine_Recalculate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("rebuilds balance from all referencing transactions", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "9999"))
		other := entity.NewWallet(userID, "Savings", entity.WalletTypeSavings, decimal.Zero)
		walletRepo := usecasetest.NewWalletRepo(wallet, other)

		transactionRepo := usecasetest.NewTransactionRepo(walletRepo,
			&entity.Transaction{ID: uuid.New(), UserID: userID, WalletID: wallet.ID, Type: entity.TransactionTypeIncome, Amount: mustDecimal(t, "300")},
			&entity.Transaction{ID: uuid.New(), UserID: userID, WalletID: wallet.ID, Type: entity.TransactionTypeExpense, Amount: mustDecimal(t, "75.50")},
			// Transfer out of the wallet.
			&entity.Transaction{ID: uuid.New(), UserID: userID, WalletID: wallet.ID, ToWalletID: &other.ID, Type: entity.TransactionTypeTransfer, Amount: mustDecimal(t, "50")},
			// Transfer into the wallet.
			&entity.Transaction{ID: uuid.New(), UserID: userID, WalletID: other.ID, ToWalletID: &wallet.ID, Type: entity.TransactionTypeTransfer, Amount: mustDecimal(t, "25")},
		)

		engine := NewEngine(walletRepo, transactionRepo)
		recalculated, err := engine.Recalculate(ctx, wallet.ID, userID)
		if err != nil {
			t.Fatalf("Recalculate failed: %v", err)
		}

		// 300 - 75.50 - 50 + 25 = 199.50
		if !recalculated.Equal(mustDecimal(t, "199.50")) {
			t.Errorf("expected recalculated balance 199.50, got %s", recalculated)
		}
		if !wallet.Balance.Equal(mustDecimal(t, "199.50")) {
			t.Errorf("expected stored balance 199.50, got %s", wallet.Balance)
		}
	})

	t.Run("bundle children are excluded from the scan", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.Zero)
		walletRepo := usecasetest.NewWalletRepo(wallet)

		parentID := uuid.New()
		transactionRepo := usecasetest.NewTransactionRepo(walletRepo,
			&entity.Transaction{ID: parentID, UserID: userID, WalletID: wallet.ID, Type: entity.TransactionTypeExpense, Amount: mustDecimal(t, "90"), HasChildren: true, ChildrenCount: 2},
			&entity.Transaction{ID: uuid.New(), UserID: userID, WalletID: wallet.ID, ParentID: &parentID, Type: entity.TransactionTypeExpense, Amount: mustDecimal(t, "60")},
			&entity.Transaction{ID: uuid.New(), UserID: userID, WalletID: wallet.ID, ParentID: &parentID, Type: entity.TransactionTypeExpense, Amount: mustDecimal(t, "30")},
		)

		engine := NewEngine(walletRepo, transactionRepo)
		recalculated, err := engine.Recalculate(ctx, wallet.ID, userID)
		if err != nil {
			t.Fatalf("Recalculate failed: %v", err)
		}

		// Only the parent's cached total counts, not parent plus children.
		if !recalculated.Equal(mustDecimal(t, "-90")) {
			t.Errorf("expected recalculated balance -90, got %s", recalculated)
		}
	})

	t.Run("no transactions resets balance to zero", func(t *testing.T) {
		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "123.45"))
		walletRepo := usecasetest.NewWalletRepo(wallet)
		engine := NewEngine(walletRepo, usecasetest.NewTransactionRepo(walletRepo))

		recalculated, err := engine.Recalculate(ctx, wallet.ID, userID)
		if err != nil {
			t.Fatalf("Recalculate failed: %v", err)
		}
		if !recalculated.IsZero() {
			t.Errorf("expected zero balance, got %s", recalculated)
		}
	})
}
