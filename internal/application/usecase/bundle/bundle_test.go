// Package bundle contains the bundle aggregator use cases.
package bundle

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	"github.com/wallet-ledger/backend/internal/application/usecase/usecasetest"
	"github.com/wallet-ledger/backend/internal/domain/entity"
)

type fixture struct {
	wallet          *entity.Wallet
	parent          *entity.Transaction
	walletRepo      *usecasetest.WalletRepo
	transactionRepo *usecasetest.TransactionRepo
	engine          *balance.Engine
}

// newFixture builds a wallet holding one applied standalone expense of 100,
// wallet balance already reflecting it.
func newFixture(t *testing.T, userID uuid.UUID) *fixture {
	t.Helper()

	wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, decimal.NewFromInt(-100))
	parent := &entity.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		WalletID: wallet.ID,
		Type:     entity.TransactionTypeExpense,
		Amount:   decimal.NewFromInt(100),
		Quantity: 1,
	}

	walletRepo := usecasetest.NewWalletRepo(wallet)
	transactionRepo := usecasetest.NewTransactionRepo(walletRepo, parent)
	return &fixture{
		wallet:          wallet,
		parent:          parent,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		engine:          balance.NewEngine(walletRepo, transactionRepo),
	}
}

func (f *fixture) addChild(t *testing.T, ctx context.Context, amount int64, quantity int) *AddChildOutput {
	t.Helper()
	uc := NewAddChildUseCase(f.transactionRepo, f.engine)
	out, err := uc.Execute(ctx, AddChildInput{
		ParentID:    f.parent.ID,
		UserID:      f.parent.UserID,
		Description: "item",
		Amount:      decimal.NewFromInt(amount),
		Quantity:    quantity,
	})
	if err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	return out
}

func TestAddChild(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first child stashes the parent amount and reprices it", func(t *testing.T) {
		f := newFixture(t, userID)

		f.addChild(t, ctx, 30, 2)

		if !f.parent.HasChildren {
			t.Error("expected parent to become a bundle")
		}
		if f.parent.ChildrenCount != 1 {
			t.Errorf("expected 1 child, got %d", f.parent.ChildrenCount)
		}
		if f.parent.PrebundleAmount == nil || !f.parent.PrebundleAmount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected stashed prebundle amount 100, got %v", f.parent.PrebundleAmount)
		}
		// Parent total is now 30*2 = 60.
		if !f.parent.Amount.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected parent amount 60, got %s", f.parent.Amount)
		}
		// Wallet moved by the net delta: -100 + (100-60) = -60.
		if !f.wallet.Balance.Equal(decimal.NewFromInt(-60)) {
			t.Errorf("expected wallet balance -60, got %s", f.wallet.Balance)
		}
	})

	t.Run("parent total equals the sum of child line totals", func(t *testing.T) {
		f := newFixture(t, userID)

		f.addChild(t, ctx, 30, 2) // 60
		f.addChild(t, ctx, 15, 1) // 15
		f.addChild(t, ctx, 5, 5)  // 25

		if !f.parent.Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected parent amount 100, got %s", f.parent.Amount)
		}
		if f.parent.ChildrenCount != 3 {
			t.Errorf("expected 3 children, got %d", f.parent.ChildrenCount)
		}
	})

	t.Run("cached total matches a full recalculation", func(t *testing.T) {
		f := newFixture(t, userID)

		f.addChild(t, ctx, 42, 1)
		f.addChild(t, ctx, 13, 3)

		incrementalBalance := f.wallet.Balance
		recalculated, err := f.engine.Recalculate(ctx, f.wallet.ID, userID)
		if err != nil {
			t.Fatalf("Recalculate failed: %v", err)
		}
		if !recalculated.Equal(incrementalBalance) {
			t.Errorf("incremental balance %s disagrees with recalculated %s", incrementalBalance, recalculated)
		}
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		f := newFixture(t, userID)
		uc := NewAddChildUseCase(f.transactionRepo, f.engine)

		_, err := uc.Execute(ctx, AddChildInput{
			ParentID:    f.parent.ID,
			UserID:      userID,
			Description: "item",
			Amount:      decimal.NewFromInt(10),
			Quantity:    0,
		})
		if err == nil {
			t.Error("expected error for zero quantity")
		}
	})

	t.Run("nesting under a child is rejected", func(t *testing.T) {
		f := newFixture(t, userID)
		out := f.addChild(t, ctx, 10, 1)

		uc := NewAddChildUseCase(f.transactionRepo, f.engine)
		_, err := uc.Execute(ctx, AddChildInput{
			ParentID:    out.Child.ID,
			UserID:      userID,
			Description: "nested",
			Amount:      decimal.NewFromInt(1),
			Quantity:    1,
		})
		if err == nil {
			t.Error("expected error when adding a child to a child")
		}
	})
}

func TestUpdateChild(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("repricing a child moves parent and wallet by the net delta", func(t *testing.T) {
		f := newFixture(t, userID)
		out := f.addChild(t, ctx, 30, 2) // parent 60, wallet -60

		newAmount := decimal.NewFromInt(50)
		uc := NewUpdateChildUseCase(f.transactionRepo, f.engine)
		if _, err := uc.Execute(ctx, UpdateChildInput{
			ParentID: f.parent.ID,
			ChildID:  out.Child.ID,
			UserID:   userID,
			Amount:   &newAmount,
		}); err != nil {
			t.Fatalf("UpdateChild failed: %v", err)
		}

		// 50*2 = 100
		if !f.parent.Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected parent amount 100, got %s", f.parent.Amount)
		}
		if !f.wallet.Balance.Equal(decimal.NewFromInt(-100)) {
			t.Errorf("expected wallet balance -100, got %s", f.wallet.Balance)
		}
	})

	t.Run("a stranger transaction is not accepted as child", func(t *testing.T) {
		f := newFixture(t, userID)
		f.addChild(t, ctx, 30, 1)

		stranger := &entity.Transaction{
			ID:       uuid.New(),
			UserID:   userID,
			WalletID: f.wallet.ID,
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.NewFromInt(5),
			Quantity: 1,
		}
		if err := f.transactionRepo.Create(ctx, stranger); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		amount := decimal.NewFromInt(1)
		uc := NewUpdateChildUseCase(f.transactionRepo, f.engine)
		_, err := uc.Execute(ctx, UpdateChildInput{
			ParentID: f.parent.ID,
			ChildID:  stranger.ID,
			UserID:   userID,
			Amount:   &amount,
		})
		if err == nil {
			t.Error("expected error for non-child transaction")
		}
	})
}

func TestRemoveChild(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("removing a child reprices the bundle", func(t *testing.T) {
		f := newFixture(t, userID)
		first := f.addChild(t, ctx, 30, 2) // 60
		f.addChild(t, ctx, 15, 1)          // 15, total 75

		uc := NewRemoveChildUseCase(f.transactionRepo, f.engine)
		if _, err := uc.Execute(ctx, RemoveChildInput{
			ParentID: f.parent.ID,
			ChildID:  first.Child.ID,
			UserID:   userID,
		}); err != nil {
			t.Fatalf("RemoveChild failed: %v", err)
		}

		if !f.parent.Amount.Equal(decimal.NewFromInt(15)) {
			t.Errorf("expected parent amount 15, got %s", f.parent.Amount)
		}
		if f.parent.ChildrenCount != 1 {
			t.Errorf("expected 1 child, got %d", f.parent.ChildrenCount)
		}
		if !f.wallet.Balance.Equal(decimal.NewFromInt(-15)) {
			t.Errorf("expected wallet balance -15, got %s", f.wallet.Balance)
		}
	})

	t.Run("removing the last child restores the stashed amount", func(t *testing.T) {
		f := newFixture(t, userID)
		out := f.addChild(t, ctx, 30, 2) // parent 60

		uc := NewRemoveChildUseCase(f.transactionRepo, f.engine)
		if _, err := uc.Execute(ctx, RemoveChildInput{
			ParentID: f.parent.ID,
			ChildID:  out.Child.ID,
			UserID:   userID,
		}); err != nil {
			t.Fatalf("RemoveChild failed: %v", err)
		}

		if f.parent.HasChildren {
			t.Error("expected parent demoted to a standalone transaction")
		}
		if f.parent.PrebundleAmount != nil {
			t.Error("expected stash cleared after restore")
		}
		if !f.parent.Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected restored amount 100, got %s", f.parent.Amount)
		}
		// Full round trip: wallet back where it started.
		if !f.wallet.Balance.Equal(decimal.NewFromInt(-100)) {
			t.Errorf("expected wallet balance -100, got %s", f.wallet.Balance)
		}
	})
}

func TestListChildren(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	f := newFixture(t, userID)
	f.addChild(t, ctx, 10, 1)
	f.addChild(t, ctx, 20, 1)

	uc := NewListChildrenUseCase(f.transactionRepo)
	out, err := uc.Execute(ctx, ListChildrenInput{ParentID: f.parent.ID, UserID: userID})
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(out.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(out.Children))
	}
	if !out.Parent.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected parent amount 30, got %s", out.Parent.Amount)
	}
}
