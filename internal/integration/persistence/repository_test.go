package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
	"github.com/wallet-ledger/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.UserModel{},
		&model.WalletModel{},
		&model.TransactionModel{},
		&model.InstallmentModel{},
		&model.InstallmentPaymentModel{},
		&model.InstallmentAdjustmentModel{},
		&model.RefreshTokenModel{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestWalletRepository(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("create and find round-trips the wallet", func(t *testing.T) {
		repo := NewWalletRepository(newTestDB(t))

		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "250.00"))
		if err := repo.Create(ctx, wallet); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		found, err := repo.FindByID(ctx, wallet.ID, userID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if found.Name != "Checking" || found.Type != entity.WalletTypeChecking {
			t.Errorf("unexpected wallet %q/%q", found.Name, found.Type)
		}
		if !found.Balance.Equal(mustDecimal(t, "250.00")) {
			t.Errorf("balance = %s, want 250.00", found.Balance)
		}
	})

	t.Run("find is scoped to the owning user", func(t *testing.T) {
		repo := NewWalletRepository(newTestDB(t))

		wallet := entity.NewWallet(userID, "Savings", entity.WalletTypeSavings, decimal.Zero)
		if err := repo.Create(ctx, wallet); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		_, err := repo.FindByID(ctx, wallet.ID, uuid.New())
		if !errors.Is(err, domainerror.ErrWalletNotFound) {
			t.Errorf("expected ErrWalletNotFound, got %v", err)
		}
	})

	t.Run("increment balance adds the delta in place", func(t *testing.T) {
		repo := NewWalletRepository(newTestDB(t))

		wallet := entity.NewWallet(userID, "Cash", entity.WalletTypeCash, mustDecimal(t, "100.00"))
		if err := repo.Create(ctx, wallet); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		if err := repo.IncrementBalance(ctx, wallet.ID, userID, mustDecimal(t, "-33.50")); err != nil {
			t.Fatalf("IncrementBalance returned error: %v", err)
		}
		if err := repo.IncrementBalance(ctx, wallet.ID, userID, mustDecimal(t, "8.50")); err != nil {
			t.Fatalf("IncrementBalance returned error: %v", err)
		}

		found, err := repo.FindByID(ctx, wallet.ID, userID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if !found.Balance.Equal(mustDecimal(t, "75.00")) {
			t.Errorf("balance = %s, want 75.00", found.Balance)
		}
	})

	t.Run("increment on a missing wallet reports not found", func(t *testing.T) {
		repo := NewWalletRepository(newTestDB(t))

		err := repo.IncrementBalance(ctx, uuid.New(), userID, decimal.NewFromInt(1))
		if !errors.Is(err, domainerror.ErrWalletNotFound) {
			t.Errorf("expected ErrWalletNotFound, got %v", err)
		}
	})

	t.Run("set balance overwrites the stored value", func(t *testing.T) {
		repo := NewWalletRepository(newTestDB(t))

		wallet := entity.NewWallet(userID, "Cash", entity.WalletTypeCash, mustDecimal(t, "10.00"))
		if err := repo.Create(ctx, wallet); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		if err := repo.SetBalance(ctx, wallet.ID, userID, mustDecimal(t, "-42.13")); err != nil {
			t.Fatalf("SetBalance returned error: %v", err)
		}

		found, err := repo.FindByID(ctx, wallet.ID, userID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if !found.Balance.Equal(mustDecimal(t, "-42.13")) {
			t.Errorf("balance = %s, want -42.13", found.Balance)
		}
	})

	t.Run("deleted wallets disappear from user listings", func(t *testing.T) {
		repo := NewWalletRepository(newTestDB(t))

		keep := entity.NewWallet(userID, "Keep", entity.WalletTypeChecking, decimal.Zero)
		drop := entity.NewWallet(userID, "Drop", entity.WalletTypeCash, decimal.Zero)
		for _, w := range []*entity.Wallet{keep, drop} {
			if err := repo.Create(ctx, w); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}

		if err := repo.Delete(ctx, drop.ID, userID); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}

		wallets, err := repo.FindByUser(ctx, userID)
		if err != nil {
			t.Fatalf("FindByUser returned error: %v", err)
		}
		if len(wallets) != 1 || wallets[0].ID != keep.ID {
			t.Errorf("expected only the kept wallet, got %d wallets", len(wallets))
		}
	})
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	seed := func(t *testing.T, db *gorm.DB, walletID uuid.UUID) adapter.TransactionRepository {
		t.Helper()
		return NewTransactionRepository(db)
	}

	t.Run("filter lists only top-level rows newest first", func(t *testing.T) {
		db := newTestDB(t)
		walletID := uuid.New()
		repo := seed(t, db, walletID)

		parent := entity.NewTransaction(userID, walletID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			"Groceries", mustDecimal(t, "80.00"), entity.TransactionTypeExpense, "food")
		older := entity.NewTransaction(userID, walletID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			"Salary", mustDecimal(t, "3000.00"), entity.TransactionTypeIncome, "salary")
		child := entity.NewTransaction(userID, walletID, parent.Date,
			"Milk", mustDecimal(t, "5.00"), entity.TransactionTypeExpense, "food")
		child.ParentID = &parent.ID

		for _, txn := range []*entity.Transaction{parent, older, child} {
			if err := repo.Create(ctx, txn); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}

		result, err := repo.FindByFilter(ctx,
			adapter.TransactionFilter{UserID: userID},
			adapter.TransactionPagination{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("FindByFilter returned error: %v", err)
		}
		if result.Total != 2 {
			t.Fatalf("total = %d, want 2", result.Total)
		}
		if result.Transactions[0].ID != parent.ID || result.Transactions[1].ID != older.ID {
			t.Errorf("unexpected ordering")
		}
	})

	t.Run("filter matches description case-insensitively", func(t *testing.T) {
		db := newTestDB(t)
		walletID := uuid.New()
		repo := seed(t, db, walletID)

		txn := entity.NewTransaction(userID, walletID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			"Electric Bill", mustDecimal(t, "120.00"), entity.TransactionTypeExpense, "utilities")
		if err := repo.Create(ctx, txn); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		result, err := repo.FindByFilter(ctx,
			adapter.TransactionFilter{UserID: userID, Search: "electric"},
			adapter.TransactionPagination{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("FindByFilter returned error: %v", err)
		}
		if result.Total != 1 {
			t.Errorf("total = %d, want 1", result.Total)
		}
	})

	t.Run("wallet scan picks up transfer destinations and skips children", func(t *testing.T) {
		db := newTestDB(t)
		walletID := uuid.New()
		otherWallet := uuid.New()
		repo := seed(t, db, walletID)

		expense := entity.NewTransaction(userID, walletID, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			"Rent", mustDecimal(t, "900.00"), entity.TransactionTypeExpense, "housing")
		transferIn := entity.NewTransaction(userID, otherWallet, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
			"Top up", mustDecimal(t, "200.00"), entity.TransactionTypeTransfer, "")
		transferIn.ToWalletID = &walletID
		child := entity.NewTransaction(userID, walletID, expense.Date,
			"Line item", mustDecimal(t, "10.00"), entity.TransactionTypeExpense, "")
		child.ParentID = &expense.ID

		for _, txn := range []*entity.Transaction{expense, transferIn, child} {
			if err := repo.Create(ctx, txn); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}

		rows, err := repo.FindByWallet(ctx, walletID, userID)
		if err != nil {
			t.Fatalf("FindByWallet returned error: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
	})

	t.Run("delete children reports the count", func(t *testing.T) {
		db := newTestDB(t)
		walletID := uuid.New()
		repo := seed(t, db, walletID)

		parent := entity.NewTransaction(userID, walletID, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			"Bundle", mustDecimal(t, "30.00"), entity.TransactionTypeExpense, "")
		if err := repo.Create(ctx, parent); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		for i := 0; i < 3; i++ {
			child := entity.NewTransaction(userID, walletID, parent.Date,
				"Item", mustDecimal(t, "10.00"), entity.TransactionTypeExpense, "")
			child.ParentID = &parent.ID
			if err := repo.Create(ctx, child); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}

		count, err := repo.DeleteChildren(ctx, parent.ID, userID)
		if err != nil {
			t.Fatalf("DeleteChildren returned error: %v", err)
		}
		if count != 3 {
			t.Errorf("deleted %d children, want 3", count)
		}

		children, err := repo.FindChildren(ctx, parent.ID, userID)
		if err != nil {
			t.Fatalf("FindChildren returned error: %v", err)
		}
		if len(children) != 0 {
			t.Errorf("expected no children after delete, got %d", len(children))
		}
	})

	t.Run("run in transaction rolls everything back on error", func(t *testing.T) {
		db := newTestDB(t)
		walletID := uuid.New()
		repo := seed(t, db, walletID)
		walletRepo := NewWalletRepository(db)

		wallet := entity.NewWallet(userID, "Checking", entity.WalletTypeChecking, mustDecimal(t, "100.00"))
		wallet.ID = walletID
		if err := walletRepo.Create(ctx, wallet); err != nil {
			t.Fatalf("Create wallet returned error: %v", err)
		}

		boom := errors.New("boom")
		txn := entity.NewTransaction(userID, walletID, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			"Doomed", mustDecimal(t, "50.00"), entity.TransactionTypeExpense, "")

		err := repo.RunInTransaction(ctx, func(txRepo adapter.TransactionRepository, txWalletRepo adapter.WalletRepository) error {
			if err := txRepo.Create(ctx, txn); err != nil {
				return err
			}
			if err := txWalletRepo.IncrementBalance(ctx, walletID, userID, mustDecimal(t, "-50.00")); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		if _, err := repo.FindByID(ctx, txn.ID); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("transaction survived rollback: %v", err)
		}
		found, err := walletRepo.FindByID(ctx, walletID, userID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if !found.Balance.Equal(mustDecimal(t, "100.00")) {
			t.Errorf("balance = %s, want 100.00 after rollback", found.Balance)
		}
	})
}

func TestInstallmentRepository(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newPlan := func(t *testing.T) *entity.Installment {
		t.Helper()
		installment := entity.NewInstallment(userID, "Sofa", "3x", mustDecimal(t, "300.00"), 3,
			mustDecimal(t, "100.00"), "furniture", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), uuid.New())
		for k := 0; k < 3; k++ {
			installment.Payments = append(installment.Payments,
				entity.NewInstallmentPayment(installment.ID, k+1, installment.DueDateFor(k), mustDecimal(t, "100.00")))
		}
		return installment
	}

	t.Run("create persists the plan with its schedule", func(t *testing.T) {
		repo := NewInstallmentRepository(newTestDB(t))

		installment := newPlan(t)
		if err := repo.Create(ctx, installment); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		found, err := repo.FindByID(ctx, installment.ID, userID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if len(found.Payments) != 3 {
			t.Fatalf("got %d payments, want 3", len(found.Payments))
		}
		for k, payment := range found.Payments {
			if payment.InstallmentNumber != k+1 {
				t.Errorf("payment %d out of order: number %d", k, payment.InstallmentNumber)
			}
		}
	})

	t.Run("find is scoped to the owning user", func(t *testing.T) {
		repo := NewInstallmentRepository(newTestDB(t))

		installment := newPlan(t)
		if err := repo.Create(ctx, installment); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		_, err := repo.FindByID(ctx, installment.ID, uuid.New())
		if !errors.Is(err, domainerror.ErrInstallmentNotFound) {
			t.Errorf("expected ErrInstallmentNotFound, got %v", err)
		}
	})

	t.Run("active listing excludes deactivated plans", func(t *testing.T) {
		repo := NewInstallmentRepository(newTestDB(t))

		active := newPlan(t)
		inactive := newPlan(t)
		inactive.IsActive = false
		for _, i := range []*entity.Installment{active, inactive} {
			if err := repo.Create(ctx, i); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}

		installments, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			t.Fatalf("FindActiveByUser returned error: %v", err)
		}
		if len(installments) != 1 || installments[0].ID != active.ID {
			t.Errorf("expected only the active plan, got %d", len(installments))
		}
	})

	t.Run("payment update and adjustment history round-trip", func(t *testing.T) {
		repo := NewInstallmentRepository(newTestDB(t))

		installment := newPlan(t)
		if err := repo.Create(ctx, installment); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		paid := mustDecimal(t, "100.00")
		paidDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		payment := installment.Payments[0]
		payment.Status = entity.PaymentStatusPaid
		payment.PaidAmount = &paid
		payment.PaidDate = &paidDate
		if err := repo.UpdatePayment(ctx, payment); err != nil {
			t.Fatalf("UpdatePayment returned error: %v", err)
		}

		adjustment := &entity.InstallmentAdjustment{
			ID:             uuid.New(),
			InstallmentID:  installment.ID,
			EffectiveDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			PreviousAmount: mustDecimal(t, "100.00"),
			NewAmount:      mustDecimal(t, "110.00"),
			Reason:         "price increase",
			CreatedAt:      time.Now().UTC(),
		}
		if err := repo.CreateAdjustment(ctx, adjustment); err != nil {
			t.Fatalf("CreateAdjustment returned error: %v", err)
		}

		found, err := repo.FindByID(ctx, installment.ID, userID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if found.PaidCount() != 1 {
			t.Errorf("paid count = %d, want 1", found.PaidCount())
		}
		if len(found.Adjustments) != 1 || !found.Adjustments[0].NewAmount.Equal(mustDecimal(t, "110.00")) {
			t.Errorf("adjustment history not persisted")
		}
	})

	t.Run("delete removes the plan and its schedule", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewInstallmentRepository(db)

		installment := newPlan(t)
		if err := repo.Create(ctx, installment); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		if err := repo.Delete(ctx, installment.ID, userID); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}

		if _, err := repo.FindByID(ctx, installment.ID, userID); !errors.Is(err, domainerror.ErrInstallmentNotFound) {
			t.Errorf("expected ErrInstallmentNotFound after delete, got %v", err)
		}

		var count int64
		if err := db.Model(&model.InstallmentPaymentModel{}).
			Where("installment_id = ?", installment.ID).
			Count(&count).Error; err != nil {
			t.Fatalf("count returned error: %v", err)
		}
		if count != 0 {
			t.Errorf("payments survived delete: %d", count)
		}
	})

	t.Run("pending-payment user listing skips settled and inactive plans", func(t *testing.T) {
		repo := NewInstallmentRepository(newTestDB(t))

		pendingUser := uuid.New()
		settledUser := uuid.New()
		inactiveUser := uuid.New()

		plan := func(owner uuid.UUID) *entity.Installment {
			installment := entity.NewInstallment(owner, "Sofa", "3x", mustDecimal(t, "100.00"), 1,
				mustDecimal(t, "100.00"), "furniture", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), uuid.New())
			installment.Payments = append(installment.Payments,
				entity.NewInstallmentPayment(installment.ID, 1, installment.DueDateFor(0), mustDecimal(t, "100.00")))
			return installment
		}

		pending := plan(pendingUser)
		settled := plan(settledUser)
		paid := mustDecimal(t, "100.00")
		paidDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		settled.Payments[0].Status = entity.PaymentStatusPaid
		settled.Payments[0].PaidAmount = &paid
		settled.Payments[0].PaidDate = &paidDate
		inactive := plan(inactiveUser)
		inactive.IsActive = false

		for _, i := range []*entity.Installment{pending, settled, inactive} {
			if err := repo.Create(ctx, i); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}

		userIDs, err := repo.UsersWithPendingPayments(ctx)
		if err != nil {
			t.Fatalf("UsersWithPendingPayments returned error: %v", err)
		}
		if len(userIDs) != 1 || userIDs[0] != pendingUser {
			t.Errorf("got %v, want only %s", userIDs, pendingUser)
		}
	})
}
