// Package usecasetest provides in-memory repository fakes shared by the
// use case unit tests.
package usecasetest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// WalletRepo is an in-memory adapter.WalletRepository.
type WalletRepo struct {
	mu      sync.Mutex
	Wallets map[uuid.UUID]*entity.Wallet
}

// NewWalletRepo creates a WalletRepo seeded with the given wallets.
func NewWalletRepo(wallets ...*entity.Wallet) *WalletRepo {
	repo := &WalletRepo{Wallets: make(map[uuid.UUID]*entity.Wallet)}
	for _, w := range wallets {
		repo.Wallets[w.ID] = w
	}
	return repo
}

func (r *WalletRepo) Create(_ context.Context, wallet *entity.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Wallets[wallet.ID] = wallet
	return nil
}

func (r *WalletRepo) FindByID(_ context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Wallets[id]
	if !ok || w.UserID != userID {
		return nil, domainerror.ErrWalletNotFound
	}
	return w, nil
}

func (r *WalletRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Wallet
	for _, w := range r.Wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *WalletRepo) Update(_ context.Context, wallet *entity.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Wallets[wallet.ID] = wallet
	return nil
}

func (r *WalletRepo) Delete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Wallets, id)
	return nil
}

func (r *WalletRepo) IncrementBalance(_ context.Context, id uuid.UUID, userID uuid.UUID, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Wallets[id]
	if !ok || w.UserID != userID {
		return domainerror.ErrWalletNotFound
	}
	w.Balance = w.Balance.Add(delta)
	return nil
}

func (r *WalletRepo) SetBalance(_ context.Context, id uuid.UUID, userID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.Wallets[id]
	if !ok || w.UserID != userID {
		return domainerror.ErrWalletNotFound
	}
	w.Balance = balance
	return nil
}

// TransactionRepo is an in-memory adapter.TransactionRepository. Its
// RunInTransaction executes the callback against the same maps; rollback is
// not simulated.
type TransactionRepo struct {
	mu           sync.Mutex
	Transactions map[uuid.UUID]*entity.Transaction
	walletRepo   *WalletRepo
}

// NewTransactionRepo creates a TransactionRepo seeded with the given
// transactions. The wallet repo is handed back out by RunInTransaction.
func NewTransactionRepo(walletRepo *WalletRepo, transactions ...*entity.Transaction) *TransactionRepo {
	repo := &TransactionRepo{
		Transactions: make(map[uuid.UUID]*entity.Transaction),
		walletRepo:   walletRepo,
	}
	for _, txn := range transactions {
		repo.Transactions[txn.ID] = txn
	}
	return repo
}

func (r *TransactionRepo) Create(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transactions[txn.ID] = txn
	return nil
}

func (r *TransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.Transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	return txn, nil
}

func (r *TransactionRepo) FindByFilter(_ context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Transaction
	for _, txn := range r.Transactions {
		if txn.UserID != filter.UserID || txn.ParentID != nil {
			continue
		}
		if filter.WalletID != nil && txn.WalletID != *filter.WalletID {
			continue
		}
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		items = append(items, txn)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return &entity.TransactionListResult{
		Transactions: items,
		Total:        int64(len(items)),
		Page:         pagination.Page,
		Limit:        pagination.Limit,
	}, nil
}

func (r *TransactionRepo) FindByWallet(_ context.Context, walletID uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, txn := range r.Transactions {
		if txn.UserID != userID || txn.ParentID != nil {
			continue
		}
		if txn.WalletID == walletID || (txn.ToWalletID != nil && *txn.ToWalletID == walletID) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *TransactionRepo) FindChildren(_ context.Context, parentID uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaction
	for _, txn := range r.Transactions {
		if txn.UserID == userID && txn.ParentID != nil && *txn.ParentID == parentID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, nil
}

func (r *TransactionRepo) Update(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transactions[txn.ID] = txn
	return nil
}

func (r *TransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Transactions, id)
	return nil
}

func (r *TransactionRepo) DeleteChildren(_ context.Context, parentID uuid.UUID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, txn := range r.Transactions {
		if txn.UserID == userID && txn.ParentID != nil && *txn.ParentID == parentID {
			delete(r.Transactions, id)
			count++
		}
	}
	return count, nil
}

func (r *TransactionRepo) ExistsByWallet(_ context.Context, walletID uuid.UUID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.Transactions {
		if txn.UserID != userID {
			continue
		}
		if txn.WalletID == walletID || (txn.ToWalletID != nil && *txn.ToWalletID == walletID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *TransactionRepo) RunInTransaction(_ context.Context, fn func(txRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) error) error {
	return fn(r, r.walletRepo)
}

// InstallmentRepo is an in-memory adapter.InstallmentRepository.
type InstallmentRepo struct {
	mu           sync.Mutex
	Installments map[uuid.UUID]*entity.Installment
}

// NewInstallmentRepo creates an InstallmentRepo seeded with the given
// installments.
func NewInstallmentRepo(installments ...*entity.Installment) *InstallmentRepo {
	repo := &InstallmentRepo{Installments: make(map[uuid.UUID]*entity.Installment)}
	for _, inst := range installments {
		repo.Installments[inst.ID] = inst
	}
	return repo
}

func (r *InstallmentRepo) Create(_ context.Context, installment *entity.Installment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Installments[installment.ID] = installment
	return nil
}

func (r *InstallmentRepo) FindByID(_ context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.Installments[id]
	if !ok || inst.UserID != userID {
		return nil, domainerror.ErrInstallmentNotFound
	}
	return inst, nil
}

func (r *InstallmentRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Installment
	for _, inst := range r.Installments {
		if inst.UserID == userID {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InstallmentRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) ([]*entity.Installment, error) {
	all, _ := r.FindByUser(context.Background(), userID)
	var out []*entity.Installment
	for _, inst := range all {
		if inst.IsActive {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *InstallmentRepo) Update(_ context.Context, installment *entity.Installment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Installments[installment.ID] = installment
	return nil
}

func (r *InstallmentRepo) Delete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Installments, id)
	return nil
}

func (r *InstallmentRepo) CreatePayments(_ context.Context, payments []*entity.InstallmentPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range payments {
		inst, ok := r.Installments[payment.InstallmentID]
		if !ok {
			return domainerror.ErrInstallmentNotFound
		}
		inst.Payments = append(inst.Payments, payment)
	}
	return nil
}

func (r *InstallmentRepo) UpdatePayment(_ context.Context, payment *entity.InstallmentPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.Installments[payment.InstallmentID]
	if !ok {
		return domainerror.ErrInstallmentNotFound
	}
	for i, existing := range inst.Payments {
		if existing.ID == payment.ID {
			inst.Payments[i] = payment
			return nil
		}
	}
	return domainerror.ErrPaymentNotFound
}

func (r *InstallmentRepo) CreateAdjustment(_ context.Context, adjustment *entity.InstallmentAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.Installments[adjustment.InstallmentID]
	if !ok {
		return domainerror.ErrInstallmentNotFound
	}
	inst.Adjustments = append(inst.Adjustments, adjustment)
	return nil
}

func (r *InstallmentRepo) UsersWithPendingPayments(_ context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, inst := range r.Installments {
		if !inst.IsActive || seen[inst.UserID] {
			continue
		}
		for _, payment := range inst.Payments {
			if payment.Status == entity.PaymentStatusPending {
				seen[inst.UserID] = true
				out = append(out, inst.UserID)
				break
			}
		}
	}
	return out, nil
}

// GamificationCache is an in-memory adapter.GamificationCache.
type GamificationCache struct {
	mu     sync.Mutex
	States map[uuid.UUID]*entity.GamificationState
}

// NewGamificationCache creates an empty GamificationCache.
func NewGamificationCache() *GamificationCache {
	return &GamificationCache{States: make(map[uuid.UUID]*entity.GamificationState)}
}

func (c *GamificationCache) Get(_ context.Context, userID uuid.UUID) (*entity.GamificationState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.States[userID], nil
}

func (c *GamificationCache) Set(_ context.Context, userID uuid.UUID, state *entity.GamificationState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.States[userID] = state
	return nil
}

func (c *GamificationCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.States, userID)
	return nil
}
