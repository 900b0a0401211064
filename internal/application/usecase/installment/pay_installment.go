// Package installment contains the installment scheduling use cases.
package installment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/application/usecase/transaction"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// PayInstallmentInput represents the input for paying one scheduled period.
type PayInstallmentInput struct {
	InstallmentID     uuid.UUID
	UserID            uuid.UUID
	InstallmentNumber int
	// PaidAmount defaults to the scheduled amount when nil.
	PaidAmount *decimal.Decimal
	// PaidDate defaults to now when nil.
	PaidDate *time.Time
	// TransactionID links an existing transaction instead of creating one.
	TransactionID *uuid.UUID
}

// PayInstallmentOutput represents the output of paying a period.
type PayInstallmentOutput struct {
	Payment     *PaymentOutput
	Installment *InstallmentOutput
	// TransactionID is the expense transaction backing the payment, created
	// here unless one was supplied.
	TransactionID uuid.UUID
}

// PayInstallmentUseCase handles paying a scheduled installment period. The
// money leaves the wallet through the same create-transaction path as any
// manual expense, so the balance engine invariants hold for installment
// payments too.
type PayInstallmentUseCase struct {
	installmentRepo   adapter.InstallmentRepository
	walletRepo        adapter.WalletRepository
	createTransaction *transaction.CreateTransactionUseCase
	gamificationCache adapter.GamificationCache
}

// NewPayInstallmentUseCase creates a new PayInstallmentUseCase instance.
func NewPayInstallmentUseCase(
	installmentRepo adapter.InstallmentRepository,
	walletRepo adapter.WalletRepository,
	createTransaction *transaction.CreateTransactionUseCase,
	gamificationCache adapter.GamificationCache,
) *PayInstallmentUseCase {
	return &PayInstallmentUseCase{
		installmentRepo:   installmentRepo,
		walletRepo:        walletRepo,
		createTransaction: createTransaction,
		gamificationCache: gamificationCache,
	}
}

// Execute performs the payment.
func (uc *PayInstallmentUseCase) Execute(ctx context.Context, input PayInstallmentInput) (*PayInstallmentOutput, error) {
	installment, err := loadInstallment(ctx, uc.installmentRepo, input.InstallmentID, input.UserID)
	if err != nil {
		return nil, err
	}

	if !installment.IsActive {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeInstallmentInactive,
			"installment is inactive",
			domainerror.ErrInstallmentInactive,
		)
	}

	var payment *entity.InstallmentPayment
	for _, p := range installment.Payments {
		if p.InstallmentNumber == input.InstallmentNumber {
			payment = p
			break
		}
	}
	if payment == nil {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodePaymentNotFound,
			fmt.Sprintf("payment %d not found", input.InstallmentNumber),
			domainerror.ErrPaymentNotFound,
		)
	}
	if payment.Status == entity.PaymentStatusPaid {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodePaymentAlreadyPaid,
			fmt.Sprintf("payment %d is already paid", input.InstallmentNumber),
			domainerror.ErrPaymentAlreadyPaid,
		)
	}

	paidAmount := payment.ScheduledAmount
	if input.PaidAmount != nil {
		paidAmount = *input.PaidAmount
	}
	if !paidAmount.IsPositive() {
		return nil, domainerror.NewInstallmentError(
			domainerror.ErrCodeInvalidInstallmentAmount,
			"paid amount must be positive",
			domainerror.ErrInvalidInstallmentAmount,
		)
	}

	paidDate := time.Now().UTC()
	if input.PaidDate != nil {
		paidDate = *input.PaidDate
	}

	transactionID := input.TransactionID
	if transactionID == nil {
		wallet, err := uc.walletRepo.FindByID(ctx, installment.SourceWalletID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to find source wallet: %w", err)
		}
		if wallet.Balance.LessThan(paidAmount) {
			return nil, domainerror.NewInstallmentError(
				domainerror.ErrCodeInsufficientBalance,
				fmt.Sprintf("wallet balance %s cannot cover payment of %s", wallet.Balance, paidAmount),
				domainerror.ErrInsufficientBalance,
			)
		}

		created, err := uc.createTransaction.Execute(ctx, transaction.CreateTransactionInput{
			UserID:      input.UserID,
			WalletID:    installment.SourceWalletID,
			Date:        paidDate,
			Description: paymentDescription(installment, payment),
			Amount:      paidAmount,
			Type:        entity.TransactionTypeExpense,
			Category:    installment.Category,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create payment transaction: %w", err)
		}
		transactionID = &created.Transaction.ID
	}

	payment.Status = entity.PaymentStatusPaid
	payment.PaidAmount = &paidAmount
	payment.PaidDate = &paidDate
	payment.TransactionID = transactionID
	payment.UpdatedAt = time.Now().UTC()

	if err := uc.installmentRepo.UpdatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	// Keep the recurring horizon topped up as periods are consumed.
	if installment.IsRecurring {
		if rows := generateAhead(installment, RecurringHorizonPeriods); len(rows) > 0 {
			if err := uc.installmentRepo.CreatePayments(ctx, rows); err != nil {
				return nil, fmt.Errorf("failed to extend recurring schedule: %w", err)
			}
			installment.Payments = append(installment.Payments, rows...)
		}
	}

	// The pay action changes points, streak and completion; drop the cached
	// gamification state.
	if err := uc.gamificationCache.Invalidate(ctx, input.UserID); err != nil {
		slog.Warn("Failed to invalidate gamification cache",
			"userID", input.UserID,
			"error", err,
		)
	}

	now := time.Now()
	return &PayInstallmentOutput{
		Payment:       toPaymentOutput(payment, now),
		Installment:   toInstallmentOutput(installment, now),
		TransactionID: *transactionID,
	}, nil
}

// paymentDescription labels the generated expense transaction.
func paymentDescription(installment *entity.Installment, payment *entity.InstallmentPayment) string {
	if installment.IsRecurring {
		return fmt.Sprintf("%s (%s)", installment.Name, payment.DueDate.Format("Jan 2006"))
	}
	return fmt.Sprintf("%s (%d/%d)", installment.Name, payment.InstallmentNumber, installment.TotalInstallments)
}
