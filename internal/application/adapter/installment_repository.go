// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// InstallmentRepository defines the interface for installment persistence operations.
type InstallmentRepository interface {
	// Create persists a new installment together with its generated
	// payments and (empty) adjustment history.
	Create(ctx context.Context, installment *entity.Installment) error

	// FindByID retrieves an installment with payments and adjustments,
	// scoped to the owning user.
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Installment, error)

	// FindByUser retrieves all installments for a user, newest first,
	// payments and adjustments included.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Installment, error)

	// FindActiveByUser retrieves the user's active installments.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Installment, error)

	// Update updates the installment row itself (name, amounts, active flag).
	Update(ctx context.Context, installment *entity.Installment) error

	// Delete removes an installment and its payments and adjustments.
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// CreatePayments persists newly generated schedule rows.
	CreatePayments(ctx context.Context, payments []*entity.InstallmentPayment) error

	// UpdatePayment saves changes to a single payment row.
	UpdatePayment(ctx context.Context, payment *entity.InstallmentPayment) error

	// CreateAdjustment appends an adjustment history entry.
	CreateAdjustment(ctx context.Context, adjustment *entity.InstallmentAdjustment) error

	// UsersWithPendingPayments returns the distinct IDs of users that have
	// at least one pending payment on an active installment. The reminder
	// sweep uses it to avoid scanning users with nothing due.
	UsersWithPendingPayments(ctx context.Context) ([]uuid.UUID, error)
}
