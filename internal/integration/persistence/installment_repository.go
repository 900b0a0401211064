// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
	"github.com/wallet-ledger/backend/internal/integration/persistence/model"
)

// installmentRepository implements the adapter.InstallmentRepository interface.
type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository instance.
func NewInstallmentRepository(db *gorm.DB) adapter.InstallmentRepository {
	return &installmentRepository{
		db: db,
	}
}

// Create persists a new installment together with its generated payments.
func (r *installmentRepository) Create(ctx context.Context, installment *entity.Installment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		installmentModel := model.InstallmentFromEntity(installment)
		if err := tx.Create(installmentModel).Error; err != nil {
			return err
		}

		for _, payment := range installment.Payments {
			paymentModel := model.InstallmentPaymentFromEntity(payment)
			if err := tx.Create(paymentModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves an installment with payments and adjustments, scoped to
// the owning user.
func (r *installmentRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Installment, error) {
	var installmentModel model.InstallmentModel
	result := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Preload("Adjustments", func(db *gorm.DB) *gorm.DB {
			return db.Order("effective_date ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&installmentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInstallmentNotFound
		}
		return nil, result.Error
	}
	return installmentModel.ToEntity(), nil
}

// FindByUser retrieves all installments for a user, newest first.
func (r *installmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Installment, error) {
	return r.findAll(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindActiveByUser retrieves the user's active installments.
func (r *installmentRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Installment, error) {
	return r.findAll(ctx, r.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true))
}

func (r *installmentRepository) findAll(ctx context.Context, query *gorm.DB) ([]*entity.Installment, error) {
	var installmentModels []model.InstallmentModel
	result := query.
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Preload("Adjustments", func(db *gorm.DB) *gorm.DB {
			return db.Order("effective_date ASC")
		}).
		Order("created_at DESC").
		Find(&installmentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	installments := make([]*entity.Installment, len(installmentModels))
	for i := range installmentModels {
		installments[i] = installmentModels[i].ToEntity()
	}
	return installments, nil
}

// Update updates the installment row itself. Payments and adjustments are
// persisted through their own methods.
func (r *installmentRepository) Update(ctx context.Context, installment *entity.Installment) error {
	installmentModel := model.InstallmentFromEntity(installment)
	result := r.db.WithContext(ctx).Save(installmentModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes an installment and its payments and adjustments.
func (r *installmentRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.InstallmentModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrInstallmentNotFound
		}

		if err := tx.Where("installment_id = ?", id).Delete(&model.InstallmentPaymentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("installment_id = ?", id).Delete(&model.InstallmentAdjustmentModel{}).Error
	})
}

// CreatePayments persists newly generated schedule rows.
func (r *installmentRepository) CreatePayments(ctx context.Context, payments []*entity.InstallmentPayment) error {
	if len(payments) == 0 {
		return nil
	}

	paymentModels := make([]*model.InstallmentPaymentModel, len(payments))
	for i, payment := range payments {
		paymentModels[i] = model.InstallmentPaymentFromEntity(payment)
	}
	result := r.db.WithContext(ctx).Create(paymentModels)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdatePayment saves changes to a single payment row.
func (r *installmentRepository) UpdatePayment(ctx context.Context, payment *entity.InstallmentPayment) error {
	paymentModel := model.InstallmentPaymentFromEntity(payment)
	result := r.db.WithContext(ctx).Save(paymentModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// CreateAdjustment appends an adjustment history entry.
func (r *installmentRepository) CreateAdjustment(ctx context.Context, adjustment *entity.InstallmentAdjustment) error {
	adjustmentModel := model.InstallmentAdjustmentFromEntity(adjustment)
	result := r.db.WithContext(ctx).Create(adjustmentModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// UsersWithPendingPayments returns the distinct owners of active
// installments that still have a pending payment.
func (r *installmentRepository) UsersWithPendingPayments(ctx context.Context) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	result := r.db.WithContext(ctx).
		Model(&model.InstallmentModel{}).
		Distinct("installments.user_id").
		Joins("JOIN installment_payments ON installment_payments.installment_id = installments.id").
		Where("installments.is_active = ?", true).
		Where("installment_payments.status = ?", string(entity.PaymentStatusPending)).
		Pluck("installments.user_id", &userIDs)
	if result.Error != nil {
		return nil, result.Error
	}
	return userIDs, nil
}
