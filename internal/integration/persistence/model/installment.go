// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// InstallmentModel represents the installments table in the database.
type InstallmentModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name                string          `gorm:"type:varchar(100);not null"`
	Description         string          `gorm:"type:text"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalInstallments   int             `gorm:"not null"`
	InstallmentAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Category            string          `gorm:"type:varchar(100)"`
	StartDate           time.Time       `gorm:"type:date;not null"`
	SourceWalletID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DestinationWalletID *uuid.UUID      `gorm:"type:uuid"`
	IsRecurring         bool            `gorm:"default:false"`
	RecurringType       string          `gorm:"type:varchar(10)"`
	EndDate             *time.Time      `gorm:"type:date"`
	IsActive            bool            `gorm:"default:true;index"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`

	// Relationships (loaded via Preload)
	Payments    []InstallmentPaymentModel    `gorm:"foreignKey:InstallmentID;references:ID"`
	Adjustments []InstallmentAdjustmentModel `gorm:"foreignKey:InstallmentID;references:ID"`
}

// TableName returns the table name for the InstallmentModel.
func (InstallmentModel) TableName() string {
	return "installments"
}

// InstallmentPaymentModel represents the installment_payments table.
type InstallmentPaymentModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	InstallmentID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	InstallmentNumber int              `gorm:"not null"`
	DueDate           time.Time        `gorm:"type:date;not null;index"`
	ScheduledAmount   decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	PaidAmount        *decimal.Decimal `gorm:"type:decimal(15,2)"`
	PaidDate          *time.Time       `gorm:"type:date"`
	Status            string           `gorm:"type:varchar(10);not null;index"`
	TransactionID     *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt         time.Time        `gorm:"not null"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for the InstallmentPaymentModel.
func (InstallmentPaymentModel) TableName() string {
	return "installment_payments"
}

// InstallmentAdjustmentModel represents the installment_adjustments table.
type InstallmentAdjustmentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InstallmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	EffectiveDate  time.Time       `gorm:"type:date;not null"`
	PreviousAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NewAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Reason         string          `gorm:"type:text"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the InstallmentAdjustmentModel.
func (InstallmentAdjustmentModel) TableName() string {
	return "installment_adjustments"
}

// ToEntity converts an InstallmentModel with its loaded payments and
// adjustments to a domain Installment entity.
func (m *InstallmentModel) ToEntity() *entity.Installment {
	installment := &entity.Installment{
		ID:                  m.ID,
		UserID:              m.UserID,
		Name:                m.Name,
		Description:         m.Description,
		TotalAmount:         m.TotalAmount,
		TotalInstallments:   m.TotalInstallments,
		InstallmentAmount:   m.InstallmentAmount,
		Category:            m.Category,
		StartDate:           m.StartDate,
		SourceWalletID:      m.SourceWalletID,
		DestinationWalletID: m.DestinationWalletID,
		IsRecurring:         m.IsRecurring,
		RecurringType:       entity.RecurringType(m.RecurringType),
		EndDate:             m.EndDate,
		IsActive:            m.IsActive,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}

	installment.Payments = make([]*entity.InstallmentPayment, len(m.Payments))
	for i := range m.Payments {
		installment.Payments[i] = m.Payments[i].ToEntity()
	}
	installment.Adjustments = make([]*entity.InstallmentAdjustment, len(m.Adjustments))
	for i := range m.Adjustments {
		installment.Adjustments[i] = m.Adjustments[i].ToEntity()
	}

	return installment
}

// InstallmentFromEntity creates an InstallmentModel from a domain entity.
// Payments and adjustments are persisted separately.
func InstallmentFromEntity(installment *entity.Installment) *InstallmentModel {
	return &InstallmentModel{
		ID:                  installment.ID,
		UserID:              installment.UserID,
		Name:                installment.Name,
		Description:         installment.Description,
		TotalAmount:         installment.TotalAmount,
		TotalInstallments:   installment.TotalInstallments,
		InstallmentAmount:   installment.InstallmentAmount,
		Category:            installment.Category,
		StartDate:           installment.StartDate,
		SourceWalletID:      installment.SourceWalletID,
		DestinationWalletID: installment.DestinationWalletID,
		IsRecurring:         installment.IsRecurring,
		RecurringType:       string(installment.RecurringType),
		EndDate:             installment.EndDate,
		IsActive:            installment.IsActive,
		CreatedAt:           installment.CreatedAt,
		UpdatedAt:           installment.UpdatedAt,
	}
}

// ToEntity converts an InstallmentPaymentModel to a domain entity.
func (m *InstallmentPaymentModel) ToEntity() *entity.InstallmentPayment {
	return &entity.InstallmentPayment{
		ID:                m.ID,
		InstallmentID:     m.InstallmentID,
		InstallmentNumber: m.InstallmentNumber,
		DueDate:           m.DueDate,
		ScheduledAmount:   m.ScheduledAmount,
		PaidAmount:        m.PaidAmount,
		PaidDate:          m.PaidDate,
		Status:            entity.PaymentStatus(m.Status),
		TransactionID:     m.TransactionID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// InstallmentPaymentFromEntity creates an InstallmentPaymentModel from a
// domain entity.
func InstallmentPaymentFromEntity(payment *entity.InstallmentPayment) *InstallmentPaymentModel {
	return &InstallmentPaymentModel{
		ID:                payment.ID,
		InstallmentID:     payment.InstallmentID,
		InstallmentNumber: payment.InstallmentNumber,
		DueDate:           payment.DueDate,
		ScheduledAmount:   payment.ScheduledAmount,
		PaidAmount:        payment.PaidAmount,
		PaidDate:          payment.PaidDate,
		Status:            string(payment.Status),
		TransactionID:     payment.TransactionID,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
	}
}

// ToEntity converts an InstallmentAdjustmentModel to a domain entity.
func (m *InstallmentAdjustmentModel) ToEntity() *entity.InstallmentAdjustment {
	return &entity.InstallmentAdjustment{
		ID:             m.ID,
		InstallmentID:  m.InstallmentID,
		EffectiveDate:  m.EffectiveDate,
		PreviousAmount: m.PreviousAmount,
		NewAmount:      m.NewAmount,
		Reason:         m.Reason,
		CreatedAt:      m.CreatedAt,
	}
}

// InstallmentAdjustmentFromEntity creates an InstallmentAdjustmentModel from
// a domain entity.
func InstallmentAdjustmentFromEntity(adjustment *entity.InstallmentAdjustment) *InstallmentAdjustmentModel {
	return &InstallmentAdjustmentModel{
		ID:             adjustment.ID,
		InstallmentID:  adjustment.InstallmentID,
		EffectiveDate:  adjustment.EffectiveDate,
		PreviousAmount: adjustment.PreviousAmount,
		NewAmount:      adjustment.NewAmount,
		Reason:         adjustment.Reason,
		CreatedAt:      adjustment.CreatedAt,
	}
}
