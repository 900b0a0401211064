// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wallet-ledger/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	WalletID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ToWalletID  *uuid.UUID      `gorm:"type:uuid;index"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Quantity    int             `gorm:"not null;default:1"`
	Type        string          `gorm:"type:varchar(10);not null;index"`
	Category    string          `gorm:"type:varchar(100)"`
	Subcategory string          `gorm:"type:varchar(100)"`

	// Bundle fields
	ParentID        *uuid.UUID       `gorm:"type:uuid;index"`
	HasChildren     bool             `gorm:"default:false"`
	ChildrenCount   int              `gorm:"default:0"`
	PrebundleAmount *decimal.Decimal `gorm:"type:decimal(15,2)"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Wallet *WalletModel      `gorm:"foreignKey:WalletID;references:ID"`
	User   *UserModel        `gorm:"foreignKey:UserID;references:ID"`
	Parent *TransactionModel `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		WalletID:    m.WalletID,
		ToWalletID:  m.ToWalletID,
		Date:        m.Date,
		Description: m.Description,
		Amount:      m.Amount,
		Quantity:    m.Quantity,
		Type:        entity.TransactionType(m.Type),
		Category:    m.Category,
		Subcategory: m.Subcategory,

		ParentID:        m.ParentID,
		HasChildren:     m.HasChildren,
		ChildrenCount:   m.ChildrenCount,
		PrebundleAmount: m.PrebundleAmount,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:          transaction.ID,
		UserID:      transaction.UserID,
		WalletID:    transaction.WalletID,
		ToWalletID:  transaction.ToWalletID,
		Date:        transaction.Date,
		Description: transaction.Description,
		Amount:      transaction.Amount,
		Quantity:    transaction.Quantity,
		Type:        string(transaction.Type),
		Category:    transaction.Category,
		Subcategory: transaction.Subcategory,

		ParentID:        transaction.ParentID,
		HasChildren:     transaction.HasChildren,
		ChildrenCount:   transaction.ChildrenCount,
		PrebundleAmount: transaction.PrebundleAmount,

		CreatedAt: transaction.CreatedAt,
		UpdatedAt: transaction.UpdatedAt,
		DeletedAt: deletedAt,
	}
}
