// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/wallet-ledger/backend/internal/application/usecase/bundle"
	"github.com/wallet-ledger/backend/internal/application/usecase/transaction"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	WalletID    string  `json:"wallet_id" binding:"required"`
	ToWalletID  *string `json:"to_wallet_id,omitempty"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description" binding:"required,min=1,max=255"`
	Amount      float64 `json:"amount" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=expense income transfer"`
	Category    string  `json:"category,omitempty" binding:"omitempty,max=100"`
	Subcategory string  `json:"subcategory,omitempty" binding:"omitempty,max=100"`
}

// UpdateTransactionRequest represents the request body for transaction update.
// Wallet and type are immutable after creation.
type UpdateTransactionRequest struct {
	Date        *string  `json:"date,omitempty"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=1,max=255"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,max=100"`
	Subcategory *string  `json:"subcategory,omitempty" binding:"omitempty,max=100"`
}

// AddChildRequest represents the request body for adding a bundle line item.
type AddChildRequest struct {
	Description string  `json:"description" binding:"required,min=1,max=255"`
	Amount      float64 `json:"amount" binding:"required"`
	Quantity    int     `json:"quantity,omitempty"`
	Category    string  `json:"category,omitempty" binding:"omitempty,max=100"`
	Subcategory string  `json:"subcategory,omitempty" binding:"omitempty,max=100"`
}

// UpdateChildRequest represents the request body for editing a bundle line item.
type UpdateChildRequest struct {
	Description *string  `json:"description,omitempty" binding:"omitempty,min=1,max=255"`
	Amount      *float64 `json:"amount,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,max=100"`
	Subcategory *string  `json:"subcategory,omitempty" binding:"omitempty,max=100"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	WalletID        string    `json:"wallet_id"`
	ToWalletID      *string   `json:"to_wallet_id,omitempty"`
	Date            string    `json:"date"`
	Description     string    `json:"description"`
	Amount          string    `json:"amount"`
	Quantity        int       `json:"quantity"`
	Type            string    `json:"type"`
	Category        string    `json:"category,omitempty"`
	Subcategory     string    `json:"subcategory,omitempty"`
	ParentID        *string   `json:"parent_id,omitempty"`
	HasChildren     bool      `json:"has_children"`
	ChildrenCount   int       `json:"children_count"`
	PrebundleAmount *string   `json:"prebundle_amount,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TransactionPaginationResponse represents pagination metadata.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// BundleResponse represents a bundle parent together with its line items.
type BundleResponse struct {
	Parent   TransactionResponse   `json:"parent"`
	Children []TransactionResponse `json:"children"`
}

// ChildMutationResponse represents the response for a line item mutation,
// returning the recomputed parent alongside the child.
type ChildMutationResponse struct {
	Child  TransactionResponse `json:"child"`
	Parent TransactionResponse `json:"parent"`
}

// ToTransactionResponse converts a TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(txn *transaction.TransactionOutput) TransactionResponse {
	response := TransactionResponse{
		ID:            txn.ID.String(),
		UserID:        txn.UserID.String(),
		WalletID:      txn.WalletID.String(),
		Date:          txn.Date.Format("2006-01-02"),
		Description:   txn.Description,
		Amount:        txn.Amount.StringFixed(2),
		Quantity:      txn.Quantity,
		Type:          string(txn.Type),
		Category:      txn.Category,
		Subcategory:   txn.Subcategory,
		HasChildren:   txn.HasChildren,
		ChildrenCount: txn.ChildrenCount,
		CreatedAt:     txn.CreatedAt,
		UpdatedAt:     txn.UpdatedAt,
	}

	if txn.ToWalletID != nil {
		toWalletID := txn.ToWalletID.String()
		response.ToWalletID = &toWalletID
	}
	if txn.ParentID != nil {
		parentID := txn.ParentID.String()
		response.ParentID = &parentID
	}
	if txn.PrebundleAmount != nil {
		prebundle := txn.PrebundleAmount.StringFixed(2)
		response.PrebundleAmount = &prebundle
	}

	return response
}

// ToTransactionListResponse converts a ListTransactionsOutput to a
// TransactionListResponse DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		transactions[i] = ToTransactionResponse(txn)
	}

	return TransactionListResponse{
		Transactions: transactions,
		Pagination: TransactionPaginationResponse{
			Page:       output.Page,
			Limit:      output.Limit,
			Total:      output.Total,
			TotalPages: output.TotalPages,
		},
	}
}

// ToBundleResponse converts a ListChildrenOutput to a BundleResponse DTO.
func ToBundleResponse(output *bundle.ListChildrenOutput) BundleResponse {
	children := make([]TransactionResponse, len(output.Children))
	for i, child := range output.Children {
		children[i] = ToTransactionResponse(child)
	}
	return BundleResponse{
		Parent:   ToTransactionResponse(output.Parent),
		Children: children,
	}
}
