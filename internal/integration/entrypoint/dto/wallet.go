// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/wallet-ledger/backend/internal/application/usecase/wallet"
)

// CreateWalletRequest represents the request body for wallet creation.
type CreateWalletRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Type           string  `json:"type" binding:"required,oneof=checking savings credit_card investment cash other"`
	OpeningBalance float64 `json:"opening_balance"`
}

// UpdateWalletRequest represents the request body for wallet update.
type UpdateWalletRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Type *string `json:"type,omitempty" binding:"omitempty,oneof=checking savings credit_card investment cash other"`
}

// WalletResponse represents a single wallet in API responses.
type WalletResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletListResponse represents the response for listing wallets.
type WalletListResponse struct {
	Wallets []WalletResponse `json:"wallets"`
	Total   string           `json:"total"`
}

// RecalculateBalanceResponse represents the response for a balance
// recalculation.
type RecalculateBalanceResponse struct {
	WalletID        string `json:"wallet_id"`
	PreviousBalance string `json:"previous_balance"`
	Balance         string `json:"balance"`
	Drift           string `json:"drift"`
}

// ToWalletResponse converts a WalletOutput to a WalletResponse DTO.
func ToWalletResponse(w *wallet.WalletOutput) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		UserID:    w.UserID.String(),
		Name:      w.Name,
		Type:      string(w.Type),
		Balance:   w.Balance.StringFixed(2),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// ToWalletListResponse converts a ListWalletsOutput to a WalletListResponse DTO.
func ToWalletListResponse(output *wallet.ListWalletsOutput) WalletListResponse {
	wallets := make([]WalletResponse, len(output.Wallets))
	for i, w := range output.Wallets {
		wallets[i] = ToWalletResponse(w)
	}
	return WalletListResponse{
		Wallets: wallets,
		Total:   output.Total.StringFixed(2),
	}
}
