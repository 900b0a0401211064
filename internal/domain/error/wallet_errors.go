// Package error defines domain-specific errors for the Wallet Ledger application.
package error

import "errors"

// Wallet domain errors.
var (
	// ErrWalletNotFound is returned when a wallet is not found in the system.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletNotOwnedByUser is returned when the wallet does not belong to the user.
	ErrWalletNotOwnedByUser = errors.New("wallet does not belong to user")

	// ErrInvalidWalletType is returned when the wallet type is invalid.
	ErrInvalidWalletType = errors.New("invalid wallet type")

	// ErrWalletNameRequired is returned when the wallet name is empty.
	ErrWalletNameRequired = errors.New("wallet name is required")

	// ErrWalletHasTransactions is returned when deleting a wallet that still
	// has transactions referencing it.
	ErrWalletHasTransactions = errors.New("wallet still has transactions")
)

// WalletErrorCode defines error codes for wallet errors.
// Format: WAL-XXYYYY where XX is category and YYYY is specific error.
type WalletErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeWalletNotFound        WalletErrorCode = "WAL-010001"
	ErrCodeWalletNotOwned        WalletErrorCode = "WAL-010002"
	ErrCodeInvalidWalletType     WalletErrorCode = "WAL-010003"
	ErrCodeWalletNameRequired    WalletErrorCode = "WAL-010004"
	ErrCodeWalletHasTransactions WalletErrorCode = "WAL-010005"
)

// WalletError represents a wallet error with code and message.
type WalletError struct {
	Code    WalletErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *WalletError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *WalletError) Unwrap() error {
	return e.Err
}

// NewWalletError creates a new WalletError with the given code and message.
func NewWalletError(code WalletErrorCode, message string, err error) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
