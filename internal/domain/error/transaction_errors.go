// Package error defines domain-specific errors for the Wallet Ledger application.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when user is not authorized to modify a transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidTransactionAmount is returned when the transaction amount is invalid.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrTransferDestinationRequired is returned when a transfer has no destination wallet.
	ErrTransferDestinationRequired = errors.New("transfer requires a destination wallet")

	// ErrTransferSameWallet is returned when a transfer names the same wallet as source and destination.
	ErrTransferSameWallet = errors.New("transfer source and destination wallets must differ")

	// ErrDescriptionTooLong is returned when the transaction description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrTransactionIsChild is returned when a bundle child is passed to an
	// operation that only accepts leaf or parent transactions.
	ErrTransactionIsChild = errors.New("transaction is a bundle child")

	// ErrTransactionNotChild is returned when a bundle operation receives a
	// transaction that is not a child of the given parent.
	ErrTransactionNotChild = errors.New("transaction is not a child of this bundle")

	// ErrBundleAmountLocked is returned when editing the amount of a parent
	// whose amount is the cached sum of its children.
	ErrBundleAmountLocked = errors.New("bundle amount is derived from its children")

	// ErrInvalidQuantity is returned when a child line-item quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTransactionType   TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionAmount TransactionErrorCode = "TXN-010002"
	ErrCodeTransactionNotFound      TransactionErrorCode = "TXN-010003"
	ErrCodeNotAuthorizedTransaction TransactionErrorCode = "TXN-010004"
	ErrCodeTransferDestination      TransactionErrorCode = "TXN-010005"
	ErrCodeTransferSameWallet       TransactionErrorCode = "TXN-010006"
	ErrCodeDescriptionTooLong       TransactionErrorCode = "TXN-010007"
	ErrCodeInvalidQuantity          TransactionErrorCode = "TXN-010008"

	// Bundle errors (02XXXX)
	ErrCodeTransactionIsChild  TransactionErrorCode = "TXN-020001"
	ErrCodeTransactionNotChild TransactionErrorCode = "TXN-020002"
	ErrCodeBundleAmountLocked  TransactionErrorCode = "TXN-020003"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
