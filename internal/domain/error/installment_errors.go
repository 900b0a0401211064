// Package error defines domain-specific errors for the Wallet Ledger application.
package error

import "errors"

// Installment domain errors.
var (
	// ErrInstallmentNotFound is returned when an installment is not found in the system.
	ErrInstallmentNotFound = errors.New("installment not found")

	// ErrInstallmentNotOwnedByUser is returned when the installment does not belong to the user.
	ErrInstallmentNotOwnedByUser = errors.New("installment does not belong to user")

	// ErrPaymentNotFound is returned when the requested installment payment does not exist.
	ErrPaymentNotFound = errors.New("installment payment not found")

	// ErrPaymentAlreadyPaid is returned when paying a payment that is already paid.
	ErrPaymentAlreadyPaid = errors.New("installment payment already paid")

	// ErrInvalidInstallmentCount is returned when the number of installments is not positive.
	ErrInvalidInstallmentCount = errors.New("total installments must be positive")

	// ErrInvalidInstallmentAmount is returned when an installment amount is not positive.
	ErrInvalidInstallmentAmount = errors.New("installment amount must be positive")

	// ErrCustomAmountsMismatch is returned when custom per-installment amounts
	// do not sum to the installment's total amount.
	ErrCustomAmountsMismatch = errors.New("custom amounts must sum to the total amount")

	// ErrNotRecurring is returned when a recurring-only operation targets a fixed installment.
	ErrNotRecurring = errors.New("installment is not recurring")

	// ErrAdjustmentBeforePaid is returned when an adjustment's effective date
	// precedes an already-paid due date.
	ErrAdjustmentBeforePaid = errors.New("adjustment effective date precedes a paid payment")

	// ErrInsufficientBalance is returned when the source wallet cannot cover a payment.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrInstallmentInactive is returned when operating on a deactivated installment.
	ErrInstallmentInactive = errors.New("installment is inactive")
)

// InstallmentErrorCode defines error codes for installment errors.
// Format: INS-XXYYYY where XX is category and YYYY is specific error.
type InstallmentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInstallmentNotFound      InstallmentErrorCode = "INS-010001"
	ErrCodeInstallmentNotOwned      InstallmentErrorCode = "INS-010002"
	ErrCodeInvalidInstallmentCount  InstallmentErrorCode = "INS-010003"
	ErrCodeInvalidInstallmentAmount InstallmentErrorCode = "INS-010004"
	ErrCodeCustomAmountsMismatch    InstallmentErrorCode = "INS-010005"
	ErrCodeInstallmentInactive      InstallmentErrorCode = "INS-010006"

	// Payment errors (02XXXX)
	ErrCodePaymentNotFound     InstallmentErrorCode = "INS-020001"
	ErrCodePaymentAlreadyPaid  InstallmentErrorCode = "INS-020002"
	ErrCodeInsufficientBalance InstallmentErrorCode = "INS-020003"

	// Adjustment errors (03XXXX)
	ErrCodeNotRecurring         InstallmentErrorCode = "INS-030001"
	ErrCodeAdjustmentBeforePaid InstallmentErrorCode = "INS-030002"
)

// InstallmentError represents an installment error with code and message.
type InstallmentError struct {
	Code    InstallmentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InstallmentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InstallmentError) Unwrap() error {
	return e.Err
}

// NewInstallmentError creates a new InstallmentError with the given code and message.
func NewInstallmentError(code InstallmentErrorCode, message string, err error) *InstallmentError {
	return &InstallmentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
