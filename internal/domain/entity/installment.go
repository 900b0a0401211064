// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringType represents the period of a recurring installment.
type RecurringType string

const (
	RecurringTypeMonthly RecurringType = "monthly"
	RecurringTypeYearly  RecurringType = "yearly"
)

// PaymentStatus represents the stored state of an installment payment.
//
// Only pending and paid are ever persisted. Overdue is a read-time label
// derived from pending + past due date; it reverts to plain pending
// semantics the instant the payment is paid.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue" // derived, never stored
)

// Installment represents a planned multi-period payment obligation.
//
// Fixed installments have a known TotalInstallments and terminate; recurring
// installments (rent, subscriptions) generate payments ahead over a rolling
// horizon until EndDate or deactivation and may have their per-period amount
// adjusted over time.
type Installment struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	Description         string
	TotalAmount         decimal.Decimal
	TotalInstallments   int
	InstallmentAmount   decimal.Decimal // Current per-period amount
	Category            string
	StartDate           time.Time
	SourceWalletID      uuid.UUID
	DestinationWalletID *uuid.UUID
	IsRecurring         bool
	RecurringType       RecurringType
	EndDate             *time.Time
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Adjustments []*InstallmentAdjustment
	Payments    []*InstallmentPayment
}

// NewInstallment creates a new Installment entity. Payments are generated
// by the scheduler, not here.
func NewInstallment(
	userID uuid.UUID,
	name string,
	description string,
	totalAmount decimal.Decimal,
	totalInstallments int,
	installmentAmount decimal.Decimal,
	category string,
	startDate time.Time,
	sourceWalletID uuid.UUID,
) *Installment {
	now := time.Now().UTC()
	return &Installment{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		Description:       description,
		TotalAmount:       totalAmount,
		TotalInstallments: totalInstallments,
		InstallmentAmount: installmentAmount,
		Category:          category,
		StartDate:         startDate,
		SourceWalletID:    sourceWalletID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// InstallmentPayment represents one scheduled period of an installment.
type InstallmentPayment struct {
	ID                uuid.UUID
	InstallmentID     uuid.UUID
	InstallmentNumber int
	DueDate           time.Time
	ScheduledAmount   decimal.Decimal
	PaidAmount        *decimal.Decimal
	PaidDate          *time.Time
	Status            PaymentStatus
	TransactionID     *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// InstallmentAdjustment records a recurring-amount change, e.g. a rent
// increase. Past payments are never altered by an adjustment.
type InstallmentAdjustment struct {
	ID             uuid.UUID
	InstallmentID  uuid.UUID
	EffectiveDate  time.Time
	PreviousAmount decimal.Decimal
	NewAmount      decimal.Decimal
	Reason         string
	CreatedAt      time.Time
}

// NewInstallmentPayment creates a pending payment for the given period.
func NewInstallmentPayment(installmentID uuid.UUID, number int, dueDate time.Time, scheduledAmount decimal.Decimal) *InstallmentPayment {
	now := time.Now().UTC()
	return &InstallmentPayment{
		ID:                uuid.New(),
		InstallmentID:     installmentID,
		InstallmentNumber: number,
		DueDate:           dueDate,
		ScheduledAmount:   scheduledAmount,
		Status:            PaymentStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// EffectiveStatus returns the read-time status of the payment: pending
// payments past their due date report overdue without any stored change.
func (p *InstallmentPayment) EffectiveStatus(now time.Time) PaymentStatus {
	if p.Status == PaymentStatusPending && p.DueDate.Before(truncateToDay(now)) {
		return PaymentStatusOverdue
	}
	return p.Status
}

// IsPaidOnTime reports whether the payment was paid on or before its due date.
func (p *InstallmentPayment) IsPaidOnTime() bool {
	return p.Status == PaymentStatusPaid && p.PaidDate != nil && !p.PaidDate.After(p.DueDate)
}

// DaysLate returns how many whole days after the due date the payment was
// made, or zero for on-time or unpaid payments.
func (p *InstallmentPayment) DaysLate() int {
	if p.Status != PaymentStatusPaid || p.PaidDate == nil || !p.PaidDate.After(p.DueDate) {
		return 0
	}
	return int(p.PaidDate.Sub(p.DueDate).Hours() / 24)
}

// Period returns the spacing between two consecutive payments.
func (i *Installment) Period() RecurringType {
	if i.IsRecurring && i.RecurringType == RecurringTypeYearly {
		return RecurringTypeYearly
	}
	return RecurringTypeMonthly
}

// DueDateFor returns the due date of the k-th period (zero-based).
func (i *Installment) DueDateFor(k int) time.Time {
	if i.Period() == RecurringTypeYearly {
		return i.StartDate.AddDate(k, 0, 0)
	}
	return i.StartDate.AddDate(0, k, 0)
}

// PaidCount returns the number of paid payments.
func (i *Installment) PaidCount() int {
	count := 0
	for _, p := range i.Payments {
		if p.Status == PaymentStatusPaid {
			count++
		}
	}
	return count
}

// TotalPaid sums the paid amounts of all paid payments.
func (i *Installment) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		if p.Status == PaymentStatusPaid && p.PaidAmount != nil {
			total = total.Add(*p.PaidAmount)
		}
	}
	return total
}

// IsCompleted reports whether a fixed installment has all periods paid.
// Recurring installments never complete; they end or are deactivated.
func (i *Installment) IsCompleted() bool {
	if i.IsRecurring {
		return false
	}
	return i.PaidCount() >= i.TotalInstallments
}

// NextDueDate returns the due date of the earliest unpaid payment, or nil
// when everything generated so far is paid.
func (i *Installment) NextDueDate() *time.Time {
	var next *time.Time
	for _, p := range i.Payments {
		if p.Status != PaymentStatusPending {
			continue
		}
		if next == nil || p.DueDate.Before(*next) {
			due := p.DueDate
			next = &due
		}
	}
	return next
}

// truncateToDay drops the time-of-day component, keeping date comparisons
// stable regardless of when during the day a query runs.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
