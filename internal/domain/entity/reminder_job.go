// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReminderStatus represents the status of a reminder job in the queue.
type ReminderStatus string

const (
	ReminderStatusPending    ReminderStatus = "pending"
	ReminderStatusProcessing ReminderStatus = "processing"
	ReminderStatusSent       ReminderStatus = "sent"
	ReminderStatusFailed     ReminderStatus = "failed"
)

// ReminderJob represents a queued payment-reminder email. Each job is a
// digest covering every upcoming or overdue installment payment found for
// one user during a reminder sweep.
type ReminderJob struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	RecipientEmail string
	RecipientName  string
	Subject        string
	HTML           string
	Text           string
	PaymentIDs     []string // Installment payment IDs covered by the digest
	Status         ReminderStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ResendID       string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewReminderJob creates a new ReminderJob with default values.
func NewReminderJob(userID uuid.UUID, recipientEmail, recipientName, subject, html, text string, paymentIDs []string) *ReminderJob {
	now := time.Now().UTC()
	return &ReminderJob{
		ID:             uuid.New(),
		UserID:         userID,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		HTML:           html,
		Text:           text,
		PaymentIDs:     paymentIDs,
		Status:         ReminderStatusPending,
		Attempts:       0,
		MaxAttempts:    3,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing marks the job as currently being processed.
func (r *ReminderJob) MarkProcessing() {
	r.Status = ReminderStatusProcessing
}

// MarkSent marks the job as successfully sent.
func (r *ReminderJob) MarkSent(resendID string) {
	r.Status = ReminderStatusSent
	r.ResendID = resendID
	now := time.Now().UTC()
	r.ProcessedAt = &now
}

// MarkFailed marks the job as failed and schedules a retry if attempts remain.
func (r *ReminderJob) MarkFailed(err error, permanent bool) {
	r.Attempts++
	r.LastError = err.Error()

	if permanent || r.Attempts >= r.MaxAttempts {
		r.Status = ReminderStatusFailed
		now := time.Now().UTC()
		r.ProcessedAt = &now
	} else {
		r.Status = ReminderStatusPending
		r.ScheduledAt = r.calculateNextRetry()
	}
}

// calculateNextRetry calculates the next retry time using exponential backoff.
// Retry delays: 0s (immediate), 1min, 5min
func (r *ReminderJob) calculateNextRetry() time.Time {
	delays := []time.Duration{0, 1 * time.Minute, 5 * time.Minute}
	if r.Attempts < len(delays) {
		return time.Now().UTC().Add(delays[r.Attempts])
	}
	return time.Now().UTC().Add(5 * time.Minute)
}

// IsReadyToProcess returns true if the job is ready to be processed.
func (r *ReminderJob) IsReadyToProcess() bool {
	return r.Status == ReminderStatusPending && time.Now().UTC().After(r.ScheduledAt)
}
