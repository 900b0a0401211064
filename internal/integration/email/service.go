// Package email provides payment reminder emails via Resend.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/adapter"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

// DefaultReminderHorizonDays is how far ahead the reminder sweep looks for
// upcoming payments.
const DefaultReminderHorizonDays = 7

// sweepInterval is how often the background sweep re-scans for users with
// due payments. Duplicate digests between runs are suppressed by the
// pending-job check in EnqueueDueReminders.
const sweepInterval = 1 * time.Hour

// sentJobRetentionDays is how long delivered reminder jobs are kept before
// the sweep prunes them.
const sentJobRetentionDays = 30

// Service builds payment reminder digests and queues them for delivery.
// Each digest covers every overdue and soon-due installment payment for one
// user, so a sweep produces at most one email per user.
type Service struct {
	queue           adapter.ReminderQueueRepository
	userRepo        adapter.UserRepository
	installmentRepo adapter.InstallmentRepository
	appBaseURL      string
}

// NewService creates a new reminder email service.
func NewService(
	queue adapter.ReminderQueueRepository,
	userRepo adapter.UserRepository,
	installmentRepo adapter.InstallmentRepository,
	appBaseURL string,
) *Service {
	return &Service{
		queue:           queue,
		userRepo:        userRepo,
		installmentRepo: installmentRepo,
		appBaseURL:      appBaseURL,
	}
}

// reminderLine is one row of the digest.
type reminderLine struct {
	installmentName string
	dueDate         time.Time
	amount          decimal.Decimal
	overdue         bool
	paymentID       uuid.UUID
}

// EnqueueDueReminders scans the user's active installments and queues one
// digest covering every overdue payment and every payment due within
// horizonDays. No job is queued when nothing is due or when a reminder for
// the user is already pending.
func (s *Service) EnqueueDueReminders(ctx context.Context, userID uuid.UUID, horizonDays int) error {
	if horizonDays <= 0 {
		horizonDays = DefaultReminderHorizonDays
	}

	pending, err := s.queue.HasPendingForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check pending reminders: %w", err)
	}
	if pending {
		return nil
	}

	installments, err := s.installmentRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list installments: %w", err)
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, horizonDays)

	var lines []reminderLine
	for _, installment := range installments {
		for _, payment := range installment.Payments {
			if payment.Status != entity.PaymentStatusPending {
				continue
			}
			overdue := payment.EffectiveStatus(now) == entity.PaymentStatusOverdue
			if !overdue && payment.DueDate.After(horizon) {
				continue
			}
			lines = append(lines, reminderLine{
				installmentName: installment.Name,
				dueDate:         payment.DueDate,
				amount:          payment.ScheduledAmount,
				overdue:         overdue,
				paymentID:       payment.ID,
			})
		}
	}

	if len(lines) == 0 {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	subject, html, text := s.renderDigest(user.Name, lines)

	paymentIDs := make([]string, len(lines))
	for i, line := range lines {
		paymentIDs[i] = line.paymentID.String()
	}

	job := entity.NewReminderJob(userID, user.Email, user.Name, subject, html, text, paymentIDs)
	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue payment reminder",
			err,
		)
	}
	return nil
}

// SweepOnce runs one reminder pass: every user with a pending payment on an
// active installment gets EnqueueDueReminders applied. A failure for one
// user does not stop the sweep; the first error is returned after the pass.
func (s *Service) SweepOnce(ctx context.Context, horizonDays int) error {
	userIDs, err := s.installmentRepo.UsersWithPendingPayments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users with pending payments: %w", err)
	}

	var firstErr error
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.EnqueueDueReminders(ctx, userID, horizonDays); err != nil {
			slog.Error("Failed to enqueue reminder digest", "user_id", userID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// StartSweep runs SweepOnce immediately and then once per sweep interval.
// It blocks until the context is cancelled.
func (s *Service) StartSweep(ctx context.Context, horizonDays int) {
	slog.Info("Reminder sweep started",
		"interval", sweepInterval,
		"horizon_days", horizonDays,
	)

	if err := s.SweepOnce(ctx, horizonDays); err != nil {
		slog.Error("Reminder sweep failed", "error", err)
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder sweep shutting down")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx, horizonDays); err != nil {
				slog.Error("Reminder sweep failed", "error", err)
			}
			s.pruneSentJobs(ctx)
		}
	}
}

// pruneSentJobs drops delivered jobs past the retention window.
func (s *Service) pruneSentJobs(ctx context.Context) {
	deleted, err := s.queue.DeleteOldSentJobs(ctx, sentJobRetentionDays)
	if err != nil {
		slog.Error("Failed to prune sent reminder jobs", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Pruned sent reminder jobs", "count", deleted)
	}
}

// renderDigest builds the subject and both bodies of a reminder digest.
func (s *Service) renderDigest(userName string, lines []reminderLine) (subject, html, text string) {
	overdueCount := 0
	for _, line := range lines {
		if line.overdue {
			overdueCount++
		}
	}

	switch {
	case overdueCount > 0:
		subject = fmt.Sprintf("You have %d overdue payment(s)", overdueCount)
	case len(lines) == 1:
		subject = fmt.Sprintf("Payment due %s: %s", lines[0].dueDate.Format("Jan 2"), lines[0].installmentName)
	default:
		subject = fmt.Sprintf("%d payments due soon", len(lines))
	}

	var htmlBuilder, textBuilder strings.Builder

	htmlBuilder.WriteString(fmt.Sprintf("<p>Hi %s,</p>", userName))
	htmlBuilder.WriteString("<p>Here is a summary of your installment payments:</p><ul>")
	textBuilder.WriteString(fmt.Sprintf("Hi %s,\n\nHere is a summary of your installment payments:\n\n", userName))

	for _, line := range lines {
		label := "due"
		if line.overdue {
			label = "OVERDUE, was due"
		}
		row := fmt.Sprintf("%s: %s %s %s",
			line.installmentName, line.amount.StringFixed(2), label, line.dueDate.Format("Jan 2, 2006"))
		htmlBuilder.WriteString("<li>" + row + "</li>")
		textBuilder.WriteString("- " + row + "\n")
	}

	htmlBuilder.WriteString("</ul>")
	if s.appBaseURL != "" {
		htmlBuilder.WriteString(fmt.Sprintf(`<p><a href="%s/installments">Review your installments</a></p>`, s.appBaseURL))
		textBuilder.WriteString(fmt.Sprintf("\nReview your installments: %s/installments\n", s.appBaseURL))
	}

	return subject, htmlBuilder.String(), textBuilder.String()
}
