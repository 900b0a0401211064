package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
)

type fakeQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.ReminderJob
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{jobs: make(map[uuid.UUID]*entity.ReminderJob)}
}

func (q *fakeQueue) Create(_ context.Context, job *entity.ReminderJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	return nil
}

func (q *fakeQueue) GetPendingJobs(_ context.Context, limit int) ([]*entity.ReminderJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []*entity.ReminderJob
	for _, job := range q.jobs {
		if job.Status == entity.ReminderStatusPending && !job.ScheduledAt.After(time.Now().UTC()) {
			pending = append(pending, job)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (q *fakeQueue) Update(_ context.Context, job *entity.ReminderJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	return nil
}

func (q *fakeQueue) HasPendingForUser(_ context.Context, userID uuid.UUID) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.UserID == userID &&
			(job.Status == entity.ReminderStatusPending || job.Status == entity.ReminderStatusProcessing) {
			return true, nil
		}
	}
	return false, nil
}

func (q *fakeQueue) DeleteOldSentJobs(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func (q *fakeQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.ReminderJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return nil, errors.New("reminder job not found")
	}
	return job, nil
}

func (q *fakeQueue) all() []*entity.ReminderJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	jobs := make([]*entity.ReminderJob, 0, len(q.jobs))
	for _, job := range q.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(context.Background(), email)
	return err == nil, nil
}

type fakeInstallmentRepo struct {
	installments map[uuid.UUID]*entity.Installment
}

func (r *fakeInstallmentRepo) Create(_ context.Context, installment *entity.Installment) error {
	r.installments[installment.ID] = installment
	return nil
}

func (r *fakeInstallmentRepo) FindByID(_ context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Installment, error) {
	installment, ok := r.installments[id]
	if !ok || installment.UserID != userID {
		return nil, domainerror.ErrInstallmentNotFound
	}
	return installment, nil
}

func (r *fakeInstallmentRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Installment, error) {
	var out []*entity.Installment
	for _, installment := range r.installments {
		if installment.UserID == userID {
			out = append(out, installment)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Installment, error) {
	all, _ := r.FindByUser(ctx, userID)
	var out []*entity.Installment
	for _, installment := range all {
		if installment.IsActive {
			out = append(out, installment)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) Update(_ context.Context, installment *entity.Installment) error {
	r.installments[installment.ID] = installment
	return nil
}

func (r *fakeInstallmentRepo) Delete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	delete(r.installments, id)
	return nil
}

func (r *fakeInstallmentRepo) CreatePayments(_ context.Context, payments []*entity.InstallmentPayment) error {
	for _, payment := range payments {
		installment := r.installments[payment.InstallmentID]
		installment.Payments = append(installment.Payments, payment)
	}
	return nil
}

func (r *fakeInstallmentRepo) UpdatePayment(_ context.Context, payment *entity.InstallmentPayment) error {
	installment := r.installments[payment.InstallmentID]
	for i, p := range installment.Payments {
		if p.ID == payment.ID {
			installment.Payments[i] = payment
		}
	}
	return nil
}

func (r *fakeInstallmentRepo) CreateAdjustment(_ context.Context, adjustment *entity.InstallmentAdjustment) error {
	installment := r.installments[adjustment.InstallmentID]
	installment.Adjustments = append(installment.Adjustments, adjustment)
	return nil
}

func (r *fakeInstallmentRepo) UsersWithPendingPayments(_ context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, installment := range r.installments {
		if !installment.IsActive || seen[installment.UserID] {
			continue
		}
		for _, payment := range installment.Payments {
			if payment.Status == entity.PaymentStatusPending {
				seen[installment.UserID] = true
				out = append(out, installment.UserID)
				break
			}
		}
	}
	return out, nil
}

func setupService(t *testing.T) (*Service, *fakeQueue, *entity.User, *fakeInstallmentRepo) {
	t.Helper()

	queue := newFakeQueue()
	user := entity.NewUser("ana@example.com", "Ana", "hash")
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{user.ID: user}}
	installments := &fakeInstallmentRepo{installments: make(map[uuid.UUID]*entity.Installment)}

	return NewService(queue, users, installments, "https://app.example.com"), queue, user, installments
}

func addPlan(repo *fakeInstallmentRepo, userID uuid.UUID, dueDates ...time.Time) *entity.Installment {
	amount := decimal.NewFromInt(100)
	installment := entity.NewInstallment(userID, "Car loan", "", amount.Mul(decimal.NewFromInt(int64(len(dueDates)))),
		len(dueDates), amount, "vehicle", dueDates[0], uuid.New())
	for k, due := range dueDates {
		installment.Payments = append(installment.Payments,
			entity.NewInstallmentPayment(installment.ID, k+1, due, amount))
	}
	repo.installments[installment.ID] = installment
	return installment
}

func TestServiceEnqueueDueReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("queues one digest covering overdue and upcoming payments", func(t *testing.T) {
		service, queue, user, installments := setupService(t)
		now := time.Now()
		addPlan(installments, user.ID, now.AddDate(0, 0, -3), now.AddDate(0, 0, 2), now.AddDate(0, 0, 60))

		if err := service.EnqueueDueReminders(ctx, user.ID, 7); err != nil {
			t.Fatalf("EnqueueDueReminders returned error: %v", err)
		}

		jobs := queue.all()
		if len(jobs) != 1 {
			t.Fatalf("got %d jobs, want 1", len(jobs))
		}
		job := jobs[0]
		if job.RecipientEmail != "ana@example.com" {
			t.Errorf("recipient = %q", job.RecipientEmail)
		}
		if len(job.PaymentIDs) != 2 {
			t.Errorf("digest covers %d payments, want 2", len(job.PaymentIDs))
		}
		if !strings.Contains(job.Subject, "overdue") {
			t.Errorf("subject %q should mention the overdue payment", job.Subject)
		}
		if !strings.Contains(job.Text, "Car loan") {
			t.Errorf("text body missing installment name: %q", job.Text)
		}
	})

	t.Run("does nothing when no payments are due", func(t *testing.T) {
		service, queue, user, installments := setupService(t)
		addPlan(installments, user.ID, time.Now().AddDate(0, 2, 0))

		if err := service.EnqueueDueReminders(ctx, user.ID, 7); err != nil {
			t.Fatalf("EnqueueDueReminders returned error: %v", err)
		}
		if len(queue.all()) != 0 {
			t.Errorf("expected no jobs")
		}
	})

	t.Run("does not stack a second digest while one is pending", func(t *testing.T) {
		service, queue, user, installments := setupService(t)
		addPlan(installments, user.ID, time.Now().AddDate(0, 0, -1))

		for i := 0; i < 2; i++ {
			if err := service.EnqueueDueReminders(ctx, user.ID, 7); err != nil {
				t.Fatalf("EnqueueDueReminders returned error: %v", err)
			}
		}
		if got := len(queue.all()); got != 1 {
			t.Errorf("got %d jobs, want 1", got)
		}
	})

	t.Run("paid payments never appear in the digest", func(t *testing.T) {
		service, queue, user, installments := setupService(t)
		plan := addPlan(installments, user.ID, time.Now().AddDate(0, 0, -5))
		paid := decimal.NewFromInt(100)
		paidDate := time.Now()
		plan.Payments[0].Status = entity.PaymentStatusPaid
		plan.Payments[0].PaidAmount = &paid
		plan.Payments[0].PaidDate = &paidDate

		if err := service.EnqueueDueReminders(ctx, user.ID, 7); err != nil {
			t.Fatalf("EnqueueDueReminders returned error: %v", err)
		}
		if len(queue.all()) != 0 {
			t.Errorf("expected no jobs when everything is paid")
		}
	})
}

func TestServiceSweepOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("enqueues one digest per user with due payments", func(t *testing.T) {
		queue := newFakeQueue()
		ana := entity.NewUser("ana@example.com", "Ana", "hash")
		bruno := entity.NewUser("bruno@example.com", "Bruno", "hash")
		users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{ana.ID: ana, bruno.ID: bruno}}
		installments := &fakeInstallmentRepo{installments: make(map[uuid.UUID]*entity.Installment)}
		service := NewService(queue, users, installments, "")

		now := time.Now()
		addPlan(installments, ana.ID, now.AddDate(0, 0, -2))
		addPlan(installments, bruno.ID, now.AddDate(0, 0, 3))

		if err := service.SweepOnce(ctx, 7); err != nil {
			t.Fatalf("SweepOnce returned error: %v", err)
		}

		jobs := queue.all()
		if len(jobs) != 2 {
			t.Fatalf("got %d jobs, want 2", len(jobs))
		}
		recipients := map[string]bool{}
		for _, job := range jobs {
			recipients[job.RecipientEmail] = true
		}
		if !recipients["ana@example.com"] || !recipients["bruno@example.com"] {
			t.Errorf("recipients = %v", recipients)
		}
	})

	t.Run("users with only far-future payments get nothing", func(t *testing.T) {
		service, queue, user, installments := setupService(t)
		addPlan(installments, user.ID, time.Now().AddDate(0, 2, 0))

		if err := service.SweepOnce(ctx, 7); err != nil {
			t.Fatalf("SweepOnce returned error: %v", err)
		}
		if len(queue.all()) != 0 {
			t.Errorf("expected no jobs")
		}
	})

	t.Run("a second sweep does not duplicate pending digests", func(t *testing.T) {
		service, queue, user, installments := setupService(t)
		addPlan(installments, user.ID, time.Now().AddDate(0, 0, -1))

		for i := 0; i < 2; i++ {
			if err := service.SweepOnce(ctx, 7); err != nil {
				t.Fatalf("SweepOnce returned error: %v", err)
			}
		}
		if got := len(queue.all()); got != 1 {
			t.Errorf("got %d jobs, want 1", got)
		}
	})
}

func TestWorker(t *testing.T) {
	ctx := context.Background()

	newJob := func(userID uuid.UUID) *entity.ReminderJob {
		return entity.NewReminderJob(userID, "ana@example.com", "Ana",
			"Payment due", "<p>digest</p>", "digest", []string{uuid.NewString()})
	}

	t.Run("sends pending jobs and records the provider id", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockEmailSender()
		worker := NewWorker(queue, sender, DefaultWorkerConfig())

		job := newJob(uuid.New())
		if err := queue.Create(ctx, job); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		worker.ProcessNow(ctx)

		if len(sender.SentEmails) != 1 {
			t.Fatalf("sent %d emails, want 1", len(sender.SentEmails))
		}
		stored, err := queue.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if stored.Status != entity.ReminderStatusSent {
			t.Errorf("status = %s, want sent", stored.Status)
		}
		if stored.ResendID == "" {
			t.Error("resend id not recorded")
		}
	})

	t.Run("temporary failure schedules a retry", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockEmailSender()
		sender.SetFailure(errors.New("rate limited"), false)
		worker := NewWorker(queue, sender, DefaultWorkerConfig())

		job := newJob(uuid.New())
		if err := queue.Create(ctx, job); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		worker.ProcessNow(ctx)

		stored, err := queue.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if stored.Status != entity.ReminderStatusPending {
			t.Errorf("status = %s, want pending for retry", stored.Status)
		}
		if stored.Attempts != 1 {
			t.Errorf("attempts = %d, want 1", stored.Attempts)
		}
	})

	t.Run("permanent failure stops retrying", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockEmailSender()
		sender.SetFailure(errors.New("invalid recipient"), true)
		worker := NewWorker(queue, sender, DefaultWorkerConfig())

		job := newJob(uuid.New())
		if err := queue.Create(ctx, job); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		worker.ProcessNow(ctx)

		stored, err := queue.GetByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if stored.Status != entity.ReminderStatusFailed {
			t.Errorf("status = %s, want failed", stored.Status)
		}
	})
}
