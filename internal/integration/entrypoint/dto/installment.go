// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/wallet-ledger/backend/internal/application/usecase/installment"
)

// CreateInstallmentRequest represents the request body for installment creation.
type CreateInstallmentRequest struct {
	Name                string    `json:"name" binding:"required,min=1,max=100"`
	Description         string    `json:"description,omitempty" binding:"omitempty,max=255"`
	TotalAmount         float64   `json:"total_amount,omitempty"`
	TotalInstallments   int       `json:"total_installments,omitempty"`
	InstallmentAmount   float64   `json:"installment_amount,omitempty"`
	CustomAmounts       []float64 `json:"custom_amounts,omitempty"`
	Category            string    `json:"category,omitempty" binding:"omitempty,max=100"`
	StartDate           string    `json:"start_date" binding:"required"`
	SourceWalletID      string    `json:"source_wallet_id" binding:"required"`
	DestinationWalletID *string   `json:"destination_wallet_id,omitempty"`
	IsRecurring         bool      `json:"is_recurring"`
	RecurringType       string    `json:"recurring_type,omitempty" binding:"omitempty,oneof=monthly yearly"`
	EndDate             *string   `json:"end_date,omitempty"`
}

// UpdateInstallmentRequest represents the request body for installment update.
type UpdateInstallmentRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	// ClearEndDate removes an open-ended recurring plan's end date.
	ClearEndDate bool `json:"clear_end_date,omitempty"`
}

// PayInstallmentRequest represents the request body for paying a period.
type PayInstallmentRequest struct {
	InstallmentNumber int      `json:"installment_number" binding:"required,min=1"`
	PaidAmount        *float64 `json:"paid_amount,omitempty"`
	PaidDate          *string  `json:"paid_date,omitempty"`
	TransactionID     *string  `json:"transaction_id,omitempty"`
}

// AdjustRecurringRequest represents the request body for a recurring amount
// adjustment.
type AdjustRecurringRequest struct {
	NewAmount     float64 `json:"new_amount" binding:"required"`
	Reason        string  `json:"reason,omitempty" binding:"omitempty,max=255"`
	EffectiveDate string  `json:"effective_date" binding:"required"`
}

// InstallmentPaymentResponse represents one scheduled payment in API responses.
type InstallmentPaymentResponse struct {
	ID                string  `json:"id"`
	InstallmentID     string  `json:"installment_id"`
	InstallmentNumber int     `json:"installment_number"`
	DueDate           string  `json:"due_date"`
	ScheduledAmount   string  `json:"scheduled_amount"`
	PaidAmount        *string `json:"paid_amount,omitempty"`
	PaidDate          *string `json:"paid_date,omitempty"`
	Status            string  `json:"status"`
	TransactionID     *string `json:"transaction_id,omitempty"`
}

// InstallmentAdjustmentResponse represents one recurring-amount change.
type InstallmentAdjustmentResponse struct {
	ID             string    `json:"id"`
	EffectiveDate  string    `json:"effective_date"`
	PreviousAmount string    `json:"previous_amount"`
	NewAmount      string    `json:"new_amount"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// InstallmentResponse represents a single installment in API responses.
type InstallmentResponse struct {
	ID                  string                          `json:"id"`
	UserID              string                          `json:"user_id"`
	Name                string                          `json:"name"`
	Description         string                          `json:"description,omitempty"`
	TotalAmount         string                          `json:"total_amount"`
	TotalInstallments   int                             `json:"total_installments"`
	InstallmentAmount   string                          `json:"installment_amount"`
	Category            string                          `json:"category,omitempty"`
	StartDate           string                          `json:"start_date"`
	SourceWalletID      string                          `json:"source_wallet_id"`
	DestinationWalletID *string                         `json:"destination_wallet_id,omitempty"`
	IsRecurring         bool                            `json:"is_recurring"`
	RecurringType       string                          `json:"recurring_type,omitempty"`
	EndDate             *string                         `json:"end_date,omitempty"`
	IsActive            bool                            `json:"is_active"`
	PaidCount           int                             `json:"paid_count"`
	TotalPaid           string                          `json:"total_paid"`
	IsCompleted         bool                            `json:"is_completed"`
	NextDueDate         *string                         `json:"next_due_date,omitempty"`
	Payments            []InstallmentPaymentResponse    `json:"payments,omitempty"`
	Adjustments         []InstallmentAdjustmentResponse `json:"adjustments,omitempty"`
	CreatedAt           time.Time                       `json:"created_at"`
	UpdatedAt           time.Time                       `json:"updated_at"`
}

// InstallmentListResponse represents the response for listing installments.
type InstallmentListResponse struct {
	Installments []InstallmentResponse `json:"installments"`
	Total        int                   `json:"total"`
}

// PayInstallmentResponse represents the response for paying a period.
type PayInstallmentResponse struct {
	Payment       InstallmentPaymentResponse `json:"payment"`
	Installment   InstallmentResponse        `json:"installment"`
	TransactionID string                     `json:"transaction_id"`
}

// AdjustRecurringResponse represents the response for a recurring adjustment.
type AdjustRecurringResponse struct {
	Installment      InstallmentResponse           `json:"installment"`
	Adjustment       InstallmentAdjustmentResponse `json:"adjustment"`
	RepricedPayments int                           `json:"repriced_payments"`
}

// ScheduledPaymentResponse represents a payment paired with its installment,
// used by the upcoming and overdue listings.
type ScheduledPaymentResponse struct {
	Payment         InstallmentPaymentResponse `json:"payment"`
	InstallmentID   string                     `json:"installment_id"`
	InstallmentName string                     `json:"installment_name"`
	Category        string                     `json:"category,omitempty"`
}

// ScheduledPaymentListResponse represents the upcoming/overdue listing response.
type ScheduledPaymentListResponse struct {
	Payments []ScheduledPaymentResponse `json:"payments"`
	Total    int                        `json:"total"`
}

// MonthProjectionResponse represents the committed amount of one calendar month.
type MonthProjectionResponse struct {
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	Total        string   `json:"total"`
	Installments []string `json:"installments"`
}

// ProjectionListResponse represents the commitment projection response.
type ProjectionListResponse struct {
	Projections []MonthProjectionResponse `json:"projections"`
}

// CompletionProjectionResponse represents a plan's projected completion date.
type CompletionProjectionResponse struct {
	InstallmentID   string `json:"installment_id"`
	InstallmentName string `json:"installment_name"`
	CompletionDate  string `json:"completion_date"`
}

// InstallmentSummaryResponse represents the aggregated installment position.
type InstallmentSummaryResponse struct {
	ActiveCount        int                            `json:"active_count"`
	MonthlyCommitment  string                         `json:"monthly_commitment"`
	UpcomingCount      int                            `json:"upcoming_count"`
	UpcomingAmount     string                         `json:"upcoming_amount"`
	OverdueCount       int                            `json:"overdue_count"`
	OverdueAmount      string                         `json:"overdue_amount"`
	CompletedThisMonth int                            `json:"completed_this_month"`
	Completions        []CompletionProjectionResponse `json:"completions"`
	Gamification       *GamificationStateResponse     `json:"gamification,omitempty"`
}

// ToInstallmentPaymentResponse converts a PaymentOutput to its DTO.
func ToInstallmentPaymentResponse(payment *installment.PaymentOutput) InstallmentPaymentResponse {
	response := InstallmentPaymentResponse{
		ID:                payment.ID.String(),
		InstallmentID:     payment.InstallmentID.String(),
		InstallmentNumber: payment.InstallmentNumber,
		DueDate:           payment.DueDate.Format("2006-01-02"),
		ScheduledAmount:   payment.ScheduledAmount.StringFixed(2),
		Status:            string(payment.Status),
	}
	if payment.PaidAmount != nil {
		paidAmount := payment.PaidAmount.StringFixed(2)
		response.PaidAmount = &paidAmount
	}
	if payment.PaidDate != nil {
		paidDate := payment.PaidDate.Format("2006-01-02")
		response.PaidDate = &paidDate
	}
	if payment.TransactionID != nil {
		transactionID := payment.TransactionID.String()
		response.TransactionID = &transactionID
	}
	return response
}

// ToInstallmentAdjustmentResponse converts an AdjustmentOutput to its DTO.
func ToInstallmentAdjustmentResponse(adjustment *installment.AdjustmentOutput) InstallmentAdjustmentResponse {
	return InstallmentAdjustmentResponse{
		ID:             adjustment.ID.String(),
		EffectiveDate:  adjustment.EffectiveDate.Format("2006-01-02"),
		PreviousAmount: adjustment.PreviousAmount.StringFixed(2),
		NewAmount:      adjustment.NewAmount.StringFixed(2),
		Reason:         adjustment.Reason,
		CreatedAt:      adjustment.CreatedAt,
	}
}

// ToInstallmentResponse converts an InstallmentOutput to its DTO.
func ToInstallmentResponse(output *installment.InstallmentOutput) InstallmentResponse {
	response := InstallmentResponse{
		ID:                output.ID.String(),
		UserID:            output.UserID.String(),
		Name:              output.Name,
		Description:       output.Description,
		TotalAmount:       output.TotalAmount.StringFixed(2),
		TotalInstallments: output.TotalInstallments,
		InstallmentAmount: output.InstallmentAmount.StringFixed(2),
		Category:          output.Category,
		StartDate:         output.StartDate.Format("2006-01-02"),
		SourceWalletID:    output.SourceWalletID.String(),
		IsRecurring:       output.IsRecurring,
		RecurringType:     string(output.RecurringType),
		IsActive:          output.IsActive,
		PaidCount:         output.PaidCount,
		TotalPaid:         output.TotalPaid.StringFixed(2),
		IsCompleted:       output.IsCompleted,
		CreatedAt:         output.CreatedAt,
		UpdatedAt:         output.UpdatedAt,
	}

	if output.DestinationWalletID != nil {
		destination := output.DestinationWalletID.String()
		response.DestinationWalletID = &destination
	}
	if output.EndDate != nil {
		endDate := output.EndDate.Format("2006-01-02")
		response.EndDate = &endDate
	}
	if output.NextDueDate != nil {
		nextDue := output.NextDueDate.Format("2006-01-02")
		response.NextDueDate = &nextDue
	}

	for _, payment := range output.Payments {
		response.Payments = append(response.Payments, ToInstallmentPaymentResponse(payment))
	}
	for _, adjustment := range output.Adjustments {
		response.Adjustments = append(response.Adjustments, ToInstallmentAdjustmentResponse(adjustment))
	}

	return response
}

// ToScheduledPaymentListResponse converts scheduled payment rows to the
// listing DTO.
func ToScheduledPaymentListResponse(payments []*installment.ScheduledPaymentOutput) ScheduledPaymentListResponse {
	rows := make([]ScheduledPaymentResponse, len(payments))
	for i, payment := range payments {
		rows[i] = ScheduledPaymentResponse{
			Payment:         ToInstallmentPaymentResponse(payment.Payment),
			InstallmentID:   payment.InstallmentID.String(),
			InstallmentName: payment.InstallmentName,
			Category:        payment.Category,
		}
	}
	return ScheduledPaymentListResponse{Payments: rows, Total: len(rows)}
}

// ToProjectionListResponse converts month projections to the listing DTO.
func ToProjectionListResponse(projections []*installment.MonthProjection) ProjectionListResponse {
	rows := make([]MonthProjectionResponse, len(projections))
	for i, projection := range projections {
		rows[i] = MonthProjectionResponse{
			Year:         projection.Year,
			Month:        int(projection.Month),
			Total:        projection.Total.StringFixed(2),
			Installments: projection.Installments,
		}
	}
	return ProjectionListResponse{Projections: rows}
}

// ToInstallmentSummaryResponse converts a SummaryOutput to its DTO.
func ToInstallmentSummaryResponse(output *installment.SummaryOutput) InstallmentSummaryResponse {
	response := InstallmentSummaryResponse{
		ActiveCount:        output.ActiveCount,
		MonthlyCommitment:  output.MonthlyCommitment.StringFixed(2),
		UpcomingCount:      output.UpcomingCount,
		UpcomingAmount:     output.UpcomingAmount.StringFixed(2),
		OverdueCount:       output.OverdueCount,
		OverdueAmount:      output.OverdueAmount.StringFixed(2),
		CompletedThisMonth: output.CompletedThisMonth,
		Completions:        make([]CompletionProjectionResponse, len(output.Completions)),
	}
	for i, completion := range output.Completions {
		response.Completions[i] = CompletionProjectionResponse{
			InstallmentID:   completion.InstallmentID.String(),
			InstallmentName: completion.InstallmentName,
			CompletionDate:  completion.CompletionDate.Format("2006-01-02"),
		}
	}
	if output.Gamification != nil {
		state := ToGamificationStateResponse(output.Gamification)
		response.Gamification = &state
	}
	return response
}
