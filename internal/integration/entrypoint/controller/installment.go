// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wallet-ledger/backend/internal/application/usecase/installment"
	"github.com/wallet-ledger/backend/internal/domain/entity"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/middleware"
)

// InstallmentController handles installment scheduling endpoints.
type InstallmentController struct {
	listUseCase        *installment.ListInstallmentsUseCase
	createUseCase      *installment.CreateInstallmentUseCase
	getUseCase         *installment.GetInstallmentUseCase
	updateUseCase      *installment.UpdateInstallmentUseCase
	deleteUseCase      *installment.DeleteInstallmentUseCase
	payUseCase         *installment.PayInstallmentUseCase
	adjustUseCase      *installment.AdjustRecurringUseCase
	upcomingUseCase    *installment.UpcomingPaymentsUseCase
	overdueUseCase     *installment.OverduePaymentsUseCase
	projectionsUseCase *installment.ProjectCommitmentsUseCase
	summaryUseCase     *installment.SummaryUseCase
}

// NewInstallmentController creates a new installment controller instance.
func NewInstallmentController(
	listUseCase *installment.ListInstallmentsUseCase,
	createUseCase *installment.CreateInstallmentUseCase,
	getUseCase *installment.GetInstallmentUseCase,
	updateUseCase *installment.UpdateInstallmentUseCase,
	deleteUseCase *installment.DeleteInstallmentUseCase,
	payUseCase *installment.PayInstallmentUseCase,
	adjustUseCase *installment.AdjustRecurringUseCase,
	upcomingUseCase *installment.UpcomingPaymentsUseCase,
	overdueUseCase *installment.OverduePaymentsUseCase,
	projectionsUseCase *installment.ProjectCommitmentsUseCase,
	summaryUseCase *installment.SummaryUseCase,
) *InstallmentController {
	return &InstallmentController{
		listUseCase:        listUseCase,
		createUseCase:      createUseCase,
		getUseCase:         getUseCase,
		updateUseCase:      updateUseCase,
		deleteUseCase:      deleteUseCase,
		payUseCase:         payUseCase,
		adjustUseCase:      adjustUseCase,
		upcomingUseCase:    upcomingUseCase,
		overdueUseCase:     overdueUseCase,
		projectionsUseCase: projectionsUseCase,
		summaryUseCase:     summaryUseCase,
	}
}

// List handles GET /installments requests.
func (c *InstallmentController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	input := installment.ListInstallmentsInput{
		UserID:     userID,
		ActiveOnly: ctx.Query("active") == "true",
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	installments := make([]dto.InstallmentResponse, len(output.Installments))
	for i, item := range output.Installments {
		installments[i] = dto.ToInstallmentResponse(item)
	}
	ctx.JSON(http.StatusOK, dto.InstallmentListResponse{
		Installments: installments,
		Total:        len(installments),
	})
}

// Create handles POST /installments requests.
func (c *InstallmentController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.CreateInstallmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	sourceWalletID, err := uuid.Parse(req.SourceWalletID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid source wallet ID",
		})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid start date format, expected YYYY-MM-DD",
		})
		return
	}

	input := installment.CreateInstallmentInput{
		UserID:            userID,
		Name:              req.Name,
		Description:       req.Description,
		TotalAmount:       decimal.NewFromFloat(req.TotalAmount),
		TotalInstallments: req.TotalInstallments,
		InstallmentAmount: decimal.NewFromFloat(req.InstallmentAmount),
		Category:          req.Category,
		StartDate:         startDate,
		SourceWalletID:    sourceWalletID,
		IsRecurring:       req.IsRecurring,
		RecurringType:     entity.RecurringType(req.RecurringType),
	}

	for _, amount := range req.CustomAmounts {
		input.CustomAmounts = append(input.CustomAmounts, decimal.NewFromFloat(amount))
	}

	if req.DestinationWalletID != nil {
		destinationWalletID, err := uuid.Parse(*req.DestinationWalletID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid destination wallet ID",
			})
			return
		}
		input.DestinationWalletID = &destinationWalletID
	}

	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end date format, expected YYYY-MM-DD",
			})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToInstallmentResponse(output.Installment))
}

// Get handles GET /installments/:id requests.
func (c *InstallmentController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	installmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid installment ID",
		})
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), installment.GetInstallmentInput{
		InstallmentID: installmentID,
		UserID:        userID,
	})
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstallmentResponse(output.Installment))
}

// Update handles PATCH /installments/:id requests.
func (c *InstallmentController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	installmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid installment ID",
		})
		return
	}

	var req dto.UpdateInstallmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := installment.UpdateInstallmentInput{
		InstallmentID: installmentID,
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		IsActive:      req.IsActive,
		ClearEndDate:  req.ClearEndDate,
	}

	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end date format, expected YYYY-MM-DD",
			})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstallmentResponse(output.Installment))
}

// Delete handles DELETE /installments/:id requests.
func (c *InstallmentController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	installmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid installment ID",
		})
		return
	}

	err = c.deleteUseCase.Execute(ctx.Request.Context(), installment.DeleteInstallmentInput{
		InstallmentID: installmentID,
		UserID:        userID,
	})
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Pay handles POST /installments/:id/pay requests.
func (c *InstallmentController) Pay(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	installmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid installment ID",
		})
		return
	}

	var req dto.PayInstallmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := installment.PayInstallmentInput{
		InstallmentID:     installmentID,
		UserID:            userID,
		InstallmentNumber: req.InstallmentNumber,
	}

	if req.PaidAmount != nil {
		paidAmount := decimal.NewFromFloat(*req.PaidAmount)
		input.PaidAmount = &paidAmount
	}
	if req.PaidDate != nil {
		paidDate, err := time.Parse("2006-01-02", *req.PaidDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid paid date format, expected YYYY-MM-DD",
			})
			return
		}
		input.PaidDate = &paidDate
	}
	if req.TransactionID != nil {
		transactionID, err := uuid.Parse(*req.TransactionID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid transaction ID",
			})
			return
		}
		input.TransactionID = &transactionID
	}

	output, err := c.payUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PayInstallmentResponse{
		Payment:       dto.ToInstallmentPaymentResponse(output.Payment),
		Installment:   dto.ToInstallmentResponse(output.Installment),
		TransactionID: output.TransactionID.String(),
	})
}

// Adjust handles POST /installments/:id/adjust requests.
func (c *InstallmentController) Adjust(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	installmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid installment ID",
		})
		return
	}

	var req dto.AdjustRecurringRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid effective date format, expected YYYY-MM-DD",
		})
		return
	}

	output, err := c.adjustUseCase.Execute(ctx.Request.Context(), installment.AdjustRecurringInput{
		InstallmentID: installmentID,
		UserID:        userID,
		NewAmount:     decimal.NewFromFloat(req.NewAmount),
		Reason:        req.Reason,
		EffectiveDate: effectiveDate,
	})
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AdjustRecurringResponse{
		Installment:      dto.ToInstallmentResponse(output.Installment),
		Adjustment:       dto.ToInstallmentAdjustmentResponse(output.Adjustment),
		RepricedPayments: output.RepricedPayments,
	})
}

// Upcoming handles GET /installments/upcoming requests.
func (c *InstallmentController) Upcoming(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	input := installment.UpcomingPaymentsInput{
		UserID: userID,
	}
	if daysStr := ctx.Query("days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil {
			input.Days = days
		}
	}

	output, err := c.upcomingUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToScheduledPaymentListResponse(output.Payments))
}

// Overdue handles GET /installments/overdue requests.
func (c *InstallmentController) Overdue(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.overdueUseCase.Execute(ctx.Request.Context(), installment.OverduePaymentsInput{
		UserID: userID,
	})
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToScheduledPaymentListResponse(output.Payments))
}

// Projections handles GET /installments/projections requests.
func (c *InstallmentController) Projections(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	input := installment.ProjectCommitmentsInput{
		UserID: userID,
	}
	if monthsStr := ctx.Query("months"); monthsStr != "" {
		if months, err := strconv.Atoi(monthsStr); err == nil {
			input.Months = months
		}
	}

	output, err := c.projectionsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProjectionListResponse(output.Projections))
}

// Summary handles GET /installments/summary requests.
func (c *InstallmentController) Summary(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), installment.SummaryInput{
		UserID: userID,
	})
	if err != nil {
		c.handleInstallmentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstallmentSummaryResponse(output))
}

// handleInstallmentError handles installment errors and returns appropriate
// HTTP responses. Wallet errors surface here too since the schedule use cases
// validate wallet ownership.
func (c *InstallmentController) handleInstallmentError(ctx *gin.Context, err error) {
	var insErr *domainerror.InstallmentError
	if errors.As(err, &insErr) {
		statusCode := c.getStatusCodeForInstallmentError(insErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: insErr.Message,
			Code:  string(insErr.Code),
		})
		return
	}

	var walletErr *domainerror.WalletError
	if errors.As(err, &walletErr) {
		statusCode := http.StatusInternalServerError
		switch walletErr.Code {
		case domainerror.ErrCodeWalletNotFound:
			statusCode = http.StatusNotFound
		case domainerror.ErrCodeWalletNotOwned:
			statusCode = http.StatusForbidden
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: walletErr.Message,
			Code:  string(walletErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForInstallmentError maps installment error codes to HTTP status codes.
func (c *InstallmentController) getStatusCodeForInstallmentError(code domainerror.InstallmentErrorCode) int {
	switch code {
	case domainerror.ErrCodeInstallmentNotFound,
		domainerror.ErrCodePaymentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInstallmentNotOwned:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidInstallmentCount,
		domainerror.ErrCodeInvalidInstallmentAmount,
		domainerror.ErrCodeCustomAmountsMismatch,
		domainerror.ErrCodeNotRecurring,
		domainerror.ErrCodeAdjustmentBeforePaid:
		return http.StatusBadRequest
	case domainerror.ErrCodeInstallmentInactive,
		domainerror.ErrCodePaymentAlreadyPaid:
		return http.StatusConflict
	case domainerror.ErrCodeInsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
