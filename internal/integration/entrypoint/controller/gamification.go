// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallet-ledger/backend/internal/application/usecase/gamification"
	domainerror "github.com/wallet-ledger/backend/internal/domain/error"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/middleware"
)

// GamificationController handles the gamification state endpoint.
type GamificationController struct {
	getStateUseCase *gamification.GetStateUseCase
}

// NewGamificationController creates a new gamification controller instance.
func NewGamificationController(getStateUseCase *gamification.GetStateUseCase) *GamificationController {
	return &GamificationController{getStateUseCase: getStateUseCase}
}

// GetState handles GET /gamification requests. Pass refresh=true to bypass
// the cached state.
func (c *GamificationController) GetState(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.getStateUseCase.Execute(ctx.Request.Context(), gamification.GetStateInput{
		UserID:    userID,
		SkipCache: ctx.Query("refresh") == "true",
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
		return
	}

	response := dto.ToGamificationStateResponse(output.State)
	response.FromCache = output.FromCache
	ctx.JSON(http.StatusOK, response)
}
