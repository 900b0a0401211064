// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wallet-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	authController         *controller.AuthController
	userController         *controller.UserController
	walletController       *controller.WalletController
	transactionController  *controller.TransactionController
	installmentController  *controller.InstallmentController
	gamificationController *controller.GamificationController
	loginRateLimiter       *middleware.RateLimiter
	authMiddleware         *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	walletController *controller.WalletController,
	transactionController *controller.TransactionController,
	installmentController *controller.InstallmentController,
	gamificationController *controller.GamificationController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:       healthController,
		authController:         authController,
		userController:         userController,
		walletController:       walletController,
		transactionController:  transactionController,
		installmentController:  installmentController,
		gamificationController: gamificationController,
		loginRateLimiter:       loginRateLimiter,
		authMiddleware:         authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Auth routes (only setup if auth controller is available)
		if r.authController != nil && r.loginRateLimiter != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.POST("/logout", r.authController.Logout)
			}
		}

		// User routes (require authentication)
		if r.userController != nil && r.authMiddleware != nil {
			users := v1.Group("/users")
			users.Use(r.authMiddleware.Authenticate())
			{
				users.DELETE("/me", r.userController.DeleteAccount)
			}
		}

		// Wallet routes (require authentication)
		if r.walletController != nil && r.authMiddleware != nil {
			wallets := v1.Group("/wallets")
			wallets.Use(r.authMiddleware.Authenticate())
			{
				wallets.GET("", r.walletController.List)
				wallets.POST("", r.walletController.Create)
				wallets.GET("/:id", r.walletController.Get)
				wallets.PATCH("/:id", r.walletController.Update)
				wallets.DELETE("/:id", r.walletController.Delete)
				wallets.POST("/:id/recalculate", r.walletController.Recalculate)
			}
		}

		// Transaction and bundle routes (require authentication)
		if r.transactionController != nil && r.authMiddleware != nil {
			transactions := v1.Group("/transactions")
			transactions.Use(r.authMiddleware.Authenticate())
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("", r.transactionController.Create)
				transactions.GET("/:id", r.transactionController.Get)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)

				// Bundle line item routes (nested under transactions)
				transactions.GET("/:id/children", r.transactionController.ListChildren)
				transactions.POST("/:id/children", r.transactionController.AddChild)
				transactions.PUT("/:id/children/:childId", r.transactionController.UpdateChild)
				transactions.DELETE("/:id/children/:childId", r.transactionController.RemoveChild)
			}
		}

		// Installment routes (require authentication). Static paths are
		// registered before the :id routes so Gin matches them first.
		if r.installmentController != nil && r.authMiddleware != nil {
			installments := v1.Group("/installments")
			installments.Use(r.authMiddleware.Authenticate())
			{
				installments.GET("", r.installmentController.List)
				installments.POST("", r.installmentController.Create)
				installments.GET("/upcoming", r.installmentController.Upcoming)
				installments.GET("/overdue", r.installmentController.Overdue)
				installments.GET("/projections", r.installmentController.Projections)
				installments.GET("/summary", r.installmentController.Summary)
				installments.GET("/:id", r.installmentController.Get)
				installments.PATCH("/:id", r.installmentController.Update)
				installments.DELETE("/:id", r.installmentController.Delete)
				installments.POST("/:id/pay", r.installmentController.Pay)
				installments.POST("/:id/adjust", r.installmentController.Adjust)
			}
		}

		// Gamification routes (require authentication)
		if r.gamificationController != nil && r.authMiddleware != nil {
			gamification := v1.Group("/gamification")
			gamification.Use(r.authMiddleware.Authenticate())
			{
				gamification.GET("", r.gamificationController.GetState)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
