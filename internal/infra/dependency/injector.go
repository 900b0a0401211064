// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wallet-ledger/backend/config"
	"github.com/wallet-ledger/backend/internal/application/usecase/auth"
	"github.com/wallet-ledger/backend/internal/application/usecase/balance"
	"github.com/wallet-ledger/backend/internal/application/usecase/bundle"
	"github.com/wallet-ledger/backend/internal/application/usecase/gamification"
	"github.com/wallet-ledger/backend/internal/application/usecase/installment"
	"github.com/wallet-ledger/backend/internal/application/usecase/transaction"
	"github.com/wallet-ledger/backend/internal/application/usecase/wallet"
	"github.com/wallet-ledger/backend/internal/infra/server/router"
	"github.com/wallet-ledger/backend/internal/integration/adapters"
	"github.com/wallet-ledger/backend/internal/integration/cache"
	"github.com/wallet-ledger/backend/internal/integration/email"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/wallet-ledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config          *config.Config
	DB              *gorm.DB
	Router          *router.Router
	ReminderService *email.Service
	ReminderWorker  *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	walletRepo := persistence.NewWalletRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	installmentRepo := persistence.NewInstallmentRepository(db)
	reminderQueueRepo := persistence.NewReminderQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	gamificationCache := cache.NewGamificationCache(redisClient, cache.DefaultGamificationTTL)

	// Balance engine shared by every mutation path
	balanceEngine := balance.NewEngine(walletRepo, transactionRepo)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	deleteAccountUseCase := auth.NewDeleteAccountUseCase(userRepo, passwordService, tokenService)

	// Create wallet use cases
	listWalletsUseCase := wallet.NewListWalletsUseCase(walletRepo)
	createWalletUseCase := wallet.NewCreateWalletUseCase(walletRepo)
	getWalletUseCase := wallet.NewGetWalletUseCase(walletRepo)
	updateWalletUseCase := wallet.NewUpdateWalletUseCase(walletRepo)
	deleteWalletUseCase := wallet.NewDeleteWalletUseCase(walletRepo, transactionRepo)
	recalculateBalanceUseCase := wallet.NewRecalculateBalanceUseCase(walletRepo, balanceEngine)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, walletRepo, balanceEngine)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, balanceEngine)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo, balanceEngine)

	// Create bundle use cases
	addChildUseCase := bundle.NewAddChildUseCase(transactionRepo, balanceEngine)
	listChildrenUseCase := bundle.NewListChildrenUseCase(transactionRepo)
	updateChildUseCase := bundle.NewUpdateChildUseCase(transactionRepo, balanceEngine)
	removeChildUseCase := bundle.NewRemoveChildUseCase(transactionRepo, balanceEngine)

	// Create gamification use case
	gamificationStateUseCase := gamification.NewGetStateUseCase(installmentRepo, gamificationCache)

	// Create installment use cases
	listInstallmentsUseCase := installment.NewListInstallmentsUseCase(installmentRepo)
	createInstallmentUseCase := installment.NewCreateInstallmentUseCase(installmentRepo, walletRepo)
	getInstallmentUseCase := installment.NewGetInstallmentUseCase(installmentRepo)
	updateInstallmentUseCase := installment.NewUpdateInstallmentUseCase(installmentRepo)
	deleteInstallmentUseCase := installment.NewDeleteInstallmentUseCase(installmentRepo)
	payInstallmentUseCase := installment.NewPayInstallmentUseCase(installmentRepo, walletRepo, createTransactionUseCase, gamificationCache)
	adjustRecurringUseCase := installment.NewAdjustRecurringUseCase(installmentRepo)
	upcomingPaymentsUseCase := installment.NewUpcomingPaymentsUseCase(installmentRepo)
	overduePaymentsUseCase := installment.NewOverduePaymentsUseCase(installmentRepo)
	projectCommitmentsUseCase := installment.NewProjectCommitmentsUseCase(installmentRepo)
	summaryUseCase := installment.NewSummaryUseCase(installmentRepo, upcomingPaymentsUseCase, overduePaymentsUseCase, gamificationStateUseCase)

	// Create reminder email pipeline
	emailSender := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	reminderService := email.NewService(reminderQueueRepo, userRepo, installmentRepo, cfg.Email.AppBaseURL)
	reminderWorker := email.NewWorker(reminderQueueRepo, emailSender, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	userController := controller.NewUserController(
		deleteAccountUseCase,
	)

	walletController := controller.NewWalletController(
		listWalletsUseCase,
		createWalletUseCase,
		getWalletUseCase,
		updateWalletUseCase,
		deleteWalletUseCase,
		recalculateBalanceUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		getTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		addChildUseCase,
		listChildrenUseCase,
		updateChildUseCase,
		removeChildUseCase,
	)

	installmentController := controller.NewInstallmentController(
		listInstallmentsUseCase,
		createInstallmentUseCase,
		getInstallmentUseCase,
		updateInstallmentUseCase,
		deleteInstallmentUseCase,
		payInstallmentUseCase,
		adjustRecurringUseCase,
		upcomingPaymentsUseCase,
		overduePaymentsUseCase,
		projectCommitmentsUseCase,
		summaryUseCase,
	)

	gamificationController := controller.NewGamificationController(gamificationStateUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		userController,
		walletController,
		transactionController,
		installmentController,
		gamificationController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:          cfg,
		DB:              db,
		Router:          r,
		ReminderService: reminderService,
		ReminderWorker:  reminderWorker,
	}
}
