// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

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
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/wallet-ledger/backend/internal/integration/persistence"
	"github.com/wallet-ledger/backend/internal/integration/persistence/model"
	"github.com/wallet-ledger/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testContext holds per-scenario state shared across step definitions.
type testContext struct {
	uri     string
	headers map[string]string
	client  *http.Client

	response *response

	db          *mock.Db
	redisClient *redis.Client

	accessToken  string
	refreshToken string

	currentUserID     uuid.UUID
	walletIDs         map[string]uuid.UUID
	lastWalletID      uuid.UUID
	lastTransactionID uuid.UUID
	lastChildID       uuid.UUID
	lastInstallmentID uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverOnce sync.Once
	serverPort int
)

// InitializeTestSuite sets up suite-level resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions and per-scenario hooks.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		headers: make(map[string]string),
		client:  &http.Client{Timeout: 10 * time.Second},
		// The reminder queue table uses a postgres array column and is
		// excluded from the sqlite harness.
		db: mock.NewDb("wallet_ledger", map[string]any{
			"users":                   &model.UserModel{},
			"refresh_tokens":          &model.RefreshTokenModel{},
			"wallets":                 &model.WalletModel{},
			"transactions":            &model.TransactionModel{},
			"installments":            &model.InstallmentModel{},
			"installment_payments":    &model.InstallmentPaymentModel{},
			"installment_adjustments": &model.InstallmentAdjustmentModel{},
		}),
		redisClient: mock.NewRedis(),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		if err := test.before(); err != nil {
			return ctx, err
		}
		return ctx, nil
	})

	// Setup steps
	ctx.Step(`^the user "([^"]*)" exists$`, test.theUserExists)
	ctx.Step(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Step(`^the authorization header is empty$`, test.theAuthorizationHeaderIsEmpty)
	ctx.Step(`^a "([^"]*)" wallet named "([^"]*)" with balance "([^"]*)" exists$`, test.aWalletExists)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.Step(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Response assertions
	ctx.Step(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertions
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects in "([^"]*)" with the values:$`, test.theDbShouldContainObjectsInWithTheValues)
}

// before resets scenario state and makes sure the API server is running.
func (t *testContext) before() error {
	serverOnce.Do(func() {
		serverPort = findAvailablePort()
		startServer(t.db.DbConn, t.redisClient, serverPort)
	})

	t.uri = fmt.Sprintf("http://localhost:%d", serverPort)
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.walletIDs = make(map[string]uuid.UUID)
	t.lastWalletID = uuid.Nil
	t.lastTransactionID = uuid.Nil
	t.lastChildID = uuid.Nil
	t.lastInstallmentID = uuid.Nil

	if err := t.db.ClearDB(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	if err := mock.ClearRedis(t.redisClient); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	return nil
}

// startServer wires the full application stack against the mock database
// and starts it on the given port. The reminder email pipeline is not
// wired; worker behavior is covered by unit tests.
func startServer(db *gorm.DB, redisClient *redis.Client, port int) {
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	walletRepo := persistence.NewWalletRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	installmentRepo := persistence.NewInstallmentRepository(db)

	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(testJWTSecret, tokenRepo)
	gamificationCache := cache.NewGamificationCache(redisClient, cache.DefaultGamificationTTL)

	balanceEngine := balance.NewEngine(walletRepo, transactionRepo)

	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	deleteAccountUseCase := auth.NewDeleteAccountUseCase(userRepo, passwordService, tokenService)

	listWalletsUseCase := wallet.NewListWalletsUseCase(walletRepo)
	createWalletUseCase := wallet.NewCreateWalletUseCase(walletRepo)
	getWalletUseCase := wallet.NewGetWalletUseCase(walletRepo)
	updateWalletUseCase := wallet.NewUpdateWalletUseCase(walletRepo)
	deleteWalletUseCase := wallet.NewDeleteWalletUseCase(walletRepo, transactionRepo)
	recalculateBalanceUseCase := wallet.NewRecalculateBalanceUseCase(walletRepo, balanceEngine)

	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, walletRepo, balanceEngine)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, balanceEngine)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo, balanceEngine)

	addChildUseCase := bundle.NewAddChildUseCase(transactionRepo, balanceEngine)
	listChildrenUseCase := bundle.NewListChildrenUseCase(transactionRepo)
	updateChildUseCase := bundle.NewUpdateChildUseCase(transactionRepo, balanceEngine)
	removeChildUseCase := bundle.NewRemoveChildUseCase(transactionRepo, balanceEngine)

	gamificationStateUseCase := gamification.NewGetStateUseCase(installmentRepo, gamificationCache)

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

	healthController := controller.NewHealthController(func() bool { return true })
	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)
	userController := controller.NewUserController(deleteAccountUseCase)
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

	loginRateLimiter := middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

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
	engine := r.Setup("test")

	go func() {
		if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
			panic(fmt.Sprintf("test server failed: %v", err))
		}
	}()

	waitForServer(port)
}

// waitForServer polls the health endpoint until the server answers.
func waitForServer(port int) {
	url := fmt.Sprintf("http://localhost:%d/health", port)
	client := &http.Client{Timeout: 1 * time.Second}

	for i := 0; i < 50; i++ {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	panic("test server did not become ready")
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(fmt.Sprintf("failed to find available port: %v", err))
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}
