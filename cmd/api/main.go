// Package main is the entry point for the Wallet Ledger API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wallet-ledger/backend/config"
	"github.com/wallet-ledger/backend/internal/infra/db"
	"github.com/wallet-ledger/backend/internal/infra/dependency"
	"github.com/wallet-ledger/backend/internal/infra/server/router"
	"github.com/wallet-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/wallet-ledger/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting Wallet Ledger API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Database connection failed, running without database",
			"error", err,
		)
	} else {
		// Run database migrations
		if err := database.AutoMigrate(
			&model.UserModel{},
			&model.RefreshTokenModel{},
			&model.WalletModel{},
			&model.TransactionModel{},
			&model.InstallmentModel{},
			&model.InstallmentPaymentModel{},
			&model.InstallmentAdjustmentModel{},
			&model.ReminderJobModel{},
		); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")

		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	// Initialize Redis for the gamification cache
	redisOptions, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	if cfg.Redis.Password != "" {
		redisOptions.Password = cfg.Redis.Password
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis connection", "error", err)
		}
	}()

	// Worker context, cancelled on shutdown
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var engine http.Handler
	if database != nil {
		injector := dependency.NewInjector(cfg, database.DB(), redisClient)
		engine = injector.Router.Setup(cfg.Server.Environment)

		// Start the reminder sweep and the sending worker
		if cfg.Email.WorkerEnabled {
			go injector.ReminderService.StartSweep(workerCtx, cfg.Email.HorizonDays)
			go injector.ReminderWorker.Start(workerCtx)
		}
	} else {
		// Health-only router when the database is unavailable
		healthController := controller.NewHealthController(func() bool { return false })
		r := router.NewRouter(healthController, nil, nil, nil, nil, nil, nil, nil, nil)
		engine = r.Setup(cfg.Server.Environment)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
