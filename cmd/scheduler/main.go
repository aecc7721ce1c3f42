package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/centsible/centsible/jobs-backend/internal/config"
	"github.com/centsible/centsible/jobs-backend/internal/repository/postgres"
	"github.com/centsible/centsible/jobs-backend/internal/service"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	recurringRepo := postgres.NewRecurringRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	// Initialize services
	materializer := service.NewMaterializerService(recurringRepo, log.Logger, service.MaterializerConfig{
		UnitTimeout:    cfg.UnitTimeout,
		Concurrency:    cfg.UnitConcurrency,
		UnitsPerSecond: cfg.UnitsPerSecond,
	})
	budgetAlerts := service.NewBudgetAlertService(budgetRepo, transactionRepo, notificationRepo, log.Logger)

	scheduler := service.NewJobScheduler(materializer, budgetAlerts, log.Logger, service.JobSchedulerConfig{
		MaterializeInterval: cfg.MaterializeInterval,
		BudgetCheckInterval: cfg.BudgetCheckInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler.Start(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	scheduler.Stop()
	log.Info().Msg("Scheduler exited")
}
