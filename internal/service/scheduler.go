package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// JobScheduler triggers the two background jobs on independent fixed
// schedules: materialization hourly, budget alerts daily. Passes may overlap
// a slow predecessor; that is safe because every unit of work is an atomic
// compare-and-swap transaction against the store.
type JobScheduler struct {
	materializer *MaterializerService
	budgetAlerts *BudgetAlertService
	logger       zerolog.Logger

	materializeInterval time.Duration
	budgetCheckInterval time.Duration

	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// JobSchedulerConfig holds the trigger intervals for both jobs
type JobSchedulerConfig struct {
	MaterializeInterval time.Duration
	BudgetCheckInterval time.Duration
}

// DefaultJobSchedulerConfig returns the production schedule
func DefaultJobSchedulerConfig() JobSchedulerConfig {
	return JobSchedulerConfig{
		MaterializeInterval: 1 * time.Hour,
		BudgetCheckInterval: 24 * time.Hour,
	}
}

// NewJobScheduler creates a new JobScheduler
func NewJobScheduler(
	materializer *MaterializerService,
	budgetAlerts *BudgetAlertService,
	logger zerolog.Logger,
	config JobSchedulerConfig,
) *JobScheduler {
	if config.MaterializeInterval <= 0 {
		config.MaterializeInterval = 1 * time.Hour
	}
	if config.BudgetCheckInterval <= 0 {
		config.BudgetCheckInterval = 24 * time.Hour
	}

	return &JobScheduler{
		materializer:        materializer,
		budgetAlerts:        budgetAlerts,
		logger:              logger.With().Str("component", "job_scheduler").Logger(),
		materializeInterval: config.MaterializeInterval,
		budgetCheckInterval: config.BudgetCheckInterval,
		stopCh:              make(chan struct{}),
		doneCh:              make(chan struct{}),
	}
}

// Start begins the background job loop
func (s *JobScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().
		Dur("materialize_interval", s.materializeInterval).
		Dur("budget_check_interval", s.budgetCheckInterval).
		Msg("Starting job scheduler")

	go s.run(ctx)
}

// Stop gracefully stops the scheduler, waiting for an in-flight pass
func (s *JobScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping job scheduler")
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info().Msg("Job scheduler stopped")
}

// run is the main scheduler loop
func (s *JobScheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	// Run both jobs immediately on startup
	s.runMaterialization(ctx, time.Now())
	s.runBudgetCheck(ctx, time.Now())

	materializeTicker := time.NewTicker(s.materializeInterval)
	defer materializeTicker.Stop()
	budgetTicker := time.NewTicker(s.budgetCheckInterval)
	defer budgetTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.setStopped()
			return
		case <-s.stopCh:
			s.setStopped()
			return
		case now := <-materializeTicker.C:
			s.runMaterialization(ctx, now)
		case now := <-budgetTicker.C:
			s.runBudgetCheck(ctx, now)
		}
	}
}

func (s *JobScheduler) setStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// runMaterialization executes one materialization pass. A failed pass is only
// logged; the templates stay due and the next tick retries them.
func (s *JobScheduler) runMaterialization(ctx context.Context, now time.Time) {
	start := time.Now()

	result, err := s.materializer.Run(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("Materialization pass failed")
		return
	}

	s.logger.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("Materialization pass finished")
}

// runBudgetCheck executes one budget alert pass.
func (s *JobScheduler) runBudgetCheck(ctx context.Context, now time.Time) {
	start := time.Now()

	result, err := s.budgetAlerts.Run(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("Budget alert pass failed")
		return
	}

	s.logger.Info().
		Int("alerts_created", result.AlertsCreated).
		Int("failed", result.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("Budget alert pass finished")
}

// IsRunning returns whether the scheduler is currently running
func (s *JobScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
