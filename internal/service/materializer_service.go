package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/centsible/centsible/jobs-backend/internal/domain"
	"github.com/centsible/centsible/jobs-backend/internal/util"
)

// MaterializerService turns due recurring templates into ledger transactions
// and advances each template's schedule by one period per pass.
type MaterializerService struct {
	recurringRepo domain.RecurringRepository
	logger        zerolog.Logger
	unitTimeout   time.Duration
	concurrency   int
	limiter       *rate.Limiter
}

// MaterializerConfig bounds how a materialization pass hits the store.
type MaterializerConfig struct {
	UnitTimeout    time.Duration // per-template store transaction timeout
	Concurrency    int           // max templates processed in parallel
	UnitsPerSecond float64       // pacing of unit starts against the shared store
}

// DefaultMaterializerConfig returns sensible defaults
func DefaultMaterializerConfig() MaterializerConfig {
	return MaterializerConfig{
		UnitTimeout:    10 * time.Second,
		Concurrency:    4,
		UnitsPerSecond: 50,
	}
}

// NewMaterializerService creates a new MaterializerService
func NewMaterializerService(recurringRepo domain.RecurringRepository, logger zerolog.Logger, config MaterializerConfig) *MaterializerService {
	if config.UnitTimeout <= 0 {
		config.UnitTimeout = 10 * time.Second
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.UnitsPerSecond <= 0 {
		config.UnitsPerSecond = 50
	}

	return &MaterializerService{
		recurringRepo: recurringRepo,
		logger:        logger.With().Str("component", "materializer").Logger(),
		unitTimeout:   config.UnitTimeout,
		concurrency:   config.Concurrency,
		limiter:       rate.NewLimiter(rate.Limit(config.UnitsPerSecond), 1),
	}
}

// MaterializationResult summarizes one materialization pass.
type MaterializationResult struct {
	Processed int // templates materialized and advanced
	Skipped   int // already handled by a concurrent or earlier pass
	Failed    int // unit errors, left due for the next pass
}

// Run executes one materialization pass as of now. The date is injected so
// passes are deterministic and testable; only the calendar date matters.
//
// Each due template is one failure-isolated unit: its ledger insert and
// schedule advance commit together or not at all, so a failed unit stays due
// and is retried on the next pass. Units are independent and run in parallel,
// paced against the store. A pass fires each due template at most once; a
// template several periods behind catches up one period per pass.
func (s *MaterializerService) Run(ctx context.Context, now time.Time) (*MaterializationResult, error) {
	asOf := util.DateOnly(now)

	due, err := s.recurringRepo.ListDue(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due templates: %w", err)
	}

	result := &MaterializationResult{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, tmpl := range due {
		tmpl := tmpl
		if err := s.limiter.Wait(gctx); err != nil {
			break
		}

		g.Go(func() error {
			err := s.materialize(gctx, tmpl)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Processed++
			case errors.Is(err, domain.ErrScheduleConflict), errors.Is(err, domain.ErrAlreadyMaterialized):
				result.Skipped++
				s.logger.Debug().
					Int32("template_id", tmpl.ID).
					Time("due_date", tmpl.NextRunDate).
					Msg("Template already materialized, skipping")
			default:
				result.Failed++
				s.logger.Error().
					Err(err).
					Int32("template_id", tmpl.ID).
					Time("due_date", tmpl.NextRunDate).
					Msg("Failed to materialize template")
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info().
		Time("as_of", asOf).
		Int("due", len(due)).
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Completed materialization pass")

	return result, nil
}

// materialize handles a single due template: one ledger transaction dated at
// the template's due date, then a one-period schedule advance.
func (s *MaterializerService) materialize(ctx context.Context, tmpl *domain.RecurringTemplate) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}

	next, err := tmpl.NextOccurrence()
	if err != nil {
		return err
	}

	// Deactivate once the schedule passes the end date; the template is never
	// evaluated again.
	active := true
	if tmpl.EndDate != nil && next.After(util.DateOnly(*tmpl.EndDate)) {
		active = false
	}

	templateID := tmpl.ID
	unit := domain.MaterializeUnit{
		Transaction: domain.LedgerTransaction{
			UserID:          tmpl.UserID,
			CategoryID:      tmpl.CategoryID,
			Type:            tmpl.Type,
			Amount:          tmpl.Amount,
			Description:     tmpl.EffectiveDescription(),
			PaymentMode:     tmpl.PaymentMode,
			TransactionDate: tmpl.NextRunDate,
			TemplateID:      &templateID,
		},
		TemplateID:      tmpl.ID,
		PrevNextRunDate: tmpl.NextRunDate,
		NextRunDate:     next,
		IsActive:        active,
	}

	unitCtx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	return s.recurringRepo.Materialize(unitCtx, unit)
}
