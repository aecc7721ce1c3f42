package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/jobs-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// BudgetAlertService evaluates each user's month-to-date spending against
// their configured limit and emits threshold-crossing notifications.
type BudgetAlertService struct {
	budgetRepo       domain.BudgetRepository
	transactionRepo  domain.TransactionRepository
	notificationRepo domain.NotificationRepository
	logger           zerolog.Logger
}

// NewBudgetAlertService creates a new BudgetAlertService
func NewBudgetAlertService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	notificationRepo domain.NotificationRepository,
	logger zerolog.Logger,
) *BudgetAlertService {
	return &BudgetAlertService{
		budgetRepo:       budgetRepo,
		transactionRepo:  transactionRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With().Str("component", "budget_alerts").Logger(),
	}
}

// BudgetCheckResult summarizes one budget evaluation pass.
type BudgetCheckResult struct {
	AlertsCreated int
	Failed        int
}

// Run executes one budget evaluation pass. Month and year are taken from the
// injected now. Users are independent units: a failure evaluating one user is
// logged and does not stop the pass.
//
// Every pass that finds a user over a threshold creates a fresh notification;
// there is no de-duplication against alerts from earlier passes.
func (s *BudgetAlertService) Run(ctx context.Context, now time.Time) (*BudgetCheckResult, error) {
	budgets, err := s.budgetRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budget settings: %w", err)
	}

	result := &BudgetCheckResult{}

	for _, budget := range budgets {
		notification, err := s.evaluate(ctx, budget, now)
		if err != nil {
			result.Failed++
			s.logger.Error().
				Err(err).
				Str("user_id", budget.UserID.String()).
				Msg("Failed to evaluate budget")
			continue
		}
		if notification != nil {
			result.AlertsCreated++
		}
	}

	s.logger.Info().
		Int("users", len(budgets)).
		Int("alerts_created", result.AlertsCreated).
		Int("failed", result.Failed).
		Msg("Completed budget alert pass")

	return result, nil
}

// evaluate checks a single user's utilization and creates at most one
// notification. Returns nil, nil when the user is under the warning threshold.
func (s *BudgetAlertService) evaluate(ctx context.Context, budget *domain.BudgetSetting, now time.Time) (*domain.Notification, error) {
	// ListEnabled filters at the store, but a bad row must not kill the pass.
	if budget.BudgetLimit.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidBudgetLimit
	}

	total, err := s.transactionRepo.SumExpensesForMonth(ctx, budget.UserID, now.Year(), now.Month())
	if err != nil {
		return nil, fmt.Errorf("sum month expenses: %w", err)
	}

	percentage := total.Div(budget.BudgetLimit).Mul(hundred)

	var notification *domain.Notification
	switch domain.ClassifyUtilization(percentage) {
	case domain.BandWarning:
		notification = &domain.Notification{
			UserID:  budget.UserID,
			Type:    domain.NotificationBudgetWarning,
			Title:   "Budget Warning",
			Message: fmt.Sprintf("You have used %s%% of your budget", percentage.StringFixed(1)),
		}
	case domain.BandExceeded:
		notification = &domain.Notification{
			UserID:  budget.UserID,
			Type:    domain.NotificationBudgetExceeded,
			Title:   "Budget Exceeded",
			Message: fmt.Sprintf("You have exceeded your budget by %s%%", percentage.Sub(hundred).StringFixed(1)),
		}
	default:
		return nil, nil
	}

	return s.notificationRepo.Create(ctx, notification)
}
