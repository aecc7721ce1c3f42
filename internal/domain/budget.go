package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetSetting is a per-user monthly spending limit. A zero limit disables
// alerting for the user. Read-only to the jobs.
type BudgetSetting struct {
	UserID      uuid.UUID       `json:"userId"`
	BudgetLimit decimal.Decimal `json:"budgetLimit"`
}

// ThresholdBand classifies month-to-date budget utilization.
type ThresholdBand int

const (
	BandNone ThresholdBand = iota
	BandWarning
	BandExceeded
)

// Utilization thresholds in percent.
var (
	WarningThreshold  = decimal.NewFromInt(80)
	ExceededThreshold = decimal.NewFromInt(100)
)

// ClassifyUtilization maps a utilization percentage onto exactly one band:
// below 80 none, 80 up to (not including) 100 warning, 100 and above exceeded.
func ClassifyUtilization(percentage decimal.Decimal) ThresholdBand {
	switch {
	case percentage.GreaterThanOrEqual(ExceededThreshold):
		return BandExceeded
	case percentage.GreaterThanOrEqual(WarningThreshold):
		return BandWarning
	default:
		return BandNone
	}
}

type BudgetRepository interface {
	// ListEnabled returns the settings of every user with budget_limit > 0.
	ListEnabled(ctx context.Context) ([]*BudgetSetting, error)
}
