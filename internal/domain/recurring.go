package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/jobs-backend/internal/util"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurringTemplate is a user-defined recurring transaction definition. The
// materializer is the only writer: it advances NextRunDate one period per
// pass and flips IsActive off once the schedule passes EndDate.
type RecurringTemplate struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CategoryID  *int32          `json:"categoryId,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	PaymentMode *string         `json:"paymentMode,omitempty"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	NextRunDate time.Time       `json:"nextRunDate"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NextOccurrence advances NextRunDate by one period of the template's
// frequency. Monthly and yearly advances clamp to the target month's last day
// (Jan 31 -> Feb 28/29, Feb 29 -> Feb 28 on non-leap years) instead of
// rolling over into the following month.
func (t *RecurringTemplate) NextOccurrence() (time.Time, error) {
	due := t.NextRunDate
	switch t.Frequency {
	case FrequencyDaily:
		return due.AddDate(0, 0, 1), nil
	case FrequencyWeekly:
		return due.AddDate(0, 0, 7), nil
	case FrequencyMonthly:
		return util.ClampedDate(due.Year(), due.Month()+1, due.Day()), nil
	case FrequencyYearly:
		return util.ClampedDate(due.Year()+1, due.Month(), due.Day()), nil
	default:
		return time.Time{}, ErrInvalidFrequency
	}
}

// EffectiveDescription returns the template's description, or a synthesized
// one ("Recurring expense" / "Recurring income") when none is set.
func (t *RecurringTemplate) EffectiveDescription() string {
	if t.Description != nil && *t.Description != "" {
		return *t.Description
	}
	return "Recurring " + string(t.Type)
}

// Validate checks the invariants the materializer relies on.
func (t *RecurringTemplate) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	switch t.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
	default:
		return ErrInvalidFrequency
	}
	return nil
}

// MaterializeUnit is one failure-isolated unit of materializer work: the
// ledger row to insert plus the schedule advance for its template. The store
// applies both in a single transaction, with the schedule update as a
// compare-and-swap on PrevNextRunDate.
type MaterializeUnit struct {
	Transaction     LedgerTransaction
	TemplateID      int32
	PrevNextRunDate time.Time
	NextRunDate     time.Time
	IsActive        bool
}

type RecurringRepository interface {
	// ListDue returns every active template with next_run_date on or before
	// asOf (date-only comparison).
	ListDue(ctx context.Context, asOf time.Time) ([]*RecurringTemplate, error)

	// Materialize atomically inserts the unit's ledger transaction and
	// advances its template's schedule. Returns ErrScheduleConflict when the
	// template's next_run_date no longer matches PrevNextRunDate, and
	// ErrAlreadyMaterialized when the (template, due date) unique guard is hit.
	Materialize(ctx context.Context, unit MaterializeUnit) error
}
