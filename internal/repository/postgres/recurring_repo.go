package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centsible/centsible/jobs-backend/internal/domain"
)

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

// ListDue retrieves every active template whose next_run_date is on or before asOf
func (r *RecurringRepository) ListDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, category_id, type, amount, description, payment_mode,
		       frequency, start_date, end_date, next_run_date, is_active,
		       created_at, updated_at
		FROM recurring_transactions
		WHERE is_active = TRUE AND next_run_date <= $1
		ORDER BY next_run_date, id`,
		pgtype.Date{Time: asOf, Valid: true},
	)
	if err != nil {
		return nil, fmt.Errorf("query due templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.RecurringTemplate
	for rows.Next() {
		tmpl, err := scanRecurringTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due templates: %w", err)
	}

	return templates, nil
}

// Materialize inserts the unit's ledger transaction and advances its
// template's schedule in one serializable transaction. The schedule update is
// a compare-and-swap on next_run_date: if a concurrent pass already advanced
// the template, zero rows match, the whole unit rolls back, and
// domain.ErrScheduleConflict is returned. A (template_id, transaction_date)
// unique index backs this up; hitting it maps to domain.ErrAlreadyMaterialized.
func (r *RecurringRepository) Materialize(ctx context.Context, unit domain.MaterializeUnit) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin materialize tx: %w", err)
	}
	defer tx.Rollback(ctx)

	amount, err := decimalToPgNumeric(unit.Transaction.Amount)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, category_id, type, amount, description,
		                          payment_mode, transaction_date, template_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		unit.Transaction.UserID,
		unit.Transaction.CategoryID,
		string(unit.Transaction.Type),
		amount,
		unit.Transaction.Description,
		unit.Transaction.PaymentMode,
		pgtype.Date{Time: unit.Transaction.TransactionDate, Valid: true},
		unit.Transaction.TemplateID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMaterialized
		}
		return fmt.Errorf("insert ledger transaction: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE recurring_transactions
		SET next_run_date = $1, is_active = $2, updated_at = now()
		WHERE id = $3 AND next_run_date = $4`,
		pgtype.Date{Time: unit.NextRunDate, Valid: true},
		unit.IsActive,
		unit.TemplateID,
		pgtype.Date{Time: unit.PrevNextRunDate, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("advance template schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit materialize tx: %w", err)
	}
	return nil
}

// scanRecurringTemplate converts a row to a domain model
func scanRecurringTemplate(row pgx.Row) (*domain.RecurringTemplate, error) {
	var (
		tmpl        domain.RecurringTemplate
		txType      string
		frequency   string
		amount      pgtype.Numeric
		startDate   pgtype.Date
		endDate     pgtype.Date
		nextRunDate pgtype.Date
	)

	err := row.Scan(
		&tmpl.ID,
		&tmpl.UserID,
		&tmpl.CategoryID,
		&txType,
		&amount,
		&tmpl.Description,
		&tmpl.PaymentMode,
		&frequency,
		&startDate,
		&endDate,
		&nextRunDate,
		&tmpl.IsActive,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan recurring template: %w", err)
	}

	tmpl.Type = domain.TransactionType(txType)
	tmpl.Frequency = domain.Frequency(frequency)
	tmpl.Amount = pgNumericToDecimal(amount)
	tmpl.StartDate = startDate.Time
	tmpl.NextRunDate = nextRunDate.Time
	if endDate.Valid {
		end := endDate.Time
		tmpl.EndDate = &end
	}

	return &tmpl, nil
}
