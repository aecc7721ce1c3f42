package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centsible/centsible/jobs-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// ListEnabled retrieves the settings of every user with a positive budget limit
func (r *BudgetRepository) ListEnabled(ctx context.Context) ([]*domain.BudgetSetting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, budget_limit
		FROM user_settings
		WHERE budget_limit > 0`,
	)
	if err != nil {
		return nil, fmt.Errorf("query budget settings: %w", err)
	}
	defer rows.Close()

	var settings []*domain.BudgetSetting
	for rows.Next() {
		var (
			s     domain.BudgetSetting
			limit pgtype.Numeric
		)
		if err := rows.Scan(&s.UserID, &limit); err != nil {
			return nil, fmt.Errorf("scan budget setting: %w", err)
		}
		s.BudgetLimit = pgNumericToDecimal(limit)
		settings = append(settings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget settings: %w", err)
	}

	return settings, nil
}
