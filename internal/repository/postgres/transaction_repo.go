package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// SumExpensesForMonth totals non-deleted expense transactions for the user in
// the given calendar month.
func (r *TransactionRepository) SumExpensesForMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND type = 'expense'
		  AND deleted_at IS NULL
		  AND EXTRACT(MONTH FROM transaction_date) = $2
		  AND EXTRACT(YEAR FROM transaction_date) = $3`,
		userID, int(month), year,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum month expenses: %w", err)
	}

	return pgNumericToDecimal(total), nil
}
