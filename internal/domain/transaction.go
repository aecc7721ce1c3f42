package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// LedgerTransaction is a concrete ledger entry. The materializer only ever
// creates recurring-sourced rows; manual entries are written elsewhere.
type LedgerTransaction struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	CategoryID  *int32          `json:"categoryId,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	PaymentMode *string         `json:"paymentMode,omitempty"`
	// TransactionDate is the template's due date, not the wall-clock time the
	// row was written.
	TransactionDate time.Time  `json:"transactionDate"`
	TemplateID      *int32     `json:"templateId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
}

type TransactionRepository interface {
	// SumExpensesForMonth totals the amounts of all non-deleted expense
	// transactions for the user in the given calendar month.
	SumExpensesForMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) (decimal.Decimal, error)
}
