package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		frequency Frequency
		nextRun   time.Time
		want      time.Time
	}{
		{"daily adds one day", FrequencyDaily, date(2025, 1, 15), date(2025, 1, 16)},
		{"daily across month end", FrequencyDaily, date(2025, 1, 31), date(2025, 2, 1)},
		{"weekly adds seven days", FrequencyWeekly, date(2025, 1, 15), date(2025, 1, 22)},
		{"weekly across year end", FrequencyWeekly, date(2025, 12, 29), date(2026, 1, 5)},
		{"monthly preserves day", FrequencyMonthly, date(2025, 1, 15), date(2025, 2, 15)},
		{"monthly Jan 31 clamps to Feb 28", FrequencyMonthly, date(2025, 1, 31), date(2025, 2, 28)},
		{"monthly Jan 31 clamps to Feb 29 in leap year", FrequencyMonthly, date(2024, 1, 31), date(2024, 2, 29)},
		{"monthly Dec rolls into next year", FrequencyMonthly, date(2025, 12, 31), date(2026, 1, 31)},
		{"yearly preserves date", FrequencyYearly, date(2025, 6, 1), date(2026, 6, 1)},
		{"yearly Feb 29 clamps to Feb 28", FrequencyYearly, date(2024, 2, 29), date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := RecurringTemplate{Frequency: tt.frequency, NextRunDate: tt.nextRun}
			got, err := tmpl.NextOccurrence()
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_InvalidFrequency(t *testing.T) {
	tmpl := RecurringTemplate{Frequency: "fortnightly", NextRunDate: date(2025, 1, 15)}
	_, err := tmpl.NextOccurrence()
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("Expected ErrInvalidFrequency, got %v", err)
	}
}

func TestEffectiveDescription(t *testing.T) {
	desc := "Rent"
	empty := ""

	tests := []struct {
		name        string
		description *string
		txType      TransactionType
		want        string
	}{
		{"set description wins", &desc, TransactionTypeExpense, "Rent"},
		{"nil description synthesized for expense", nil, TransactionTypeExpense, "Recurring expense"},
		{"empty description synthesized for income", &empty, TransactionTypeIncome, "Recurring income"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := RecurringTemplate{Description: tt.description, Type: tt.txType}
			if got := tmpl.EffectiveDescription(); got != tt.want {
				t.Errorf("EffectiveDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		amount    decimal.Decimal
		frequency Frequency
		wantErr   error
	}{
		{"valid template", decimal.NewFromInt(100), FrequencyMonthly, nil},
		{"zero amount", decimal.Zero, FrequencyMonthly, ErrInvalidAmount},
		{"negative amount", decimal.NewFromInt(-5), FrequencyDaily, ErrInvalidAmount},
		{"unknown frequency", decimal.NewFromInt(100), "hourly", ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := RecurringTemplate{Amount: tt.amount, Frequency: tt.frequency}
			err := tmpl.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
