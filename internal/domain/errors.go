package domain

import "errors"

// Domain errors
var (
	ErrTemplateNotFound = errors.New("recurring template not found")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidAmount    = errors.New("amount must be positive")

	// ErrScheduleConflict means another pass advanced the template's schedule
	// between our read and our write. The unit is skipped; the template is
	// re-evaluated on the next pass if still due.
	ErrScheduleConflict = errors.New("template schedule advanced concurrently")

	// ErrAlreadyMaterialized means a ledger transaction for this template and
	// due date already exists (unique guard hit). Treated as "done this period".
	ErrAlreadyMaterialized = errors.New("template already materialized for due date")

	ErrInvalidBudgetLimit = errors.New("invalid budget limit")
)
