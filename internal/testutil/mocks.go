package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/jobs-backend/internal/domain"
)

// MockRecurringRepository is a mock implementation of domain.RecurringRepository.
// It mirrors the store's idempotency guards: the schedule advance is a
// compare-and-swap on NextRunDate, and a (template, due date) pair can only be
// materialized once. Safe for concurrent use, since materializer passes fan
// units out in parallel.
type MockRecurringRepository struct {
	mu            sync.Mutex
	Templates     map[int32]*domain.RecurringTemplate
	Materialized  []domain.MaterializeUnit
	ListDueFn     func(asOf time.Time) ([]*domain.RecurringTemplate, error)
	MaterializeFn func(unit domain.MaterializeUnit) error

	seen map[string]bool
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		Templates: make(map[int32]*domain.RecurringTemplate),
		seen:      make(map[string]bool),
	}
}

// AddTemplate adds a template to the mock repository (helper for tests)
func (m *MockRecurringRepository) AddTemplate(tmpl *domain.RecurringTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Templates[tmpl.ID] = tmpl
}

// MaterializedCount returns how many units have been applied (helper for
// tests that poll while a pass may still be running)
func (m *MockRecurringRepository) MaterializedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Materialized)
}

// GetTemplate returns a template by ID (helper for tests)
func (m *MockRecurringRepository) GetTemplate(id int32) *domain.RecurringTemplate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Templates[id]
}

// ListDue returns active templates with NextRunDate on or before asOf
func (m *MockRecurringRepository) ListDue(_ context.Context, asOf time.Time) ([]*domain.RecurringTemplate, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(asOf)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*domain.RecurringTemplate
	for _, tmpl := range m.Templates {
		if tmpl.IsActive && !tmpl.NextRunDate.After(asOf) {
			copied := *tmpl
			due = append(due, &copied)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

// Materialize records the unit and applies the schedule advance
func (m *MockRecurringRepository) Materialize(_ context.Context, unit domain.MaterializeUnit) error {
	if m.MaterializeFn != nil {
		return m.MaterializeFn(unit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%d|%s", unit.TemplateID, unit.Transaction.TransactionDate.Format("2006-01-02"))
	if m.seen[key] {
		return domain.ErrAlreadyMaterialized
	}

	tmpl, ok := m.Templates[unit.TemplateID]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	if !tmpl.NextRunDate.Equal(unit.PrevNextRunDate) {
		return domain.ErrScheduleConflict
	}

	m.seen[key] = true
	m.Materialized = append(m.Materialized, unit)
	tmpl.NextRunDate = unit.NextRunDate
	tmpl.IsActive = unit.IsActive
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Sums  map[uuid.UUID]decimal.Decimal
	SumFn func(userID uuid.UUID, year int, month time.Month) (decimal.Decimal, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Sums: make(map[uuid.UUID]decimal.Decimal),
	}
}

// SumExpensesForMonth returns the configured total for the user
func (m *MockTransactionRepository) SumExpensesForMonth(_ context.Context, userID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	if m.SumFn != nil {
		return m.SumFn(userID, year, month)
	}
	if total, ok := m.Sums[userID]; ok {
		return total, nil
	}
	return decimal.Zero, nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Settings      []*domain.BudgetSetting
	ListEnabledFn func() ([]*domain.BudgetSetting, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{}
}

// AddSetting adds a budget setting to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddSetting(s *domain.BudgetSetting) {
	m.Settings = append(m.Settings, s)
}

// ListEnabled returns settings with a positive budget limit
func (m *MockBudgetRepository) ListEnabled(_ context.Context) ([]*domain.BudgetSetting, error) {
	if m.ListEnabledFn != nil {
		return m.ListEnabledFn()
	}

	var enabled []*domain.BudgetSetting
	for _, s := range m.Settings {
		if s.BudgetLimit.GreaterThan(decimal.Zero) {
			enabled = append(enabled, s)
		}
	}
	return enabled, nil
}

// MockNotificationRepository is a mock implementation of domain.NotificationRepository
type MockNotificationRepository struct {
	Notifications []*domain.Notification
	NextID        int32
	CreateFn      func(n *domain.Notification) (*domain.Notification, error)
}

// NewMockNotificationRepository creates a new MockNotificationRepository
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{NextID: 1}
}

// Create records a notification
func (m *MockNotificationRepository) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if m.CreateFn != nil {
		return m.CreateFn(n)
	}

	created := *n
	created.ID = m.NextID
	created.CreatedAt = time.Now()
	m.NextID++
	m.Notifications = append(m.Notifications, &created)
	return &created, nil
}
