package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByReducedCode(ctx context.Context, reducedCode string) (*domain.Account, error) {
	args := m.Called(ctx, reducedCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, code string, userID string, now time.Time) error {
	args := m.Called(ctx, code, userID, now)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepository interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByPeriod(ctx context.Context, periodStart, periodEnd time.Time, accountCode string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, periodStart, periodEnd, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) CountEntriesInPeriod(ctx context.Context, periodStart, periodEnd time.Time) (int64, error) {
	args := m.Called(ctx, periodStart, periodEnd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) AggregateMovementsBefore(ctx context.Context, before time.Time) ([]domain.AccountMovement, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountMovement), args.Error(1)
}

// MockApurationRepository is a mock type for the ApurationRepository interface
type MockApurationRepository struct {
	mock.Mock
}

func (m *MockApurationRepository) SaveApuration(ctx context.Context, apuration domain.TaxApuration) error {
	args := m.Called(ctx, apuration)
	return args.Error(0)
}

func (m *MockApurationRepository) UpdateApuration(ctx context.Context, apuration domain.TaxApuration) error {
	args := m.Called(ctx, apuration)
	return args.Error(0)
}

func (m *MockApurationRepository) UpdateApurationStatus(ctx context.Context, apurationID string, status domain.ApurationStatus, userID string, now time.Time) error {
	args := m.Called(ctx, apurationID, status, userID, now)
	return args.Error(0)
}

func (m *MockApurationRepository) FindApurationByID(ctx context.Context, apurationID string) (*domain.TaxApuration, error) {
	args := m.Called(ctx, apurationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxApuration), args.Error(1)
}

func (m *MockApurationRepository) FindApurationByPeriodStart(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error) {
	args := m.Called(ctx, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxApuration), args.Error(1)
}

func (m *MockApurationRepository) FindLatestApurationBefore(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error) {
	args := m.Called(ctx, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxApuration), args.Error(1)
}

func (m *MockApurationRepository) ListApurations(ctx context.Context, limit, offset int) ([]domain.TaxApuration, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxApuration), args.Error(1)
}
