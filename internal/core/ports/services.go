package ports

import (
	"context"
	"time"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountService manages the chart of accounts.
type AccountService interface {
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, userID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, sorted bool) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, code string, userID string) error
}

// JournalService posts and queries double-entry journal entries.
type JournalService interface {
	PostEntry(ctx context.Context, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error)
	QueryEntries(ctx context.Context, periodStart, periodEnd time.Time, accountCode string) ([]domain.JournalEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error)
}

// ReportingService derives the trial balance and the financial statements.
type ReportingService interface {
	OpeningBalances(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error)
	ComputeTrialBalance(ctx context.Context, periodStart, periodEnd time.Time, openingBalances map[string]decimal.Decimal) (*domain.TrialBalance, error)
	BuildBalanceSheet(req dto.BalanceSheetRequest) (*domain.BalanceSheet, error)
	BuildIncomeStatement(req dto.IncomeStatementRequest) *domain.IncomeStatement
}

// ApurationService computes the period-chained tax apuration.
type ApurationService interface {
	ComputeApuration(ctx context.Context, req dto.ComputeApurationRequest, userID string) (*domain.TaxApuration, error)
	ActivateApuration(ctx context.Context, apurationID string, userID string) (*domain.TaxApuration, error)
	CloseApuration(ctx context.Context, apurationID string, userID string) (*domain.TaxApuration, error)
	GetApurationByID(ctx context.Context, apurationID string) (*domain.TaxApuration, error)
	ListApurations(ctx context.Context, limit, offset int) ([]domain.TaxApuration, error)
}

// ServiceContainer bundles all service implementations for route registration.
type ServiceContainer struct {
	Account   AccountService
	Journal   JournalService
	Reporting ReportingService
	Apuration ApurationService
}
