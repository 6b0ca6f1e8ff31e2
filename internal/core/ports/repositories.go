package ports

import (
	"context"
	"time"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
)

// AccountRepository defines the persistence operations for the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountByReducedCode(ctx context.Context, reducedCode string) (*domain.Account, error)
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, code string, userID string, now time.Time) error
}

// JournalRepository defines the persistence operations for journal entries.
// Entries are append-only; there is no update or delete.
type JournalRepository interface {
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	// FindEntriesByPeriod returns entries whose competence date falls in
	// [periodStart, periodEnd], optionally filtered by account code (either side).
	FindEntriesByPeriod(ctx context.Context, periodStart, periodEnd time.Time, accountCode string) ([]domain.JournalEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error)
	// CountEntriesInPeriod supports the optimistic snapshot check of the
	// trial balance aggregation.
	CountEntriesInPeriod(ctx context.Context, periodStart, periodEnd time.Time) (int64, error)
	// AggregateMovementsBefore sums debits and credits per account over all
	// entries with competence date strictly before the given date.
	AggregateMovementsBefore(ctx context.Context, before time.Time) ([]domain.AccountMovement, error)
}

// ApurationRepository defines the persistence operations for tax apurations.
// One apuration exists per competence period; period_start is unique.
type ApurationRepository interface {
	SaveApuration(ctx context.Context, apuration domain.TaxApuration) error
	UpdateApuration(ctx context.Context, apuration domain.TaxApuration) error
	UpdateApurationStatus(ctx context.Context, apurationID string, status domain.ApurationStatus, userID string, now time.Time) error
	FindApurationByID(ctx context.Context, apurationID string) (*domain.TaxApuration, error)
	FindApurationByPeriodStart(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error)
	// FindLatestApurationBefore returns the apuration with the greatest
	// period start preceding the given period start, or ErrNotFound.
	FindLatestApurationBefore(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error)
	ListApurations(ctx context.Context, limit, offset int) ([]domain.TaxApuration, error)
}

// Repositories bundles all repository implementations for injection.
type Repositories struct {
	Account   AccountRepository
	Journal   JournalRepository
	Apuration ApurationRepository
}
