package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/dto"
)

var (
	ErrSameAccount     = errors.New("debit and credit accounts must differ")
	ErrNonPositive     = errors.New("entry amount must be positive")
	ErrMalformedPeriod = errors.New("period end precedes period start")
)

// journalService posts and queries double-entry journal entries.
type journalService struct {
	BaseService
	journalRepo ports.JournalRepository
	accountRepo ports.AccountRepository
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo ports.JournalRepository, accountRepo ports.AccountRepository) ports.JournalService {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ ports.JournalService = (*journalService)(nil)

// PostEntry validates and appends a journal entry. Both account codes must be
// registered, the accounts must differ and the amount must be positive. The
// entry is immutable once posted.
func (s *journalService) PostEntry(ctx context.Context, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositive)
	}
	if req.DebitAccount == req.CreditAccount {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrSameAccount)
	}
	if req.PostingDate.IsZero() || req.CompetenceDate.IsZero() {
		return nil, fmt.Errorf("%w: posting and competence dates are required", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, []string{req.DebitAccount, req.CreditAccount})
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve entry accounts",
			slog.String("debit_account", req.DebitAccount),
			slog.String("credit_account", req.CreditAccount))
		return nil, err
	}
	for _, code := range []string{req.DebitAccount, req.CreditAccount} {
		if _, ok := accounts[code]; !ok {
			return nil, fmt.Errorf("%w: account %s is not registered", apperrors.ErrNotFound, code)
		}
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:           uuid.NewString(),
		PostingDate:       req.PostingDate,
		CompetenceDate:    req.CompetenceDate,
		DebitAccount:      req.DebitAccount,
		CreditAccount:     req.CreditAccount,
		Amount:            req.Amount,
		Description:       req.Description,
		CostCenter:        req.CostCenter,
		ReferenceDocument: req.ReferenceDocument,
		Status:            domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("debit_account", entry.DebitAccount),
		slog.String("credit_account", entry.CreditAccount),
		slog.String("amount", entry.Amount.String()))
	return &entry, nil
}

// QueryEntries returns entries whose competence date falls in the period,
// optionally filtered by account code. Pure read, no mutation.
func (s *journalService) QueryEntries(ctx context.Context, periodStart, periodEnd time.Time, accountCode string) ([]domain.JournalEntry, error) {
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMalformedPeriod)
	}

	entries, err := s.journalRepo.FindEntriesByPeriod(ctx, periodStart, periodEnd, accountCode)
	if err != nil {
		s.LogError(ctx, err, "Failed to query journal entries",
			slog.Time("period_start", periodStart),
			slog.Time("period_end", periodEnd))
		return nil, err
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}

// ListEntries returns journal entries in insertion order with pagination.
func (s *journalService) ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListEntries(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries",
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, err
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}
