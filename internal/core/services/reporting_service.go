package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/dto"
	"github.com/rotafrete/contabil_backend/internal/utils/accounting"
)

// balanceSheetTolerance is the largest accepted difference between total
// assets and total liabilities plus equity.
var balanceSheetTolerance = decimal.NewFromFloat(0.01)

// reportingService derives the trial balance and the financial statements.
type reportingService struct {
	BaseService
	journalRepo ports.JournalRepository
	accountRepo ports.AccountRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(journalRepo ports.JournalRepository, accountRepo ports.AccountRepository) ports.ReportingService {
	return &reportingService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ ports.ReportingService = (*reportingService)(nil)

// OpeningBalances aggregates every entry with competence date before asOf
// into a per-account balance under the nature sign rule.
func (s *reportingService) OpeningBalances(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error) {
	movements, err := s.journalRepo.AggregateMovementsBefore(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate prior movements", slog.Time("as_of", asOf))
		return nil, err
	}

	codes := make([]string, 0, len(movements))
	for _, m := range movements {
		codes = append(codes, m.AccountCode)
	}
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve accounts for opening balances")
		return nil, err
	}

	openings := make(map[string]decimal.Decimal, len(movements))
	for _, m := range movements {
		account, ok := accounts[m.AccountCode]
		if !ok {
			return nil, fmt.Errorf("%w: account %s referenced by ledger is not registered", apperrors.ErrNotFound, m.AccountCode)
		}
		openings[m.AccountCode] = accounting.SignedMovement(account.Nature, m.DebitsTotal, m.CreditsTotal)
	}
	return openings, nil
}

// ComputeTrialBalance summarizes the period per account: opening balance,
// debit and credit totals and the closing balance under the nature sign rule.
// Total debits must equal total credits across all entries in the period;
// any disagreement means external data corruption and fails with ErrImbalance.
// An optimistic re-count detects a concurrent post into the same period.
func (s *reportingService) ComputeTrialBalance(ctx context.Context, periodStart, periodEnd time.Time, openingBalances map[string]decimal.Decimal) (*domain.TrialBalance, error) {
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMalformedPeriod)
	}

	countBefore, err := s.journalRepo.CountEntriesInPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to count period entries")
		return nil, err
	}

	entries, err := s.journalRepo.FindEntriesByPeriod(ctx, periodStart, periodEnd, "")
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch period entries",
			slog.Time("period_start", periodStart),
			slog.Time("period_end", periodEnd))
		return nil, err
	}

	debits := make(map[string]decimal.Decimal)
	credits := make(map[string]decimal.Decimal)
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, entry := range entries {
		debits[entry.DebitAccount] = debits[entry.DebitAccount].Add(entry.Amount)
		credits[entry.CreditAccount] = credits[entry.CreditAccount].Add(entry.Amount)
		totalDebits = totalDebits.Add(entry.Amount)
		totalCredits = totalCredits.Add(entry.Amount)
	}

	if !totalDebits.Equal(totalCredits) {
		s.LogError(ctx, apperrors.ErrImbalance, "Trial balance totals disagree",
			slog.String("total_debits", totalDebits.String()),
			slog.String("total_credits", totalCredits.String()))
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrImbalance, totalDebits, totalCredits)
	}

	// Union of accounts touched in the period and accounts carrying an
	// opening balance into it.
	codeSet := make(map[string]struct{})
	for code := range debits {
		codeSet[code] = struct{}{}
	}
	for code := range credits {
		codeSet[code] = struct{}{}
	}
	for code := range openingBalances {
		codeSet[code] = struct{}{}
	}
	codes := make([]string, 0, len(codeSet))
	for code := range codeSet {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return domain.CompareAccountCodes(codes[i], codes[j]) < 0
	})

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve trial balance accounts")
		return nil, err
	}

	lines := make([]domain.TrialBalanceLine, 0, len(codes))
	for _, code := range codes {
		account, ok := accounts[code]
		if !ok {
			return nil, fmt.Errorf("%w: account %s referenced by ledger is not registered", apperrors.ErrNotFound, code)
		}
		opening := openingBalances[code]
		lines = append(lines, domain.TrialBalanceLine{
			AccountCode:    code,
			AccountName:    account.Name,
			Nature:         account.Nature,
			OpeningBalance: opening,
			DebitsTotal:    debits[code],
			CreditsTotal:   credits[code],
			ClosingBalance: accounting.ClosingBalance(account.Nature, opening, debits[code], credits[code]),
		})
	}

	// Snapshot check: a post that landed while aggregating invalidates the result.
	countAfter, err := s.journalRepo.CountEntriesInPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to re-count period entries")
		return nil, err
	}
	if countAfter != countBefore || countBefore != int64(len(entries)) {
		return nil, fmt.Errorf("%w: entries changed during trial balance aggregation", apperrors.ErrConflict)
	}

	s.LogInfo(ctx, "Trial balance computed",
		slog.Time("period_start", periodStart),
		slog.Time("period_end", periodEnd),
		slog.Int("line_count", len(lines)))
	return &domain.TrialBalance{
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		Lines:        lines,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
	}, nil
}

// BuildBalanceSheet totals both sides of the balance sheet and rejects any
// mismatch beyond the 0.01 tolerance.
func (s *reportingService) BuildBalanceSheet(req dto.BalanceSheetRequest) (*domain.BalanceSheet, error) {
	totalAssets := req.AssetCurrent.Add(req.AssetNonCurrent)
	totalLiabilitiesAndEquity := req.LiabilityCurrent.Add(req.LiabilityNonCurrent).Add(req.Equity)

	if totalAssets.Sub(totalLiabilitiesAndEquity).Abs().GreaterThan(balanceSheetTolerance) {
		return nil, fmt.Errorf("%w: total assets %s do not match liabilities plus equity %s",
			apperrors.ErrValidation, totalAssets, totalLiabilitiesAndEquity)
	}

	return &domain.BalanceSheet{
		ClosingDate:               req.ClosingDate,
		AssetCurrent:              req.AssetCurrent,
		AssetNonCurrent:           req.AssetNonCurrent,
		LiabilityCurrent:          req.LiabilityCurrent,
		LiabilityNonCurrent:       req.LiabilityNonCurrent,
		Equity:                    req.Equity,
		TotalAssets:               totalAssets,
		TotalLiabilitiesAndEquity: totalLiabilitiesAndEquity,
	}, nil
}

// BuildIncomeStatement runs the fixed derivation cascade. Negative
// intermediate values are valid and propagate exactly; a loss-making period
// is not an error.
func (s *reportingService) BuildIncomeStatement(req dto.IncomeStatementRequest) *domain.IncomeStatement {
	netRevenue := req.GrossRevenue.Sub(req.Deductions)
	grossProfit := netRevenue.Sub(req.Costs)
	operatingResult := grossProfit.Sub(req.OperatingExpenses)
	resultBeforeTax := operatingResult.Add(req.FinancialResult)
	netResult := resultBeforeTax.Sub(req.TaxProvision)

	return &domain.IncomeStatement{
		PeriodStart:       req.PeriodStart,
		PeriodEnd:         req.PeriodEnd,
		GrossRevenue:      req.GrossRevenue,
		Deductions:        req.Deductions,
		NetRevenue:        netRevenue,
		Costs:             req.Costs,
		GrossProfit:       grossProfit,
		OperatingExpenses: req.OperatingExpenses,
		OperatingResult:   operatingResult,
		FinancialResult:   req.FinancialResult,
		ResultBeforeTax:   resultBeforeTax,
		TaxProvision:      req.TaxProvision,
		NetResult:         netResult,
	}
}
