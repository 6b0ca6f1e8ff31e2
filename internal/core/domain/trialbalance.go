package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceLine summarizes one account over one period. Lines are derived
// on demand from journal entries and never persisted on their own.
type TrialBalanceLine struct {
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	Nature         AccountNature   `json:"nature"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	DebitsTotal    decimal.Decimal `json:"debitsTotal"`
	CreditsTotal   decimal.Decimal `json:"creditsTotal"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AccountMovement is a per-account aggregate of debit and credit totals,
// produced by the journal repository for a date range.
type AccountMovement struct {
	AccountCode  string          `json:"accountCode"`
	DebitsTotal  decimal.Decimal `json:"debitsTotal"`
	CreditsTotal decimal.Decimal `json:"creditsTotal"`
}

// TrialBalance is the full per-period summary with its control totals.
type TrialBalance struct {
	PeriodStart  time.Time          `json:"periodStart"`
	PeriodEnd    time.Time          `json:"periodEnd"`
	Lines        []TrialBalanceLine `json:"lines"`
	TotalDebits  decimal.Decimal    `json:"totalDebits"`
	TotalCredits decimal.Decimal    `json:"totalCredits"`
}
