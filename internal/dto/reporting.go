package dto

import (
	"time"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceParams defines query parameters for the trial balance report.
type TrialBalanceParams struct {
	PeriodStart time.Time `form:"periodStart" time_format:"2006-01-02" binding:"required"`
	PeriodEnd   time.Time `form:"periodEnd" time_format:"2006-01-02" binding:"required"`
}

// TrialBalanceLineResponse represents one row of the trial balance report.
type TrialBalanceLineResponse struct {
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	Nature         string          `json:"nature"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	DebitsTotal    decimal.Decimal `json:"debitsTotal"`
	CreditsTotal   decimal.Decimal `json:"creditsTotal"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	PeriodStart string                     `json:"periodStart"`
	PeriodEnd   string                     `json:"periodEnd"`
	Lines       []TrialBalanceLineResponse `json:"lines"`
	Totals      struct {
		Debits  decimal.Decimal `json:"debits"`
		Credits decimal.Decimal `json:"credits"`
	} `json:"totals"`
}

// BalanceSheetRequest carries the classified period totals for the balance sheet.
type BalanceSheetRequest struct {
	ClosingDate         time.Time       `json:"closingDate" binding:"required"`
	AssetCurrent        decimal.Decimal `json:"assetCurrent"`
	AssetNonCurrent     decimal.Decimal `json:"assetNonCurrent"`
	LiabilityCurrent    decimal.Decimal `json:"liabilityCurrent"`
	LiabilityNonCurrent decimal.Decimal `json:"liabilityNonCurrent"`
	Equity              decimal.Decimal `json:"equity"`
}

// IncomeStatementRequest carries the inputs of the income statement cascade.
type IncomeStatementRequest struct {
	PeriodStart       time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd         time.Time       `json:"periodEnd" binding:"required"`
	GrossRevenue      decimal.Decimal `json:"grossRevenue"`
	Deductions        decimal.Decimal `json:"deductions"`
	Costs             decimal.Decimal `json:"costs"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	FinancialResult   decimal.Decimal `json:"financialResult"`
	TaxProvision      decimal.Decimal `json:"taxProvision"`
}

// ToTrialBalanceResponse converts a domain trial balance to its response DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		PeriodStart: tb.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   tb.PeriodEnd.Format("2006-01-02"),
		Lines:       make([]TrialBalanceLineResponse, len(tb.Lines)),
	}
	for i, line := range tb.Lines {
		response.Lines[i] = TrialBalanceLineResponse{
			AccountCode:    line.AccountCode,
			AccountName:    line.AccountName,
			Nature:         string(line.Nature),
			OpeningBalance: line.OpeningBalance,
			DebitsTotal:    line.DebitsTotal,
			CreditsTotal:   line.CreditsTotal,
			ClosingBalance: line.ClosingBalance,
		}
	}
	response.Totals.Debits = tb.TotalDebits
	response.Totals.Credits = tb.TotalCredits
	return response
}
