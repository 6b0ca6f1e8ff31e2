package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSheet is a snapshot of assets, liabilities and equity at a closing
// date. TotalAssets and TotalLiabilitiesAndEquity must agree within 0.01.
type BalanceSheet struct {
	ClosingDate               time.Time       `json:"closingDate"`
	AssetCurrent              decimal.Decimal `json:"assetCurrent"`
	AssetNonCurrent           decimal.Decimal `json:"assetNonCurrent"`
	LiabilityCurrent          decimal.Decimal `json:"liabilityCurrent"`
	LiabilityNonCurrent       decimal.Decimal `json:"liabilityNonCurrent"`
	Equity                    decimal.Decimal `json:"equity"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
}

// IncomeStatement is the cascading derivation from gross revenue down to net
// result for a period. Every derived field is an exact function of the
// inputs; negative intermediate values are valid.
type IncomeStatement struct {
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	GrossRevenue      decimal.Decimal `json:"grossRevenue"`
	Deductions        decimal.Decimal `json:"deductions"`
	NetRevenue        decimal.Decimal `json:"netRevenue"`
	Costs             decimal.Decimal `json:"costs"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	OperatingResult   decimal.Decimal `json:"operatingResult"`
	FinancialResult   decimal.Decimal `json:"financialResult"`
	ResultBeforeTax   decimal.Decimal `json:"resultBeforeTax"`
	TaxProvision      decimal.Decimal `json:"taxProvision"`
	NetResult         decimal.Decimal `json:"netResult"`
}
