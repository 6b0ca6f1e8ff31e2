package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/core/services"
	"github.com/rotafrete/contabil_backend/internal/dto"
)

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         ports.ReportingService

	periodStart time.Time
	periodEnd   time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReportingService(suite.mockJournalRepo, suite.mockAccountRepo)
	suite.periodStart = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
}

// --- Trial Balance ---

func (suite *ReportingServiceTestSuite) TestComputeTrialBalance_SignRule() {
	ctx := context.Background()
	entries := []domain.JournalEntry{
		{EntryID: "e-1", DebitAccount: "1.1", CreditAccount: "3.1", Amount: decimal.NewFromInt(100)},
	}
	openings := map[string]decimal.Decimal{
		"1.1": decimal.NewFromInt(50),
	}

	suite.mockJournalRepo.On("CountEntriesInPeriod", ctx, suite.periodStart, suite.periodEnd).Return(int64(1), nil).Twice()
	suite.mockJournalRepo.On("FindEntriesByPeriod", ctx, suite.periodStart, suite.periodEnd, "").Return(entries, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(map[string]domain.Account{
		"1.1": {Code: "1.1", Name: "Caixa", Nature: domain.DebitNature},
		"3.1": {Code: "3.1", Name: "Receita de Frete", Nature: domain.CreditNature},
	}, nil).Once()

	tb, err := suite.service.ComputeTrialBalance(ctx, suite.periodStart, suite.periodEnd, openings)

	suite.Require().NoError(err)
	suite.Require().NotNil(tb)
	suite.Require().Len(tb.Lines, 2)

	// Debit-nature account: closing = opening + debits - credits.
	cash := tb.Lines[0]
	suite.Equal("1.1", cash.AccountCode)
	suite.True(cash.OpeningBalance.Equal(decimal.NewFromInt(50)))
	suite.True(cash.DebitsTotal.Equal(decimal.NewFromInt(100)))
	suite.True(cash.ClosingBalance.Equal(decimal.NewFromInt(150)))

	// Credit-nature account: closing = opening + credits - debits.
	revenue := tb.Lines[1]
	suite.Equal("3.1", revenue.AccountCode)
	suite.True(revenue.CreditsTotal.Equal(decimal.NewFromInt(100)))
	suite.True(revenue.ClosingBalance.Equal(decimal.NewFromInt(100)))

	suite.True(tb.TotalDebits.Equal(tb.TotalCredits))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestComputeTrialBalance_IncludesOpeningOnlyAccounts() {
	ctx := context.Background()
	// Nothing posted this period, but "1.2" carries a balance in.
	openings := map[string]decimal.Decimal{
		"1.2": decimal.NewFromInt(300),
	}

	suite.mockJournalRepo.On("CountEntriesInPeriod", ctx, suite.periodStart, suite.periodEnd).Return(int64(0), nil).Twice()
	suite.mockJournalRepo.On("FindEntriesByPeriod", ctx, suite.periodStart, suite.periodEnd, "").Return([]domain.JournalEntry{}, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1.2"}).Return(map[string]domain.Account{
		"1.2": {Code: "1.2", Name: "Bancos", Nature: domain.DebitNature},
	}, nil).Once()

	tb, err := suite.service.ComputeTrialBalance(ctx, suite.periodStart, suite.periodEnd, openings)

	suite.Require().NoError(err)
	suite.Require().Len(tb.Lines, 1)
	suite.Equal("1.2", tb.Lines[0].AccountCode)
	suite.True(tb.Lines[0].DebitsTotal.IsZero())
	suite.True(tb.Lines[0].ClosingBalance.Equal(decimal.NewFromInt(300)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestComputeTrialBalance_MalformedPeriod() {
	ctx := context.Background()

	tb, err := suite.service.ComputeTrialBalance(ctx, suite.periodEnd, suite.periodStart, nil)

	suite.Require().Error(err)
	suite.Nil(tb)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntriesByPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestComputeTrialBalance_ConcurrentPostConflicts() {
	ctx := context.Background()
	entries := []domain.JournalEntry{
		{EntryID: "e-1", DebitAccount: "1.1", CreditAccount: "3.1", Amount: decimal.NewFromInt(100)},
	}

	// A second entry lands between the two counts.
	suite.mockJournalRepo.On("CountEntriesInPeriod", ctx, suite.periodStart, suite.periodEnd).Return(int64(1), nil).Once()
	suite.mockJournalRepo.On("FindEntriesByPeriod", ctx, suite.periodStart, suite.periodEnd, "").Return(entries, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(map[string]domain.Account{
		"1.1": {Code: "1.1", Nature: domain.DebitNature},
		"3.1": {Code: "3.1", Nature: domain.CreditNature},
	}, nil).Once()
	suite.mockJournalRepo.On("CountEntriesInPeriod", ctx, suite.periodStart, suite.periodEnd).Return(int64(2), nil).Once()

	tb, err := suite.service.ComputeTrialBalance(ctx, suite.periodStart, suite.periodEnd, nil)

	suite.Require().Error(err)
	suite.Nil(tb)
	suite.ErrorIs(err, apperrors.ErrConflict)

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

// --- Balance Sheet ---

func (suite *ReportingServiceTestSuite) TestBuildBalanceSheet_Balanced() {
	req := dto.BalanceSheetRequest{
		ClosingDate:         suite.periodEnd,
		AssetCurrent:        decimal.NewFromInt(70000),
		AssetNonCurrent:     decimal.NewFromInt(30000),
		LiabilityCurrent:    decimal.NewFromInt(40000),
		LiabilityNonCurrent: decimal.NewFromInt(20000),
		Equity:              decimal.NewFromInt(40000),
	}

	bs, err := suite.service.BuildBalanceSheet(req)

	suite.Require().NoError(err)
	suite.Require().NotNil(bs)
	suite.True(bs.TotalAssets.Equal(decimal.NewFromInt(100000)))
	suite.True(bs.TotalLiabilitiesAndEquity.Equal(decimal.NewFromInt(100000)))
}

func (suite *ReportingServiceTestSuite) TestBuildBalanceSheet_Mismatch() {
	req := dto.BalanceSheetRequest{
		ClosingDate:         suite.periodEnd,
		AssetCurrent:        decimal.NewFromInt(70000),
		AssetNonCurrent:     decimal.NewFromInt(30000),
		LiabilityCurrent:    decimal.NewFromInt(40000),
		LiabilityNonCurrent: decimal.NewFromInt(20000),
		Equity:              decimal.NewFromInt(39000),
	}

	bs, err := suite.service.BuildBalanceSheet(req)

	suite.Require().Error(err)
	suite.Nil(bs)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestBuildBalanceSheet_WithinRoundingTolerance() {
	req := dto.BalanceSheetRequest{
		ClosingDate:         suite.periodEnd,
		AssetCurrent:        decimal.RequireFromString("100000.01"),
		LiabilityCurrent:    decimal.NewFromInt(60000),
		LiabilityNonCurrent: decimal.Zero,
		Equity:              decimal.NewFromInt(40000),
	}

	bs, err := suite.service.BuildBalanceSheet(req)

	suite.Require().NoError(err)
	suite.Require().NotNil(bs)
}

// --- Income Statement ---

func (suite *ReportingServiceTestSuite) TestBuildIncomeStatement_Cascade() {
	req := dto.IncomeStatementRequest{
		PeriodStart:       suite.periodStart,
		PeriodEnd:         suite.periodEnd,
		GrossRevenue:      decimal.NewFromInt(100000),
		Deductions:        decimal.NewFromInt(10000),
		Costs:             decimal.NewFromInt(30000),
		OperatingExpenses: decimal.NewFromInt(20000),
		FinancialResult:   decimal.NewFromInt(-2000),
		TaxProvision:      decimal.NewFromInt(5000),
	}

	is := suite.service.BuildIncomeStatement(req)

	suite.Require().NotNil(is)
	suite.True(is.NetRevenue.Equal(decimal.NewFromInt(90000)))
	suite.True(is.GrossProfit.Equal(decimal.NewFromInt(60000)))
	suite.True(is.OperatingResult.Equal(decimal.NewFromInt(40000)))
	suite.True(is.ResultBeforeTax.Equal(decimal.NewFromInt(38000)))
	suite.True(is.NetResult.Equal(decimal.NewFromInt(33000)))
}

func (suite *ReportingServiceTestSuite) TestBuildIncomeStatement_LossPropagates() {
	req := dto.IncomeStatementRequest{
		PeriodStart:  suite.periodStart,
		PeriodEnd:    suite.periodEnd,
		GrossRevenue: decimal.NewFromInt(10000),
		Costs:        decimal.NewFromInt(25000),
	}

	is := suite.service.BuildIncomeStatement(req)

	// A loss-making period is a valid statement, not an error.
	suite.True(is.GrossProfit.Equal(decimal.NewFromInt(-15000)))
	suite.True(is.NetResult.Equal(decimal.NewFromInt(-15000)))
}

// --- Opening Balances ---

func (suite *ReportingServiceTestSuite) TestOpeningBalances_SignedByNature() {
	ctx := context.Background()
	movements := []domain.AccountMovement{
		{AccountCode: "1.1", DebitsTotal: decimal.NewFromInt(500), CreditsTotal: decimal.NewFromInt(200)},
		{AccountCode: "2.1", DebitsTotal: decimal.NewFromInt(100), CreditsTotal: decimal.NewFromInt(400)},
	}

	suite.mockJournalRepo.On("AggregateMovementsBefore", ctx, suite.periodStart).Return(movements, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1.1", "2.1"}).Return(map[string]domain.Account{
		"1.1": {Code: "1.1", Nature: domain.DebitNature},
		"2.1": {Code: "2.1", Nature: domain.CreditNature},
	}, nil).Once()

	openings, err := suite.service.OpeningBalances(ctx, suite.periodStart)

	suite.Require().NoError(err)
	suite.True(openings["1.1"].Equal(decimal.NewFromInt(300)))
	suite.True(openings["2.1"].Equal(decimal.NewFromInt(300)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
