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

type ApurationServiceTestSuite struct {
	suite.Suite
	mockRepo *MockApurationRepository
	service  ports.ApurationService

	periodStart time.Time
	periodEnd   time.Time
}

func (suite *ApurationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockApurationRepository)
	suite.service = services.NewApurationService(suite.mockRepo)
	suite.periodStart = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
}

func (suite *ApurationServiceTestSuite) computeRequest(gross, credits int64) dto.ComputeApurationRequest {
	return dto.ComputeApurationRequest{
		PeriodStart:      suite.periodStart,
		PeriodEnd:        suite.periodEnd,
		GrossRevenue:     decimal.NewFromInt(gross),
		PisCofinsCredits: decimal.NewFromInt(credits),
	}
}

func (suite *ApurationServiceTestSuite) expectFirstPeriodSave(ctx context.Context) {
	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindApurationByPeriodStart", ctx, suite.periodStart).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveApuration", ctx, mock.AnythingOfType("domain.TaxApuration")).Return(nil).Once()
}

// --- Compute ---

func (suite *ApurationServiceTestSuite) TestComputeApuration_FirstPeriod() {
	ctx := context.Background()
	suite.expectFirstPeriodSave(ctx)

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(apuration)
	suite.NotEmpty(apuration.ApurationID)
	suite.Equal(domain.ApurationDraft, apuration.Status)
	suite.Empty(apuration.PriorPeriodRef)

	// PIS 1.65% and COFINS 7.6% of gross revenue.
	suite.True(apuration.PisAmount.Equal(decimal.RequireFromString("1650")), "pis: %s", apuration.PisAmount)
	suite.True(apuration.CofinsAmount.Equal(decimal.RequireFromString("7600")), "cofins: %s", apuration.CofinsAmount)

	// IRPJ on an 8% presumption at 15%, CSLL on a 12% presumption at 9%.
	suite.True(apuration.IrpjBase.Equal(decimal.NewFromInt(8000)), "irpj base: %s", apuration.IrpjBase)
	suite.True(apuration.CsllBase.Equal(decimal.NewFromInt(12000)), "csll base: %s", apuration.CsllBase)
	suite.True(apuration.IrpjAmount.Equal(decimal.NewFromInt(1200)), "irpj: %s", apuration.IrpjAmount)
	suite.True(apuration.CsllAmount.Equal(decimal.NewFromInt(1080)), "csll: %s", apuration.CsllAmount)

	suite.True(apuration.LossCompensation.IsZero())
	suite.True(apuration.EffectiveRate.Equal(decimal.RequireFromString("0.1153")), "rate: %s", apuration.EffectiveRate)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_CreditsReduceContributions() {
	ctx := context.Background()
	suite.expectFirstPeriodSave(ctx)

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 2000), "user-1")

	suite.Require().NoError(err)
	// Credits exceed the PIS amount, which floors at zero rather than going negative.
	suite.True(apuration.PisAmount.IsZero(), "pis: %s", apuration.PisAmount)
	suite.True(apuration.CofinsAmount.Equal(decimal.NewFromInt(5600)), "cofins: %s", apuration.CofinsAmount)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_ZeroGrossRevenue() {
	ctx := context.Background()
	suite.expectFirstPeriodSave(ctx)

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(0, 0), "user-1")

	suite.Require().NoError(err)
	suite.True(apuration.PisAmount.IsZero())
	suite.True(apuration.CofinsAmount.IsZero())
	suite.True(apuration.IrpjAmount.IsZero())
	suite.True(apuration.CsllAmount.IsZero())
	suite.True(apuration.EffectiveRate.IsZero())

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_NegativeGrossRevenue() {
	ctx := context.Background()
	req := suite.computeRequest(100000, 0)
	req.GrossRevenue = decimal.NewFromInt(-1)

	apuration, err := suite.service.ComputeApuration(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApuration", mock.Anything, mock.Anything)
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_MalformedPeriod() {
	ctx := context.Background()
	req := suite.computeRequest(100000, 0)
	req.PeriodEnd = req.PeriodStart.AddDate(0, 0, -1)

	apuration, err := suite.service.ComputeApuration(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_LossCarryforwardCapped() {
	ctx := context.Background()
	prior := &domain.TaxApuration{
		ApurationID: "prior-1",
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Result:      decimal.NewFromInt(-10000),
		Status:      domain.ApurationClosed,
	}

	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(prior, nil).Once()
	suite.mockRepo.On("FindApurationByPeriodStart", ctx, suite.periodStart).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveApuration", ctx, mock.AnythingOfType("domain.TaxApuration")).Return(nil).Once()

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-1")

	suite.Require().NoError(err)
	suite.Equal("prior-1", apuration.PriorPeriodRef)

	// The 10000 loss is capped at 30% of each base: 2400 off 8000 and 3600 off 12000.
	suite.True(apuration.IrpjBase.Equal(decimal.NewFromInt(5600)), "irpj base: %s", apuration.IrpjBase)
	suite.True(apuration.CsllBase.Equal(decimal.NewFromInt(8400)), "csll base: %s", apuration.CsllBase)
	suite.True(apuration.LossCompensation.Equal(decimal.NewFromInt(6000)), "loss comp: %s", apuration.LossCompensation)
	suite.True(apuration.IrpjAmount.Equal(decimal.NewFromInt(840)), "irpj: %s", apuration.IrpjAmount)
	suite.True(apuration.CsllAmount.Equal(decimal.NewFromInt(756)), "csll: %s", apuration.CsllAmount)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_SmallLossFullyCompensated() {
	ctx := context.Background()
	prior := &domain.TaxApuration{
		ApurationID: "prior-1",
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Result:      decimal.NewFromInt(-1000),
		Status:      domain.ApurationActive,
	}

	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(prior, nil).Once()
	suite.mockRepo.On("FindApurationByPeriodStart", ctx, suite.periodStart).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveApuration", ctx, mock.AnythingOfType("domain.TaxApuration")).Return(nil).Once()

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-1")

	suite.Require().NoError(err)
	// 1000 fits under both caps, so each base absorbs the full loss.
	suite.True(apuration.IrpjBase.Equal(decimal.NewFromInt(7000)), "irpj base: %s", apuration.IrpjBase)
	suite.True(apuration.CsllBase.Equal(decimal.NewFromInt(11000)), "csll base: %s", apuration.CsllBase)
	suite.True(apuration.LossCompensation.Equal(decimal.NewFromInt(2000)), "loss comp: %s", apuration.LossCompensation)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_PriorStillDraft() {
	ctx := context.Background()
	prior := &domain.TaxApuration{
		ApurationID: "prior-1",
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:      domain.ApurationDraft,
	}

	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(prior, nil).Once()

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrSequence)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApuration", mock.Anything, mock.Anything)
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_OverlappingPrior() {
	ctx := context.Background()
	prior := &domain.TaxApuration{
		ApurationID: "prior-1",
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   suite.periodStart, // does not end before the new period starts
		Status:      domain.ApurationClosed,
	}

	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(prior, nil).Once()

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrSequence)
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_FinalizedPeriodConflicts() {
	ctx := context.Background()
	existing := &domain.TaxApuration{
		ApurationID: "ap-1",
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		Status:      domain.ApurationActive,
	}

	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindApurationByPeriodStart", ctx, suite.periodStart).Return(existing, nil).Once()

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateApuration", mock.Anything, mock.Anything)
}

func (suite *ApurationServiceTestSuite) TestComputeApuration_RecomputeDraftKeepsIdentity() {
	ctx := context.Background()
	existing := &domain.TaxApuration{
		ApurationID: "ap-1",
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		Status:      domain.ApurationDraft,
		AuditFields: domain.AuditFields{CreatedBy: "user-1"},
	}

	suite.mockRepo.On("FindLatestApurationBefore", ctx, suite.periodStart).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindApurationByPeriodStart", ctx, suite.periodStart).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateApuration", ctx, mock.AnythingOfType("domain.TaxApuration")).Return(nil).Once()

	apuration, err := suite.service.ComputeApuration(ctx, suite.computeRequest(100000, 0), "user-2")

	suite.Require().NoError(err)
	suite.Equal("ap-1", apuration.ApurationID)
	suite.Equal("user-1", apuration.CreatedBy)
	suite.Equal("user-2", apuration.LastUpdatedBy)
	// Identical inputs derive identical amounts on every recompute.
	suite.True(apuration.PisAmount.Equal(decimal.RequireFromString("1650")))
	suite.True(apuration.CofinsAmount.Equal(decimal.RequireFromString("7600")))

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveApuration", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Lifecycle ---

func (suite *ApurationServiceTestSuite) TestActivateApuration_Success() {
	ctx := context.Background()
	draft := &domain.TaxApuration{
		ApurationID: "ap-1",
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		Status:      domain.ApurationDraft,
	}

	suite.mockRepo.On("FindApurationByID", ctx, "ap-1").Return(draft, nil).Twice()
	suite.mockRepo.On("UpdateApurationStatus", ctx, "ap-1", domain.ApurationActive, "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	apuration, err := suite.service.ActivateApuration(ctx, "ap-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.ApurationActive, apuration.Status)
	suite.Equal("user-1", apuration.LastUpdatedBy)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ApurationServiceTestSuite) TestCloseApuration_FromDraftFails() {
	ctx := context.Background()
	draft := &domain.TaxApuration{
		ApurationID: "ap-1",
		PeriodStart: suite.periodStart,
		Status:      domain.ApurationDraft,
	}

	suite.mockRepo.On("FindApurationByID", ctx, "ap-1").Return(draft, nil).Twice()

	apuration, err := suite.service.CloseApuration(ctx, "ap-1", "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateApurationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApurationServiceTestSuite) TestActivateApuration_ClosedIsTerminal() {
	ctx := context.Background()
	closed := &domain.TaxApuration{
		ApurationID: "ap-1",
		PeriodStart: suite.periodStart,
		Status:      domain.ApurationClosed,
	}

	suite.mockRepo.On("FindApurationByID", ctx, "ap-1").Return(closed, nil).Twice()

	apuration, err := suite.service.ActivateApuration(ctx, "ap-1", "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ApurationServiceTestSuite) TestActivateApuration_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindApurationByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	apuration, err := suite.service.ActivateApuration(ctx, "missing", "user-1")

	suite.Require().Error(err)
	suite.Nil(apuration)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ApurationServiceTestSuite) TestListApurations_EmptyIsNotNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListApurations", ctx, 20, 0).Return(nil, nil).Once()

	apurations, err := suite.service.ListApurations(ctx, 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(apurations)
	suite.Len(apurations, 0)

	suite.mockRepo.AssertExpectations(suite.T())
}

func TestApurationService(t *testing.T) {
	suite.Run(t, new(ApurationServiceTestSuite))
}
