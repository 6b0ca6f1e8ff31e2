package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/dto"
)

// Tax rates applied by the apuration. PIS and COFINS are non-cumulative
// turnover contributions on gross revenue; the IRPJ and CSLL bases are fixed
// revenue presumptions of 8% and 12%, taxed at 15% and 9%.
var (
	pisRate         = decimal.NewFromFloat(0.0165)
	cofinsRate      = decimal.NewFromFloat(0.076)
	irpjPresumption = decimal.NewFromFloat(0.08)
	csllPresumption = decimal.NewFromFloat(0.12)
	irpjRate        = decimal.NewFromFloat(0.15)
	csllRate        = decimal.NewFromFloat(0.09)

	// Loss carryforward may offset at most 30% of each period tax base.
	lossCompensationCap = decimal.NewFromFloat(0.30)
)

// apurationService computes the period-chained tax apuration. Periods form a
// singly-linked chronological chain; computing period N requires period N-1
// to be ACTIVE or CLOSED.
type apurationService struct {
	BaseService
	apurationRepo ports.ApurationRepository

	mu          sync.Mutex
	periodLocks map[string]*sync.Mutex
}

// NewApurationService creates a new tax apuration service.
func NewApurationService(repo ports.ApurationRepository) ports.ApurationService {
	return &apurationService{
		apurationRepo: repo,
		periodLocks:   make(map[string]*sync.Mutex),
	}
}

var _ ports.ApurationService = (*apurationService)(nil)

// lockPeriod serializes computation and persistence per competence period.
// At most one apuration for a given period is in flight at any time.
func (s *apurationService) lockPeriod(periodStart time.Time) func() {
	key := periodStart.UTC().Format("2006-01-02")
	s.mu.Lock()
	lock, ok := s.periodLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.periodLocks[key] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// ComputeApuration derives the period tax liability and stores it as a DRAFT.
// Recomputing an existing draft from identical inputs replaces it with an
// identical result; a finalized period cannot be recomputed.
func (s *apurationService) ComputeApuration(ctx context.Context, req dto.ComputeApurationRequest, userID string) (*domain.TaxApuration, error) {
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMalformedPeriod)
	}
	if req.GrossRevenue.IsNegative() {
		return nil, fmt.Errorf("%w: gross revenue must not be negative", apperrors.ErrValidation)
	}
	if req.PisCofinsCredits.IsNegative() {
		return nil, fmt.Errorf("%w: PIS/COFINS credits must not be negative", apperrors.ErrValidation)
	}

	unlock := s.lockPeriod(req.PeriodStart)
	defer unlock()

	prior, err := s.priorApuration(ctx, req.PeriodStart)
	if err != nil {
		return nil, err
	}

	apuration := s.derive(req, prior)

	existing, err := s.apurationRepo.FindApurationByPeriodStart(ctx, req.PeriodStart)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up apuration for period", slog.Time("period_start", req.PeriodStart))
		return nil, err
	}

	now := time.Now().UTC()
	if existing != nil {
		if existing.Status != domain.ApurationDraft {
			return nil, fmt.Errorf("%w: apuration for period %s is already %s",
				apperrors.ErrConflict, req.PeriodStart.Format("2006-01-02"), existing.Status)
		}
		// Replace the draft in place, keeping its identity.
		apuration.ApurationID = existing.ApurationID
		apuration.AuditFields = existing.AuditFields
		apuration.LastUpdatedAt = now
		apuration.LastUpdatedBy = userID
		if err := s.apurationRepo.UpdateApuration(ctx, apuration); err != nil {
			s.LogError(ctx, err, "Failed to replace draft apuration", slog.String("apuration_id", apuration.ApurationID))
			return nil, err
		}
	} else {
		apuration.ApurationID = uuid.NewString()
		apuration.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		if err := s.apurationRepo.SaveApuration(ctx, apuration); err != nil {
			s.LogError(ctx, err, "Failed to save apuration", slog.String("apuration_id", apuration.ApurationID))
			return nil, err
		}
	}

	s.LogInfo(ctx, "Apuration computed",
		slog.String("apuration_id", apuration.ApurationID),
		slog.Time("period_start", apuration.PeriodStart),
		slog.String("effective_rate", apuration.EffectiveRate.String()))
	return &apuration, nil
}

// priorApuration resolves the chronologically preceding apuration. A missing
// prior is allowed only when no apuration precedes the period at all (the
// first period on record); a DRAFT prior fails with ErrSequence.
func (s *apurationService) priorApuration(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error) {
	prior, err := s.apurationRepo.FindLatestApurationBefore(ctx, periodStart)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to find prior apuration", slog.Time("period_start", periodStart))
		return nil, err
	}
	if !prior.Status.IsFinal() {
		return nil, fmt.Errorf("%w: prior period %s is still %s",
			apperrors.ErrSequence, prior.PeriodStart.Format("2006-01-02"), prior.Status)
	}
	if !prior.PeriodEnd.Before(periodStart) {
		return nil, fmt.Errorf("%w: period starting %s overlaps prior period ending %s",
			apperrors.ErrSequence, periodStart.Format("2006-01-02"), prior.PeriodEnd.Format("2006-01-02"))
	}
	return prior, nil
}

// derive runs the tax computation itself. It is deterministic: identical
// inputs and prior always produce identical amounts and loss compensation.
func (s *apurationService) derive(req dto.ComputeApurationRequest, prior *domain.TaxApuration) domain.TaxApuration {
	pisAmount := req.GrossRevenue.Mul(pisRate).Sub(req.PisCofinsCredits)
	if pisAmount.IsNegative() {
		pisAmount = decimal.Zero
	}
	cofinsAmount := req.GrossRevenue.Mul(cofinsRate).Sub(req.PisCofinsCredits)
	if cofinsAmount.IsNegative() {
		cofinsAmount = decimal.Zero
	}
	pisAmount = pisAmount.Round(2)
	cofinsAmount = cofinsAmount.Round(2)

	irpjBase := req.GrossRevenue.Mul(irpjPresumption)
	csllBase := req.GrossRevenue.Mul(csllPresumption)

	lossCompensation := decimal.Zero
	priorRef := ""
	if prior != nil {
		priorRef = prior.ApurationID
		if prior.Result.IsNegative() {
			availableLoss := prior.Result.Neg()
			irpjOffset := decimal.Min(availableLoss, irpjBase.Mul(lossCompensationCap))
			csllOffset := decimal.Min(availableLoss, csllBase.Mul(lossCompensationCap))
			irpjBase = irpjBase.Sub(irpjOffset)
			csllBase = csllBase.Sub(csllOffset)
			lossCompensation = irpjOffset.Add(csllOffset)
		}
	}

	irpjAmount := irpjBase.Mul(irpjRate).Round(2)
	csllAmount := csllBase.Mul(csllRate).Round(2)

	effectiveRate := decimal.Zero
	if req.GrossRevenue.IsPositive() {
		totalTax := pisAmount.Add(cofinsAmount).Add(irpjAmount).Add(csllAmount)
		effectiveRate = totalTax.Div(req.GrossRevenue)
	}

	return domain.TaxApuration{
		PeriodStart:      req.PeriodStart,
		PeriodEnd:        req.PeriodEnd,
		GrossRevenue:     req.GrossRevenue,
		PisCofinsCredits: req.PisCofinsCredits,
		IrpjBase:         irpjBase,
		CsllBase:         csllBase,
		PisAmount:        pisAmount,
		CofinsAmount:     cofinsAmount,
		IrpjAmount:       irpjAmount,
		CsllAmount:       csllAmount,
		LossCompensation: lossCompensation,
		Result:           req.Result,
		EffectiveRate:    effectiveRate,
		Status:           domain.ApurationDraft,
		PriorPeriodRef:   priorRef,
	}
}

// ActivateApuration transitions a DRAFT apuration to ACTIVE, making it a
// valid prior-period input for the next chronological period.
func (s *apurationService) ActivateApuration(ctx context.Context, apurationID string, userID string) (*domain.TaxApuration, error) {
	return s.transition(ctx, apurationID, domain.ApurationActive, userID)
}

// CloseApuration transitions an ACTIVE apuration to CLOSED. A closed
// apuration is immutable and authoritative; there is no reopening.
func (s *apurationService) CloseApuration(ctx context.Context, apurationID string, userID string) (*domain.TaxApuration, error) {
	return s.transition(ctx, apurationID, domain.ApurationClosed, userID)
}

func (s *apurationService) transition(ctx context.Context, apurationID string, target domain.ApurationStatus, userID string) (*domain.TaxApuration, error) {
	apuration, err := s.apurationRepo.FindApurationByID(ctx, apurationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find apuration", slog.String("apuration_id", apurationID))
		}
		return nil, err
	}

	unlock := s.lockPeriod(apuration.PeriodStart)
	defer unlock()

	// Re-read under the period lock; a concurrent transition may have landed.
	apuration, err = s.apurationRepo.FindApurationByID(ctx, apurationID)
	if err != nil {
		return nil, err
	}
	if !apuration.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: apuration %s cannot move from %s to %s",
			apperrors.ErrValidation, apurationID, apuration.Status, target)
	}

	now := time.Now().UTC()
	if err := s.apurationRepo.UpdateApurationStatus(ctx, apurationID, target, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update apuration status",
			slog.String("apuration_id", apurationID),
			slog.String("target_status", string(target)))
		return nil, err
	}

	apuration.Status = target
	apuration.LastUpdatedAt = now
	apuration.LastUpdatedBy = userID

	s.LogInfo(ctx, "Apuration status updated",
		slog.String("apuration_id", apurationID),
		slog.String("status", string(target)))
	return apuration, nil
}

// GetApurationByID returns the apuration or ErrNotFound.
func (s *apurationService) GetApurationByID(ctx context.Context, apurationID string) (*domain.TaxApuration, error) {
	apuration, err := s.apurationRepo.FindApurationByID(ctx, apurationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find apuration", slog.String("apuration_id", apurationID))
		}
		return nil, err
	}
	return apuration, nil
}

// ListApurations returns apurations in chronological order with pagination.
func (s *apurationService) ListApurations(ctx context.Context, limit, offset int) ([]domain.TaxApuration, error) {
	apurations, err := s.apurationRepo.ListApurations(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list apurations", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, err
	}
	if apurations == nil {
		return []domain.TaxApuration{}, nil
	}
	return apurations, nil
}
