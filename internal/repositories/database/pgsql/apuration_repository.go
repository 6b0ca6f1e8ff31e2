package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/models"
)

// PgxApurationRepository persists periodic tax apurations. A unique
// constraint on period_start guarantees one apuration per period; a
// concurrent insert for the same period surfaces as ErrConflict.
type PgxApurationRepository struct {
	BaseRepository
}

func newPgxApurationRepository(pool *pgxpool.Pool) ports.ApurationRepository {
	return &PgxApurationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ ports.ApurationRepository = (*PgxApurationRepository)(nil)

func toModelApuration(d domain.TaxApuration) models.TaxApuration {
	return models.TaxApuration{
		ApurationID:      d.ApurationID,
		PeriodStart:      d.PeriodStart,
		PeriodEnd:        d.PeriodEnd,
		GrossRevenue:     d.GrossRevenue,
		PisCofinsCredits: d.PisCofinsCredits,
		IrpjBase:         d.IrpjBase,
		CsllBase:         d.CsllBase,
		PisAmount:        d.PisAmount,
		CofinsAmount:     d.CofinsAmount,
		IrpjAmount:       d.IrpjAmount,
		CsllAmount:       d.CsllAmount,
		LossCompensation: d.LossCompensation,
		Result:           d.Result,
		EffectiveRate:    d.EffectiveRate,
		Status:           string(d.Status),
		PriorPeriodRef:   d.PriorPeriodRef,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainApuration(m models.TaxApuration) domain.TaxApuration {
	return domain.TaxApuration{
		ApurationID:      m.ApurationID,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		GrossRevenue:     m.GrossRevenue,
		PisCofinsCredits: m.PisCofinsCredits,
		IrpjBase:         m.IrpjBase,
		CsllBase:         m.CsllBase,
		PisAmount:        m.PisAmount,
		CofinsAmount:     m.CofinsAmount,
		IrpjAmount:       m.IrpjAmount,
		CsllAmount:       m.CsllAmount,
		LossCompensation: m.LossCompensation,
		Result:           m.Result,
		EffectiveRate:    m.EffectiveRate,
		Status:           domain.ApurationStatus(m.Status),
		PriorPeriodRef:   m.PriorPeriodRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const apurationColumns = `apuration_id, period_start, period_end, gross_revenue, pis_cofins_credits, irpj_base, csll_base, pis_amount, cofins_amount, irpj_amount, csll_amount, loss_compensation, result, effective_rate, status, prior_period_ref, created_at, created_by, last_updated_at, last_updated_by`

func scanApuration(row pgx.Row) (models.TaxApuration, error) {
	var m models.TaxApuration
	var priorRef sql.NullString
	err := row.Scan(
		&m.ApurationID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.GrossRevenue,
		&m.PisCofinsCredits,
		&m.IrpjBase,
		&m.CsllBase,
		&m.PisAmount,
		&m.CofinsAmount,
		&m.IrpjAmount,
		&m.CsllAmount,
		&m.LossCompensation,
		&m.Result,
		&m.EffectiveRate,
		&m.Status,
		&priorRef,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.TaxApuration{}, err
	}
	m.PriorPeriodRef = priorRef.String
	return m, nil
}

// SaveApuration inserts a new apuration for its period.
func (r *PgxApurationRepository) SaveApuration(ctx context.Context, apuration domain.TaxApuration) error {
	m := toModelApuration(apuration)

	query := `
		INSERT INTO tax_apurations (` + apurationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	var priorRef sql.NullString
	if m.PriorPeriodRef != "" {
		priorRef = sql.NullString{String: m.PriorPeriodRef, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		m.ApurationID,
		m.PeriodStart,
		m.PeriodEnd,
		m.GrossRevenue,
		m.PisCofinsCredits,
		m.IrpjBase,
		m.CsllBase,
		m.PisAmount,
		m.CofinsAmount,
		m.IrpjAmount,
		m.CsllAmount,
		m.LossCompensation,
		m.Result,
		m.EffectiveRate,
		m.Status,
		priorRef,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: apuration for period %s already exists",
				apperrors.ErrConflict, m.PeriodStart.Format("2006-01-02"))
		}
		return fmt.Errorf("failed to save apuration %s: %w", m.ApurationID, err)
	}
	return nil
}

// UpdateApuration replaces the computed fields of a DRAFT apuration. The
// WHERE clause refuses to touch finalized rows.
func (r *PgxApurationRepository) UpdateApuration(ctx context.Context, apuration domain.TaxApuration) error {
	m := toModelApuration(apuration)

	query := `
		UPDATE tax_apurations
		SET period_end = $2, gross_revenue = $3, pis_cofins_credits = $4,
			irpj_base = $5, csll_base = $6, pis_amount = $7, cofins_amount = $8,
			irpj_amount = $9, csll_amount = $10, loss_compensation = $11,
			result = $12, effective_rate = $13, prior_period_ref = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE apuration_id = $1 AND status = 'DRAFT';
	`
	var priorRef sql.NullString
	if m.PriorPeriodRef != "" {
		priorRef = sql.NullString{String: m.PriorPeriodRef, Valid: true}
	}

	tag, err := r.Pool.Exec(ctx, query,
		m.ApurationID,
		m.PeriodEnd,
		m.GrossRevenue,
		m.PisCofinsCredits,
		m.IrpjBase,
		m.CsllBase,
		m.PisAmount,
		m.CofinsAmount,
		m.IrpjAmount,
		m.CsllAmount,
		m.LossCompensation,
		m.Result,
		m.EffectiveRate,
		priorRef,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update apuration %s: %w", m.ApurationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: apuration %s is not an editable draft", apperrors.ErrConflict, m.ApurationID)
	}
	return nil
}

// UpdateApurationStatus moves an apuration along its one-directional state
// machine. The WHERE clause enforces the only legal source state per target.
func (r *PgxApurationRepository) UpdateApurationStatus(ctx context.Context, apurationID string, status domain.ApurationStatus, userID string, now time.Time) error {
	var sourceStatus domain.ApurationStatus
	switch status {
	case domain.ApurationActive:
		sourceStatus = domain.ApurationDraft
	case domain.ApurationClosed:
		sourceStatus = domain.ApurationActive
	default:
		return fmt.Errorf("%w: cannot transition apuration to %s", apperrors.ErrValidation, status)
	}

	query := `
		UPDATE tax_apurations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE apuration_id = $1 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, apurationID, status, now, userID, sourceStatus)
	if err != nil {
		return fmt.Errorf("failed to update apuration status %s: %w", apurationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: apuration %s is not in %s status", apperrors.ErrConflict, apurationID, sourceStatus)
	}
	return nil
}

// FindApurationByID retrieves a single apuration.
func (r *PgxApurationRepository) FindApurationByID(ctx context.Context, apurationID string) (*domain.TaxApuration, error) {
	query := `SELECT ` + apurationColumns + ` FROM tax_apurations WHERE apuration_id = $1;`

	m, err := scanApuration(r.Pool.QueryRow(ctx, query, apurationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: apuration %s", apperrors.ErrNotFound, apurationID)
		}
		return nil, fmt.Errorf("failed to find apuration %s: %w", apurationID, err)
	}

	apuration := toDomainApuration(m)
	return &apuration, nil
}

// FindApurationByPeriodStart retrieves the apuration for a competence period.
func (r *PgxApurationRepository) FindApurationByPeriodStart(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error) {
	query := `SELECT ` + apurationColumns + ` FROM tax_apurations WHERE period_start = $1;`

	m, err := scanApuration(r.Pool.QueryRow(ctx, query, periodStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: apuration for period %s", apperrors.ErrNotFound, periodStart.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find apuration for period %s: %w", periodStart.Format("2006-01-02"), err)
	}

	apuration := toDomainApuration(m)
	return &apuration, nil
}

// FindLatestApurationBefore retrieves the chronologically preceding apuration.
func (r *PgxApurationRepository) FindLatestApurationBefore(ctx context.Context, periodStart time.Time) (*domain.TaxApuration, error) {
	query := `
		SELECT ` + apurationColumns + `
		FROM tax_apurations
		WHERE period_start < $1
		ORDER BY period_start DESC
		LIMIT 1;
	`
	m, err := scanApuration(r.Pool.QueryRow(ctx, query, periodStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no apuration precedes period %s", apperrors.ErrNotFound, periodStart.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find prior apuration: %w", err)
	}

	apuration := toDomainApuration(m)
	return &apuration, nil
}

// ListApurations returns apurations in chronological order with pagination.
func (r *PgxApurationRepository) ListApurations(ctx context.Context, limit, offset int) ([]domain.TaxApuration, error) {
	query := `
		SELECT ` + apurationColumns + `
		FROM tax_apurations
		ORDER BY period_start
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list apurations: %w", err)
	}
	defer rows.Close()

	var apurations []domain.TaxApuration
	for rows.Next() {
		m, err := scanApuration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan apuration row: %w", err)
		}
		apurations = append(apurations, toDomainApuration(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading apuration rows: %w", err)
	}
	return apurations, nil
}
