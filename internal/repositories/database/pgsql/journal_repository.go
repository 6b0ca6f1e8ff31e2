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

// PgxJournalRepository persists the append-only journal ledger. Insertion
// order is preserved by a sequence column; rows are never updated or deleted.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) ports.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ ports.JournalRepository = (*PgxJournalRepository)(nil)

func toModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		PostingDate:       d.PostingDate,
		CompetenceDate:    d.CompetenceDate,
		DebitAccount:      d.DebitAccount,
		CreditAccount:     d.CreditAccount,
		Amount:            d.Amount,
		Description:       d.Description,
		CostCenter:        d.CostCenter,
		ReferenceDocument: d.ReferenceDocument,
		Status:            string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		PostingDate:       m.PostingDate,
		CompetenceDate:    m.CompetenceDate,
		DebitAccount:      m.DebitAccount,
		CreditAccount:     m.CreditAccount,
		Amount:            m.Amount,
		Description:       m.Description,
		CostCenter:        m.CostCenter,
		ReferenceDocument: m.ReferenceDocument,
		Status:            domain.EntryStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const entryColumns = `entry_id, posting_date, competence_date, debit_account, credit_account, amount, description, cost_center, reference_document, status, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var costCenter, referenceDocument sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.PostingDate,
		&m.CompetenceDate,
		&m.DebitAccount,
		&m.CreditAccount,
		&m.Amount,
		&m.Description,
		&costCenter,
		&referenceDocument,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	m.CostCenter = costCenter.String
	m.ReferenceDocument = referenceDocument.String
	return m, nil
}

// SaveEntry appends a journal entry.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := toModelEntry(entry)

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	var costCenter, referenceDocument sql.NullString
	if m.CostCenter != "" {
		costCenter = sql.NullString{String: m.CostCenter, Valid: true}
	}
	if m.ReferenceDocument != "" {
		referenceDocument = sql.NullString{String: m.ReferenceDocument, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		m.EntryID,
		m.PostingDate,
		m.CompetenceDate,
		m.DebitAccount,
		m.CreditAccount,
		m.Amount,
		m.Description,
		costCenter,
		referenceDocument,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a single journal entry.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	entry := toDomainEntry(m)
	return &entry, nil
}

// FindEntriesByPeriod returns entries whose competence date falls in the
// period, optionally filtered by account code on either side, in insertion order.
func (r *PgxJournalRepository) FindEntriesByPeriod(ctx context.Context, periodStart, periodEnd time.Time, accountCode string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE competence_date >= $1 AND competence_date <= $2
	`
	args := []any{periodStart, periodEnd}
	if accountCode != "" {
		query += ` AND (debit_account = $3 OR credit_account = $3)`
		args = append(args, accountCode)
	}
	query += ` ORDER BY entry_seq;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal entry rows: %w", err)
	}
	return entries, nil
}

// ListEntries returns entries in insertion order with limit/offset pagination.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		ORDER BY entry_seq
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal entry rows: %w", err)
	}
	return entries, nil
}

// CountEntriesInPeriod counts entries by competence date, supporting the
// trial balance snapshot check.
func (r *PgxJournalRepository) CountEntriesInPeriod(ctx context.Context, periodStart, periodEnd time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_entries
		WHERE competence_date >= $1 AND competence_date <= $2;
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, periodStart, periodEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}

// AggregateMovementsBefore sums per-account debits and credits over all
// entries with competence date strictly before the given date.
func (r *PgxJournalRepository) AggregateMovementsBefore(ctx context.Context, before time.Time) ([]domain.AccountMovement, error) {
	query := `
		SELECT account, COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM (
			SELECT debit_account AS account, amount AS debit, NULL::numeric AS credit
			FROM journal_entries WHERE competence_date < $1
			UNION ALL
			SELECT credit_account AS account, NULL::numeric AS debit, amount AS credit
			FROM journal_entries WHERE competence_date < $1
		) sides
		GROUP BY account;
	`
	rows, err := r.Pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.AccountMovement
	for rows.Next() {
		var m domain.AccountMovement
		if err := rows.Scan(&m.AccountCode, &m.DebitsTotal, &m.CreditsTotal); err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading movement rows: %w", err)
	}
	return movements, nil
}
