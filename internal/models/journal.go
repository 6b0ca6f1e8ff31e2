package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database representation of a double-entry posting.
// Rows are append-only; there is no update path.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	PostingDate       time.Time       `db:"posting_date"`
	CompetenceDate    time.Time       `db:"competence_date"`
	DebitAccount      string          `db:"debit_account"`
	CreditAccount     string          `db:"credit_account"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	CostCenter        string          `db:"cost_center"`        // Nullable
	ReferenceDocument string          `db:"reference_document"` // Nullable
	Status            string          `db:"status"`
	AuditFields
}
