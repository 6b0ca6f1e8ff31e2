package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted EntryStatus = "POSTED"
)

// JournalEntry represents a single double-entry posting moving an amount from
// a debit account to a credit account. Entries are append-only and immutable
// once posted.
type JournalEntry struct {
	EntryID           string          `json:"entryID"`
	PostingDate       time.Time       `json:"postingDate"`
	CompetenceDate    time.Time       `json:"competenceDate"`
	DebitAccount      string          `json:"debitAccount"`
	CreditAccount     string          `json:"creditAccount"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	CostCenter        string          `json:"costCenter"`
	ReferenceDocument string          `json:"referenceDocument"`
	Status            EntryStatus     `json:"status"`
	AuditFields
}
