package dto

import (
	"time"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostEntryRequest defines the data needed to post a journal entry.
type PostEntryRequest struct {
	PostingDate       time.Time       `json:"postingDate" binding:"required"`
	CompetenceDate    time.Time       `json:"competenceDate" binding:"required"`
	DebitAccount      string          `json:"debitAccount" binding:"required,accountcode"`
	CreditAccount     string          `json:"creditAccount" binding:"required,accountcode"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Description       string          `json:"description" binding:"required"`
	CostCenter        string          `json:"costCenter"`
	ReferenceDocument string          `json:"referenceDocument"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string          `json:"entryID"`
	PostingDate       time.Time       `json:"postingDate"`
	CompetenceDate    time.Time       `json:"competenceDate"`
	DebitAccount      string          `json:"debitAccount"`
	CreditAccount     string          `json:"creditAccount"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	CostCenter        string          `json:"costCenter,omitempty"`
	ReferenceDocument string          `json:"referenceDocument,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// QueryEntriesParams defines query parameters for the period query.
type QueryEntriesParams struct {
	PeriodStart time.Time `form:"periodStart" time_format:"2006-01-02" binding:"required"`
	PeriodEnd   time.Time `form:"periodEnd" time_format:"2006-01-02" binding:"required"`
	AccountCode string    `form:"accountCode"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:           entry.EntryID,
		PostingDate:       entry.PostingDate,
		CompetenceDate:    entry.CompetenceDate,
		DebitAccount:      entry.DebitAccount,
		CreditAccount:     entry.CreditAccount,
		Amount:            entry.Amount,
		Description:       entry.Description,
		CostCenter:        entry.CostCenter,
		ReferenceDocument: entry.ReferenceDocument,
		Status:            string(entry.Status),
		CreatedAt:         entry.CreatedAt,
		CreatedBy:         entry.CreatedBy,
	}
}

// ToListEntryResponse converts a slice of entries to response DTOs.
func ToListEntryResponse(entries []domain.JournalEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		res[i] = ToEntryResponse(&entry)
	}
	return res
}
