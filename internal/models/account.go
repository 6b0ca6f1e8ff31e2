package models

import "time"

// AccountType mirrors domain.AccountType for DB storage.
type AccountType string

// AccountNature mirrors domain.AccountNature for DB storage.
type AccountNature string

// Account is the database representation of a chart account.
type Account struct {
	Code        string        `db:"code"`
	ReducedCode string        `db:"reduced_code"`
	Name        string        `db:"name"`
	AccountType AccountType   `db:"account_type"`
	Nature      AccountNature `db:"nature"`
	Level       int           `db:"level"`
	ParentCode  string        `db:"parent_code"` // Nullable
	IsActive    bool          `db:"is_active"`
	AuditFields
}

// AuditFields holds standard audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}
