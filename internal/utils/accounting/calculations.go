package accounting

import (
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClosingBalance applies the nature sign rule to derive a closing balance.
// Debit-nature accounts grow with debits: closing = opening + debits - credits.
// Credit-nature accounts grow with credits: closing = opening + credits - debits.
func ClosingBalance(nature domain.AccountNature, opening, debits, credits decimal.Decimal) decimal.Decimal {
	if nature == domain.DebitNature {
		return opening.Add(debits).Sub(credits)
	}
	return opening.Add(credits).Sub(debits)
}

// SignedMovement returns the period movement of an account under the sign
// rule, i.e. the closing balance delta excluding the opening balance.
func SignedMovement(nature domain.AccountNature, debits, credits decimal.Decimal) decimal.Decimal {
	return ClosingBalance(nature, decimal.Zero, debits, credits)
}
