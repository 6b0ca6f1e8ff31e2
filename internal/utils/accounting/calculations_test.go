package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/utils/accounting"
)

func TestClosingBalance(t *testing.T) {
	opening := decimal.NewFromInt(50)
	debits := decimal.NewFromInt(100)
	credits := decimal.NewFromInt(30)

	debitClosing := accounting.ClosingBalance(domain.DebitNature, opening, debits, credits)
	assert.True(t, debitClosing.Equal(decimal.NewFromInt(120)), "got %s", debitClosing)

	creditClosing := accounting.ClosingBalance(domain.CreditNature, opening, debits, credits)
	assert.True(t, creditClosing.Equal(decimal.NewFromInt(-20)), "got %s", creditClosing)
}

func TestSignedMovement(t *testing.T) {
	debits := decimal.NewFromInt(100)
	credits := decimal.NewFromInt(250)

	// Movements can go negative; the sign rule does not floor them.
	debitMove := accounting.SignedMovement(domain.DebitNature, debits, credits)
	assert.True(t, debitMove.Equal(decimal.NewFromInt(-150)), "got %s", debitMove)

	creditMove := accounting.SignedMovement(domain.CreditNature, debits, credits)
	assert.True(t, creditMove.Equal(decimal.NewFromInt(150)), "got %s", creditMove)
}
