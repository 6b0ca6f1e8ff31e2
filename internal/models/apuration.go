package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxApuration is the database representation of a periodic tax computation.
// period_start carries a unique constraint: one apuration per period.
type TaxApuration struct {
	ApurationID      string          `db:"apuration_id"`
	PeriodStart      time.Time       `db:"period_start"`
	PeriodEnd        time.Time       `db:"period_end"`
	GrossRevenue     decimal.Decimal `db:"gross_revenue"`
	PisCofinsCredits decimal.Decimal `db:"pis_cofins_credits"`
	IrpjBase         decimal.Decimal `db:"irpj_base"`
	CsllBase         decimal.Decimal `db:"csll_base"`
	PisAmount        decimal.Decimal `db:"pis_amount"`
	CofinsAmount     decimal.Decimal `db:"cofins_amount"`
	IrpjAmount       decimal.Decimal `db:"irpj_amount"`
	CsllAmount       decimal.Decimal `db:"csll_amount"`
	LossCompensation decimal.Decimal `db:"loss_compensation"`
	Result           decimal.Decimal `db:"result"`
	EffectiveRate    decimal.Decimal `db:"effective_rate"`
	Status           string          `db:"status"`
	PriorPeriodRef   string          `db:"prior_period_ref"` // Nullable
	AuditFields
}
