package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApurationStatus tracks the lifecycle of a periodic tax computation.
// Transitions are one-directional: DRAFT -> ACTIVE -> CLOSED.
type ApurationStatus string

const (
	ApurationDraft  ApurationStatus = "DRAFT"
	ApurationActive ApurationStatus = "ACTIVE"
	ApurationClosed ApurationStatus = "CLOSED"
)

// CanTransitionTo reports whether the status may move to the target state.
func (s ApurationStatus) CanTransitionTo(target ApurationStatus) bool {
	switch s {
	case ApurationDraft:
		return target == ApurationActive
	case ApurationActive:
		return target == ApurationClosed
	default:
		return false
	}
}

// IsFinal reports whether the apuration may serve as the prior-period input
// for the next chronological period.
func (s ApurationStatus) IsFinal() bool {
	return s == ApurationActive || s == ApurationClosed
}

// TaxApuration is the periodic tax computation for one competence period.
// Instances form a singly-linked chronological chain through PriorPeriodRef;
// a closed apuration is immutable and authoritative for the next period's
// loss carryforward. Result holds the period accounting result (result before
// tax); a negative Result is the loss available to the following period.
type TaxApuration struct {
	ApurationID      string          `json:"apurationID"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	GrossRevenue     decimal.Decimal `json:"grossRevenue"`
	PisCofinsCredits decimal.Decimal `json:"pisCofinsCredits"`
	IrpjBase         decimal.Decimal `json:"irpjBase"`
	CsllBase         decimal.Decimal `json:"csllBase"`
	PisAmount        decimal.Decimal `json:"pisAmount"`
	CofinsAmount     decimal.Decimal `json:"cofinsAmount"`
	IrpjAmount       decimal.Decimal `json:"irpjAmount"`
	CsllAmount       decimal.Decimal `json:"csllAmount"`
	LossCompensation decimal.Decimal `json:"lossCompensation"`
	Result           decimal.Decimal `json:"result"`
	EffectiveRate    decimal.Decimal `json:"effectiveRate"`
	Status           ApurationStatus `json:"status"`
	PriorPeriodRef   string          `json:"priorPeriodRef"`
	AuditFields
}
