package dto

import (
	"time"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeApurationRequest defines the inputs of a periodic tax computation.
// Result is the period accounting result (result before tax) produced by the
// income statement for the same competence period; it feeds the next period's
// loss carryforward when negative.
type ComputeApurationRequest struct {
	PeriodStart      time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd        time.Time       `json:"periodEnd" binding:"required"`
	GrossRevenue     decimal.Decimal `json:"grossRevenue"`
	PisCofinsCredits decimal.Decimal `json:"pisCofinsCredits"`
	Result           decimal.Decimal `json:"result"`
}

// ApurationResponse defines the data returned for a tax apuration.
type ApurationResponse struct {
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
	Status           string          `json:"status"`
	PriorPeriodRef   string          `json:"priorPeriodRef,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ListApurationsParams defines query parameters for listing apurations.
type ListApurationsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ToApurationResponse converts a domain.TaxApuration to its response DTO.
func ToApurationResponse(a *domain.TaxApuration) ApurationResponse {
	return ApurationResponse{
		ApurationID:      a.ApurationID,
		PeriodStart:      a.PeriodStart,
		PeriodEnd:        a.PeriodEnd,
		GrossRevenue:     a.GrossRevenue,
		PisCofinsCredits: a.PisCofinsCredits,
		IrpjBase:         a.IrpjBase,
		CsllBase:         a.CsllBase,
		PisAmount:        a.PisAmount,
		CofinsAmount:     a.CofinsAmount,
		IrpjAmount:       a.IrpjAmount,
		CsllAmount:       a.CsllAmount,
		LossCompensation: a.LossCompensation,
		Result:           a.Result,
		EffectiveRate:    a.EffectiveRate,
		Status:           string(a.Status),
		PriorPeriodRef:   a.PriorPeriodRef,
		CreatedAt:        a.CreatedAt,
		CreatedBy:        a.CreatedBy,
	}
}

// ToListApurationResponse converts a slice of apurations to response DTOs.
func ToListApurationResponse(apurations []domain.TaxApuration) []ApurationResponse {
	res := make([]ApurationResponse, len(apurations))
	for i, a := range apurations {
		res[i] = ToApurationResponse(&a)
	}
	return res
}
