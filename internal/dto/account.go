package dto

import (
	"time"

	"github.com/rotafrete/contabil_backend/internal/core/domain"
)

// RegisterAccountRequest defines the data needed to register a chart account.
// Level and parent code are derived from the code server-side.
type RegisterAccountRequest struct {
	Code        string               `json:"code" binding:"required,accountcode"`
	ReducedCode string               `json:"reducedCode" binding:"required"`
	Name        string               `json:"name" binding:"required"`
	AccountType domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Nature      domain.AccountNature `json:"nature" binding:"required,oneof=DEBIT CREDIT"`
}

// AccountResponse defines the data returned for a chart account.
type AccountResponse struct {
	Code        string               `json:"code"`
	ReducedCode string               `json:"reducedCode"`
	Name        string               `json:"name"`
	AccountType domain.AccountType   `json:"accountType"`
	Nature      domain.AccountNature `json:"nature"`
	Level       int                  `json:"level"`
	ParentCode  string               `json:"parentCode"`
	IsActive    bool                 `json:"isActive"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:        acc.Code,
		ReducedCode: acc.ReducedCode,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Nature:      acc.Nature,
		Level:       acc.Level,
		ParentCode:  acc.ParentCode,
		IsActive:    acc.IsActive,
		CreatedAt:   acc.CreatedAt,
		CreatedBy:   acc.CreatedBy,
	}
}

// ToListAccountResponse converts a slice of accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
