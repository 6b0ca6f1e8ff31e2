package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rotafrete/contabil_backend/internal/apperrors"
	"github.com/rotafrete/contabil_backend/internal/core/domain"
	"github.com/rotafrete/contabil_backend/internal/core/ports"
	"github.com/rotafrete/contabil_backend/internal/dto"
)

// accountService manages the hierarchical chart of accounts.
type accountService struct {
	BaseService
	accountRepo ports.AccountRepository
}

// NewAccountService creates a new chart of accounts service.
func NewAccountService(repo ports.AccountRepository) ports.AccountService {
	return &accountService{accountRepo: repo}
}

var _ ports.AccountService = (*accountService)(nil)

// RegisterAccount validates and stores a new chart account. Level and parent
// code are derived from the dotted code; the parent must already be
// registered for any account above level 1.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, userID string) (*domain.Account, error) {
	level, parentCode, err := domain.ParseAccountCode(req.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	expectedNature, err := domain.NatureFor(req.AccountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if req.Nature != expectedNature {
		return nil, fmt.Errorf("%w: account type %s requires %s nature, got %s",
			apperrors.ErrValidation, req.AccountType, expectedNature, req.Nature)
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s already registered", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for duplicate account code", slog.String("code", req.Code))
		return nil, err
	}

	if existing, err := s.accountRepo.FindAccountByReducedCode(ctx, req.ReducedCode); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: reduced code %s already registered", apperrors.ErrDuplicate, req.ReducedCode)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for duplicate reduced code", slog.String("reduced_code", req.ReducedCode))
		return nil, err
	}

	if parentCode != "" {
		if _, err := s.accountRepo.FindAccountByCode(ctx, parentCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s is not registered", apperrors.ErrValidation, parentCode)
			}
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_code", parentCode))
			return nil, err
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		Code:        req.Code,
		ReducedCode: req.ReducedCode,
		Name:        req.Name,
		AccountType: req.AccountType,
		Nature:      req.Nature,
		Level:       level,
		ParentCode:  parentCode,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account registered successfully",
		slog.String("code", account.Code),
		slog.Int("level", account.Level))
	return &account, nil
}

// GetAccountByCode returns the account or ErrNotFound for an unknown code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns all accounts, ordered by numeric segment comparison of
// their codes when sorted is true ("1.2" before "1.10").
func (s *accountService) ListAccounts(ctx context.Context, sorted bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}

	if sorted {
		sort.SliceStable(accounts, func(i, j int) bool {
			return domain.CompareAccountCodes(accounts[i].Code, accounts[j].Code) < 0
		})
	}
	return accounts, nil
}

// DeactivateAccount flips the one mutable account field. The account itself
// stays referenced by historical entries.
func (s *accountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	if _, err := s.GetAccountByCode(ctx, code); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, code, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("code", code))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully", slog.String("code", code))
	return nil
}
