package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

// AccountService implements admin account management: listing, block/unblock,
// role changes. Accounts are never hard-deleted.
type AccountService struct {
	repo   ports.AccountRepository
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, logger: logger}
}

func (s *AccountService) ListAccounts(ctx context.Context, input ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if input.Role != "" && !domain.ValidRole(input.Role) {
		return nil, domain.ErrAccountNotFound
	}

	accounts, total, err := s.repo.List(ctx, input.Role, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListAccountsResult{
		Items:      accounts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *AccountService) SetBlocked(ctx context.Context, id string, blocked bool) (*domain.Account, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", id).Bool("blocked", blocked).Msg("account block state changed")
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) SetRole(ctx context.Context, id string, role string) (*domain.Account, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", id).Str("role", role).Msg("account role changed")
	return s.repo.FindByID(ctx, id)
}
