package ports

import (
	"context"

	"github.com/fabrico/orders-api/internal/core/domain"
)

// ListAccountsInput carries paging and filtering for the admin account list.
type ListAccountsInput struct {
	Role  string // optional: filter by role
	Page  int    // 1-based
	Limit int
}

// ListAccountsResult is returned by ListAccounts.
type ListAccountsResult struct {
	Items      []*domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AccountService defines the admin account management use cases.
type AccountService interface {
	ListAccounts(ctx context.Context, input ListAccountsInput) (*ListAccountsResult, error)
	// SetBlocked blocks or unblocks an account. A blocked account cannot
	// authenticate locally; it is never deleted.
	SetBlocked(ctx context.Context, id string, blocked bool) (*domain.Account, error)
	SetRole(ctx context.Context, id string, role string) (*domain.Account, error)
}
