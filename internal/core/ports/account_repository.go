package ports

import (
	"context"

	"github.com/fabrico/orders-api/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
// Implementations must treat email as the unique, case-normalized key.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// List returns a page of accounts and the total count. An empty role
	// filter returns all roles.
	List(ctx context.Context, role string, page, limit int) ([]*domain.Account, int64, error)
	// SetBlocked flips the blocked flag. Accounts are never hard-deleted.
	SetBlocked(ctx context.Context, id string, blocked bool) error
	SetRole(ctx context.Context, id string, role string) error
}
