package ports

import (
	"context"
	"time"

	"github.com/fabrico/orders-api/internal/core/domain"
)

// ListOrdersFilter carries all query parameters for listing orders.
// CustomerEmail is enforced by the service layer for the customer role.
type ListOrdersFilter struct {
	CustomerEmail string               // empty = no filter (admin); non-empty = scoped to customer
	Status        string               // optional: filter by a single order status
	Statuses      []domain.OrderStatus // optional: restrict to this status set (courier scoping)
	ServiceSpeed  string               // optional: filter by service speed
	Search        string               // optional: partial match on ticket_number or customer.name
	DateFrom      time.Time            // optional: created_at >= DateFrom
	DateTo        time.Time            // optional: created_at <= DateTo
	Page          int                  // 1-based
	Limit         int                  // max rows per page (capped at 100 by service)
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	// FindByTicketNumber retrieves an order by ticket number. When
	// customerEmail is non-empty, the query is additionally filtered by the
	// customer's email (for RBAC).
	FindByTicketNumber(ctx context.Context, ticketNumber string, customerEmail string) (*domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
}
