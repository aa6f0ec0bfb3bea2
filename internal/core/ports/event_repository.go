package ports

import (
	"context"
	"time"

	"github.com/fabrico/orders-api/internal/core/domain"
)

// EventRepository handles event persistence and atomic order status updates.
type EventRepository interface {
	// UpdateOrderStatus atomically sets the order's new status and appends a
	// history entry. The source string is stored as the entry notes when no
	// explicit note is given.
	UpdateOrderStatus(
		ctx context.Context,
		ticketNumber string,
		status domain.OrderStatus,
		ts time.Time,
		source string,
		notes string,
	) error

	// InsertEvent persists an event to the status_events audit collection.
	InsertEvent(ctx context.Context, event *domain.StatusEvent) error
}
