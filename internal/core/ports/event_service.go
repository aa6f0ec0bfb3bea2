package ports

import (
	"context"
	"time"
)

// StatusEventInput is the DTO passed from the transport layer to EventService.
type StatusEventInput struct {
	TicketNumber string
	Status       string
	Timestamp    time.Time
	Source       string
	Notes        string
}

// EventService processes incoming order status events.
type EventService interface {
	Process(ctx context.Context, event StatusEventInput) error
}
