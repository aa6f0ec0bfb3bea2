package domain

import "time"

// StatusEvent represents a status update received from an external source,
// typically the courier app or the counter terminal.
type StatusEvent struct {
	TicketNumber string
	Status       OrderStatus
	Timestamp    time.Time
	Source       string
	Notes        string
}
