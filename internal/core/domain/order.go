package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of a care order.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "received"
	StatusProcessing     OrderStatus = "processing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusReceived:       {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")
var ErrDuplicateOrder = errors.New("order already exists")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActiveStatuses lists the statuses of orders still in flight, in lifecycle
// order. Delivered and cancelled orders are terminal.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{StatusReceived, StatusProcessing, StatusReady, StatusOutForDelivery}
}

// IsActive reports whether the status is non-terminal.
func (s OrderStatus) IsActive() bool {
	return s != StatusDelivered && s != StatusCancelled
}

// Service types offered per item.
const (
	ServiceDryClean = "dry_clean"
	ServiceLaunder  = "launder"
	ServiceShoeCare = "shoe_care"
	ServiceRepair   = "repair"
)

// Customer identifies who placed the order and where to reach them.
type Customer struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// Address is the pickup/delivery location for an order.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
}

// OrderItem is a single garment or pair of shoes and the care it receives.
type OrderItem struct {
	Description string  `json:"description" bson:"description"`
	Service     string  `json:"service" bson:"service"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unit_price" bson:"unit_price"`
}

// StatusHistoryEntry records a single status transition on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Notes     string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is the core aggregate root.
type Order struct {
	ID             string               `json:"id" bson:"_id,omitempty"`
	TicketNumber   string               `json:"ticket_number" bson:"ticket_number"`
	Customer       Customer             `json:"customer" bson:"customer"`
	Pickup         Address              `json:"pickup" bson:"pickup"`
	Items          []OrderItem          `json:"items" bson:"items"`
	ServiceSpeed   string               `json:"service_speed" bson:"service_speed"`
	TotalAmount    float64              `json:"total_amount" bson:"total_amount"`
	Status         OrderStatus          `json:"status" bson:"status"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	PromisedAt     time.Time            `json:"promised_at" bson:"promised_at"`
	IdempotencyKey string               `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	StatusHistory  []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}

// Total sums item prices. Stored on the order at creation time so historical
// totals survive later price changes.
func Total(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += float64(qty) * it.UnitPrice
	}
	return total
}
