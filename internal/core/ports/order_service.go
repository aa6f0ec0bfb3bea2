package ports

import (
	"context"
	"time"
)

// ItemInput is a single order line as received from the transport layer.
type ItemInput struct {
	Description string
	Service     string
	Quantity    int
	UnitPrice   float64
}

// CustomerInput holds the customer's contact details.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// AddressInput holds the pickup location.
type AddressInput struct {
	Street  string
	City    string
	ZipCode string
}

// PlaceOrderInput carries all data needed to place a new order.
type PlaceOrderInput struct {
	Customer       CustomerInput
	Pickup         AddressInput
	Items          []ItemInput
	ServiceSpeed   string
	IdempotencyKey string
}

// OrderResult is returned by the service after placing an order.
type OrderResult struct {
	TicketNumber string
	Status       string
	TotalAmount  float64
	CreatedAt    time.Time
	PromisedAt   time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an existing order.
	AlreadyExisted bool
}

// GetOrderInput carries the parameters needed to retrieve a single order.
type GetOrderInput struct {
	TicketNumber string
	// Role and Email enforce RBAC: the customer role only sees own orders.
	Role  string
	Email string
}

// StatusHistoryItem is a single entry in the order's status history.
type StatusHistoryItem struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// OrderDetail is the full order view returned by GetOrder.
type OrderDetail struct {
	TicketNumber  string
	Status        string
	ServiceSpeed  string
	TotalAmount   float64
	CreatedAt     time.Time
	PromisedAt    time.Time
	Customer      CustomerInput
	Pickup        AddressInput
	Items         []ItemInput
	StatusHistory []StatusHistoryItem
}

// ListOrdersInput carries all parameters for the list endpoint.
type ListOrdersInput struct {
	Role         string
	Email        string
	Status       string
	ServiceSpeed string
	Search       string
	DateFrom     time.Time
	DateTo       time.Time
	Page         int
	Limit        int
}

// OrderSummary is the lightweight view used in list responses (no status_history).
type OrderSummary struct {
	TicketNumber string
	Status       string
	ServiceSpeed string
	Customer     CustomerInput
	TotalAmount  float64
	CreatedAt    time.Time
	PromisedAt   time.Time
}

// ListOrdersResult is returned by ListOrders.
type ListOrdersResult struct {
	Items      []OrderSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderResult, error)
	GetOrder(ctx context.Context, input GetOrderInput) (*OrderDetail, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	// LookupByEmail returns all orders placed under the given customer email,
	// newest first. Customers may only look up their own email.
	LookupByEmail(ctx context.Context, role, callerEmail, email string) ([]OrderSummary, error)
}
