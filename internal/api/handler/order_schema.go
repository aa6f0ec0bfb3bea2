package handler

import "time"

type customerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

type addressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	ZipCode string `json:"zip_code"`
}

type itemRequest struct {
	Description string  `json:"description" validate:"required"`
	Service     string  `json:"service" validate:"required,oneof=dry_clean launder shoe_care repair"`
	Quantity    int     `json:"quantity" validate:"min=1"`
	UnitPrice   float64 `json:"unit_price" validate:"min=0"`
}

type placeOrderRequest struct {
	Customer     customerRequest `json:"customer" validate:"required"`
	Pickup       addressRequest  `json:"pickup" validate:"required"`
	Items        []itemRequest   `json:"items" validate:"required,min=1,dive"`
	ServiceSpeed string          `json:"service_speed" validate:"omitempty,oneof=standard express"`
}

type orderLinks struct {
	Self   string `json:"self"`
	Events string `json:"events"`
}

type placeOrderResponse struct {
	TicketNumber string     `json:"ticket_number"`
	Status       string     `json:"status"`
	TotalAmount  float64    `json:"total_amount"`
	CreatedAt    string     `json:"created_at"`
	PromisedAt   string     `json:"promised_at"`
	Links        orderLinks `json:"_links"`
}

type statusEventRequest struct {
	TicketNumber string    `json:"ticket_number" validate:"required"`
	Status       string    `json:"status"        validate:"required,oneof=processing ready out_for_delivery delivered cancelled"`
	Timestamp    time.Time `json:"timestamp"     validate:"required"`
	Source       string    `json:"source"        validate:"required"`
	Notes        string    `json:"notes"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
