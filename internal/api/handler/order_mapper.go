package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fabrico/orders-api/internal/core/ports"
)

type orderSummaryResponse struct {
	TicketNumber string  `json:"ticket_number"`
	Status       string  `json:"status"`
	ServiceSpeed string  `json:"service_speed"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
	CreatedAt    string  `json:"created_at"`
	PromisedAt   string  `json:"promised_at"`
}

type listOrdersResponse struct {
	Items      []orderSummaryResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

type lookupOrdersResponse struct {
	Email  string                 `json:"email"`
	Orders []orderSummaryResponse `json:"orders"`
}

type getOrderResponse struct {
	TicketNumber  string                    `json:"ticket_number"`
	Status        string                    `json:"status"`
	ServiceSpeed  string                    `json:"service_speed"`
	TotalAmount   float64                   `json:"total_amount"`
	CreatedAt     string                    `json:"created_at"`
	PromisedAt    string                    `json:"promised_at"`
	Customer      customerRequest           `json:"customer"`
	Pickup        addressRequest            `json:"pickup"`
	Items         []itemRequest             `json:"items"`
	StatusHistory []ports.StatusHistoryItem `json:"status_history"`
	Links         orderLinks                `json:"_links"`
}

func toPlaceOrderInput(req placeOrderRequest, idempotencyKey string) ports.PlaceOrderInput {
	items := make([]ports.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.ItemInput{
			Description: it.Description,
			Service:     it.Service,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	speed := req.ServiceSpeed
	if speed == "" {
		speed = "standard"
	}

	return ports.PlaceOrderInput{
		Customer: ports.CustomerInput{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Pickup: ports.AddressInput{
			Street:  req.Pickup.Street,
			City:    req.Pickup.City,
			ZipCode: req.Pickup.ZipCode,
		},
		Items:          items,
		ServiceSpeed:   speed,
		IdempotencyKey: idempotencyKey,
	}
}

func toOrderSummaryResponse(o ports.OrderSummary) orderSummaryResponse {
	return orderSummaryResponse{
		TicketNumber: o.TicketNumber,
		Status:       o.Status,
		ServiceSpeed: o.ServiceSpeed,
		CustomerName: o.Customer.Name,
		TotalAmount:  o.TotalAmount,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		PromisedAt:   o.PromisedAt.Format(time.RFC3339),
	}
}

func toListOrdersResponse(r *ports.ListOrdersResult) listOrdersResponse {
	items := make([]orderSummaryResponse, 0, len(r.Items))
	for _, o := range r.Items {
		items = append(items, toOrderSummaryResponse(o))
	}
	return listOrdersResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

func toGetOrderResponse(d *ports.OrderDetail) getOrderResponse {
	items := make([]itemRequest, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, itemRequest{
			Description: it.Description,
			Service:     it.Service,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	return getOrderResponse{
		TicketNumber: d.TicketNumber,
		Status:       d.Status,
		ServiceSpeed: d.ServiceSpeed,
		TotalAmount:  d.TotalAmount,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
		PromisedAt:   d.PromisedAt.Format(time.RFC3339),
		Customer: customerRequest{
			Name:  d.Customer.Name,
			Email: d.Customer.Email,
			Phone: d.Customer.Phone,
		},
		Pickup: addressRequest{
			Street:  d.Pickup.Street,
			City:    d.Pickup.City,
			ZipCode: d.Pickup.ZipCode,
		},
		Items:         items,
		StatusHistory: d.StatusHistory,
		Links: orderLinks{
			Self:   "/api/orders/" + d.TicketNumber,
			Events: "/api/orders/events",
		},
	}
}

func intQueryParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
