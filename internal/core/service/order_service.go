package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabrico/orders-api/internal/api/metrics"
	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

const maxPageLimit = 100

type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// PlaceOrder creates a new order. If an idempotency key is provided and
// already seen, the previously created order is returned without side effects.
func (s *OrderService) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.OrderResult, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("ticket_number", existing.TicketNumber).Msg("idempotent replay")
			return &ports.OrderResult{
				TicketNumber:   existing.TicketNumber,
				Status:         string(existing.Status),
				TotalAmount:    existing.TotalAmount,
				CreatedAt:      existing.CreatedAt,
				PromisedAt:     existing.PromisedAt,
				AlreadyExisted: true,
			}, nil
		}
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, domain.OrderItem{
			Description: it.Description,
			Service:     it.Service,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		TicketNumber: generateTicketNumber(),
		Customer: domain.Customer{
			Name:  input.Customer.Name,
			Email: domain.NormalizeEmail(input.Customer.Email),
			Phone: input.Customer.Phone,
		},
		Pickup: domain.Address{
			Street:  input.Pickup.Street,
			City:    input.Pickup.City,
			ZipCode: input.Pickup.ZipCode,
		},
		Items:          items,
		ServiceSpeed:   input.ServiceSpeed,
		TotalAmount:    domain.Total(items),
		Status:         domain.StatusReceived,
		CreatedAt:      now,
		PromisedAt:     promisedAt(input.ServiceSpeed, now),
		IdempotencyKey: input.IdempotencyKey,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusReceived, Timestamp: now},
		},
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.ServiceSpeed).Inc()
	s.logger.Info().Str("ticket_number", order.TicketNumber).Str("customer_email", order.Customer.Email).Msg("order placed")

	return &ports.OrderResult{
		TicketNumber: order.TicketNumber,
		Status:       string(order.Status),
		TotalAmount:  order.TotalAmount,
		CreatedAt:    order.CreatedAt,
		PromisedAt:   order.PromisedAt,
	}, nil
}

// GetOrder retrieves a single order, scoping customers to their own orders.
func (s *OrderService) GetOrder(ctx context.Context, input ports.GetOrderInput) (*ports.OrderDetail, error) {
	scopeEmail := ""
	if input.Role == domain.RoleCustomer {
		if input.Email == "" {
			return nil, domain.ErrForbidden
		}
		scopeEmail = domain.NormalizeEmail(input.Email)
	}

	order, err := s.repo.FindByTicketNumber(ctx, input.TicketNumber, scopeEmail)
	if err != nil {
		return nil, err
	}

	return toOrderDetail(order), nil
}

// ListOrders returns a page of orders scoped by role: customers see only
// their own orders, deliveryBoy sees orders still in flight, admin sees
// everything matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListOrdersFilter{
		Status:       input.Status,
		ServiceSpeed: input.ServiceSpeed,
		Search:       input.Search,
		DateFrom:     input.DateFrom,
		DateTo:       input.DateTo,
		Page:         page,
		Limit:        limit,
	}
	switch input.Role {
	case domain.RoleCustomer:
		if input.Email == "" {
			return nil, domain.ErrForbidden
		}
		filter.CustomerEmail = domain.NormalizeEmail(input.Email)
	case domain.RoleDeliveryBoy:
		// Couriers never see delivered or cancelled orders, even when the
		// status filter asks for them explicitly.
		if input.Status != "" && !domain.OrderStatus(input.Status).IsActive() {
			return &ports.ListOrdersResult{Items: []ports.OrderSummary{}, Page: page, Limit: limit}, nil
		}
		filter.Statuses = domain.ActiveStatuses()
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ports.OrderSummary, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderSummary(o))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// LookupByEmail is the counter-desk flow: all orders placed under an email,
// newest first. Customers may only look up their own email.
func (s *OrderService) LookupByEmail(ctx context.Context, role, callerEmail, email string) ([]ports.OrderSummary, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrOrderNotFound
	}
	if role == domain.RoleCustomer && email != domain.NormalizeEmail(callerEmail) {
		return nil, domain.ErrForbidden
	}

	orders, _, err := s.repo.List(ctx, ports.ListOrdersFilter{
		CustomerEmail: email,
		Page:          1,
		Limit:         maxPageLimit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]ports.OrderSummary, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderSummary(o))
	}
	return items, nil
}

func toOrderSummary(o *domain.Order) ports.OrderSummary {
	return ports.OrderSummary{
		TicketNumber: o.TicketNumber,
		Status:       string(o.Status),
		ServiceSpeed: o.ServiceSpeed,
		Customer: ports.CustomerInput{
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Phone: o.Customer.Phone,
		},
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		PromisedAt:  o.PromisedAt,
	}
}

func toOrderDetail(o *domain.Order) *ports.OrderDetail {
	items := make([]ports.ItemInput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ports.ItemInput{
			Description: it.Description,
			Service:     it.Service,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	history := make([]ports.StatusHistoryItem, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, ports.StatusHistoryItem{
			Status:    string(h.Status),
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
		})
	}

	return &ports.OrderDetail{
		TicketNumber: o.TicketNumber,
		Status:       string(o.Status),
		ServiceSpeed: o.ServiceSpeed,
		TotalAmount:  o.TotalAmount,
		CreatedAt:    o.CreatedAt,
		PromisedAt:   o.PromisedAt,
		Customer: ports.CustomerInput{
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Phone: o.Customer.Phone,
		},
		Pickup: ports.AddressInput{
			Street:  o.Pickup.Street,
			City:    o.Pickup.City,
			ZipCode: o.Pickup.ZipCode,
		},
		Items:         items,
		StatusHistory: history,
	}
}

// generateTicketNumber returns a unique ticket number in the format FAB-XXXXXXXX.
func generateTicketNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("FAB-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("FAB-%08X", b)
}

// promisedAt calculates the promised ready time based on service speed.
func promisedAt(serviceSpeed string, from time.Time) time.Time {
	base := time.Date(from.Year(), from.Month(), from.Day(), 18, 0, 0, 0, time.UTC)
	switch serviceSpeed {
	case "express":
		return base.AddDate(0, 0, 1)
	default: // "standard" or unknown → 3 days
		return base.AddDate(0, 0, 3)
	}
}
