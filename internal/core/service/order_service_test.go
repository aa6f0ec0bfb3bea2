package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

type stubOrderRepo struct {
	orders []*domain.Order
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	clone := *o
	r.orders = append(r.orders, &clone)
	return nil
}

func (r *stubOrderRepo) FindByTicketNumber(_ context.Context, ticketNumber, customerEmail string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.TicketNumber != ticketNumber {
			continue
		}
		if customerEmail != "" && o.Customer.Email != customerEmail {
			continue
		}
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.IdempotencyKey == key {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) List(_ context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if filter.CustomerEmail != "" && o.Customer.Email != filter.CustomerEmail {
			continue
		}
		if filter.Status != "" {
			if string(o.Status) != filter.Status {
				continue
			}
		} else if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, o.Status) {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func containsStatus(statuses []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func placeInput(email, key string) ports.PlaceOrderInput {
	return ports.PlaceOrderInput{
		Customer: ports.CustomerInput{Name: "Jane", Email: email, Phone: "555-0101"},
		Pickup:   ports.AddressInput{Street: "1 Main St", City: "Springfield"},
		Items: []ports.ItemInput{
			{Description: "Wool coat", Service: domain.ServiceDryClean, Quantity: 1, UnitPrice: 15.50},
			{Description: "Leather boots", Service: domain.ServiceShoeCare, Quantity: 2, UnitPrice: 9.00},
		},
		ServiceSpeed:   "standard",
		IdempotencyKey: key,
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewOrderService(repo, zerolog.Nop())

	result, err := svc.PlaceOrder(context.Background(), placeInput("Jane@Example.com", ""))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !strings.HasPrefix(result.TicketNumber, "FAB-") {
		t.Fatalf("unexpected ticket number format: %s", result.TicketNumber)
	}
	if result.Status != string(domain.StatusReceived) {
		t.Fatalf("new order should be received, got %s", result.Status)
	}
	if result.TotalAmount != 15.50+2*9.00 {
		t.Fatalf("unexpected total: %v", result.TotalAmount)
	}

	stored := repo.orders[0]
	if stored.Customer.Email != "jane@example.com" {
		t.Fatalf("customer email not normalized: %s", stored.Customer.Email)
	}
	if len(stored.StatusHistory) != 1 || stored.StatusHistory[0].Status != domain.StatusReceived {
		t.Fatalf("expected initial history entry, got %+v", stored.StatusHistory)
	}
}

func TestOrderService_PlaceOrder_IdempotentReplay(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewOrderService(repo, zerolog.Nop())

	first, err := svc.PlaceOrder(context.Background(), placeInput("jane@example.com", "key-1"))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	second, err := svc.PlaceOrder(context.Background(), placeInput("jane@example.com", "key-1"))
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !second.AlreadyExisted {
		t.Fatalf("expected replay to be flagged")
	}
	if second.TicketNumber != first.TicketNumber {
		t.Fatalf("replay created a new order: %s vs %s", first.TicketNumber, second.TicketNumber)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected one stored order, got %d", len(repo.orders))
	}
}

func TestOrderService_GetOrder_CustomerScoping(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewOrderService(repo, zerolog.Nop())

	placed, err := svc.PlaceOrder(context.Background(), placeInput("jane@example.com", ""))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	// Owner sees the order.
	if _, err := svc.GetOrder(context.Background(), ports.GetOrderInput{
		TicketNumber: placed.TicketNumber,
		Role:         domain.RoleCustomer,
		Email:        "jane@example.com",
	}); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}

	// Another customer does not.
	if _, err := svc.GetOrder(context.Background(), ports.GetOrderInput{
		TicketNumber: placed.TicketNumber,
		Role:         domain.RoleCustomer,
		Email:        "other@example.com",
	}); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found for foreign customer, got %v", err)
	}

	// Admin sees everything.
	if _, err := svc.GetOrder(context.Background(), ports.GetOrderInput{
		TicketNumber: placed.TicketNumber,
		Role:         domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("admin lookup failed: %v", err)
	}
}

func TestOrderService_LookupByEmail(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewOrderService(repo, zerolog.Nop())

	if _, err := svc.PlaceOrder(context.Background(), placeInput("jane@example.com", "")); err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if _, err := svc.PlaceOrder(context.Background(), placeInput("jane@example.com", "")); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	orders, err := svc.LookupByEmail(context.Background(), domain.RoleAdmin, "", "Jane@Example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	// A customer can only look up their own email.
	if _, err := svc.LookupByEmail(context.Background(), domain.RoleCustomer, "other@example.com", "jane@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.LookupByEmail(context.Background(), domain.RoleCustomer, "jane@example.com", "jane@example.com"); err != nil {
		t.Fatalf("own-email lookup failed: %v", err)
	}
}

func TestOrderService_ListOrders_DeliveryBoySeesActiveOnly(t *testing.T) {
	repo := &stubOrderRepo{orders: []*domain.Order{
		{TicketNumber: "FAB-00000001", Status: domain.StatusDelivered},
		{TicketNumber: "FAB-00000002", Status: domain.StatusCancelled},
		{TicketNumber: "FAB-00000003", Status: domain.StatusOutForDelivery},
		{TicketNumber: "FAB-00000004", Status: domain.StatusReceived},
	}}
	svc := NewOrderService(repo, zerolog.Nop())

	result, err := svc.ListOrders(context.Background(), ports.ListOrdersInput{Role: domain.RoleDeliveryBoy})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 active orders, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if !domain.OrderStatus(item.Status).IsActive() {
			t.Fatalf("courier view includes terminal order %s (status %s)", item.TicketNumber, item.Status)
		}
	}

	// An explicit terminal status filter yields an empty page, not a leak.
	result, err = svc.ListOrders(context.Background(), ports.ListOrdersInput{
		Role:   domain.RoleDeliveryBoy,
		Status: string(domain.StatusDelivered),
	})
	if err != nil {
		t.Fatalf("list with status filter failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Fatalf("expected empty page for terminal status filter, got %d items", len(result.Items))
	}

	// Admin still sees everything.
	result, err = svc.ListOrders(context.Background(), ports.ListOrdersInput{Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(result.Items) != 4 {
		t.Fatalf("expected 4 orders for admin, got %d", len(result.Items))
	}
}

func TestOrderService_ListOrders_CustomerRequiresEmail(t *testing.T) {
	svc := NewOrderService(&stubOrderRepo{}, zerolog.Nop())

	if _, err := svc.ListOrders(context.Background(), ports.ListOrdersInput{Role: domain.RoleCustomer}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for customer without email, got %v", err)
	}
}
