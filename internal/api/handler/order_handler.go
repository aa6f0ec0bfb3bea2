package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Place handles POST /api/orders.
//
// @Summary      Place a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      placeOrderRequest  true   "Order details"
// @Success      201              {object}  placeOrderResponse
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	role, email, err := ctxClaims(c)
	if err != nil {
		return err
	}
	// Customers always place orders under their own identity.
	if role == domain.RoleCustomer {
		req.Customer.Email = email
	}

	result, err := h.service.PlaceOrder(c.Request().Context(), toPlaceOrderInput(req, c.Request().Header.Get("Idempotency-Key")))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, placeOrderResponse{
		TicketNumber: result.TicketNumber,
		Status:       result.Status,
		TotalAmount:  result.TotalAmount,
		CreatedAt:    result.CreatedAt.Format(time.RFC3339),
		PromisedAt:   result.PromisedAt.Format(time.RFC3339),
		Links: orderLinks{
			Self:   "/api/orders/" + result.TicketNumber,
			Events: "/api/orders/events",
		},
	})
}

// Get handles GET /api/orders/:ticket_number.
//
// @Summary      Get an order by ticket number
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        ticket_number  path      string  true  "Ticket number (e.g. FAB-7A8B9C2D)"
// @Success      200            {object}  getOrderResponse
// @Failure      403            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Router       /api/orders/{ticket_number} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	role, email, err := ctxClaims(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetOrder(c.Request().Context(), ports.GetOrderInput{
		TicketNumber: c.Param("ticket_number"),
		Role:         role,
		Email:        email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGetOrderResponse(detail))
}

// List handles GET /api/orders with paging and filters.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status         query     string  false  "Filter by status"
// @Param        service_speed  query     string  false  "Filter by service speed"
// @Param        search         query     string  false  "Partial match on ticket number or customer name"
// @Param        page           query     int     false  "Page (1-based)"
// @Param        limit          query     int     false  "Rows per page"
// @Success      200            {object}  listOrdersResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	role, email, err := ctxClaims(c)
	if err != nil {
		return err
	}

	input := ports.ListOrdersInput{
		Role:         role,
		Email:        email,
		Status:       c.QueryParam("status"),
		ServiceSpeed: c.QueryParam("service_speed"),
		Search:       c.QueryParam("search"),
		Page:         intQueryParam(c, "page"),
		Limit:        intQueryParam(c, "limit"),
	}
	if from := c.QueryParam("date_from"); from != "" {
		if t, perr := time.Parse(time.RFC3339, from); perr == nil {
			input.DateFrom = t
		}
	}
	if to := c.QueryParam("date_to"); to != "" {
		if t, perr := time.Parse(time.RFC3339, to); perr == nil {
			input.DateTo = t
		}
	}

	result, err := h.service.ListOrders(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListOrdersResponse(result))
}

// Lookup handles GET /api/orders/lookup?email= — the counter-desk flow that
// pulls up every order placed under an email address.
//
// @Summary      Look up orders by customer email
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Customer email"
// @Success      200    {object}  lookupOrdersResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/orders/lookup [get]
func (h *OrderHandler) Lookup(c echo.Context) error {
	role, callerEmail, err := ctxClaims(c)
	if err != nil {
		return err
	}

	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "email is required"})
	}

	orders, err := h.service.LookupByEmail(c.Request().Context(), role, callerEmail, email)
	if err != nil {
		return err
	}

	items := make([]orderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderSummaryResponse(o))
	}
	return c.JSON(http.StatusOK, lookupOrdersResponse{Email: domain.NormalizeEmail(email), Orders: items})
}
