package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

// AccountHandler exposes the admin account management endpoints.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type listAccountsResponse struct {
	Items      []*domain.Account `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer deliveryBoy admin"`
}

// List handles GET /api/admin/accounts.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role   query     string  false  "Filter by role"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Rows per page"
// @Success      200    {object}  listAccountsResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/admin/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	result, err := h.service.ListAccounts(c.Request().Context(), ports.ListAccountsInput{
		Role:  c.QueryParam("role"),
		Page:  intQueryParam(c, "page"),
		Limit: intQueryParam(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listAccountsResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Block handles PATCH /api/admin/accounts/:id/block.
//
// @Summary      Block an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200 {object}  domain.Account
// @Failure      404 {object}  errorResponse
// @Router       /api/admin/accounts/{id}/block [patch]
func (h *AccountHandler) Block(c echo.Context) error {
	return h.setBlocked(c, true)
}

// Unblock handles PATCH /api/admin/accounts/:id/unblock.
//
// @Summary      Unblock an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200 {object}  domain.Account
// @Failure      404 {object}  errorResponse
// @Router       /api/admin/accounts/{id}/unblock [patch]
func (h *AccountHandler) Unblock(c echo.Context) error {
	return h.setBlocked(c, false)
}

func (h *AccountHandler) setBlocked(c echo.Context, blocked bool) error {
	account, err := h.service.SetBlocked(c.Request().Context(), c.Param("id"), blocked)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// SetRole handles PATCH /api/admin/accounts/:id/role.
//
// @Summary      Change an account's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Account ID"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/accounts/{id}/role [patch]
func (h *AccountHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	account, err := h.service.SetRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
