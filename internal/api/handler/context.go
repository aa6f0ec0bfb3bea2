package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fabrico/orders-api/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware.
// Role must be non-empty, and the customer role additionally requires a
// non-empty email claim; either failure is rejected with 401.
func ctxClaims(c echo.Context) (role, email string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ = c.Get("email").(string)
	if role == domain.RoleCustomer && email == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing account identity")
	}

	return role, email, nil
}
