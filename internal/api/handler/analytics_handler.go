package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fabrico/orders-api/internal/core/ports"
)

// AnalyticsHandler serves the admin dashboard summary.
type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary handles GET /api/analytics/summary.
//
// @Summary      Order volume and revenue summary
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Window start (RFC3339), defaults to 30 days ago"
// @Param        to    query     string  false  "Window end (RFC3339), defaults to now"
// @Success      200   {object}  ports.AnalyticsSummary
// @Failure      403   {object}  errorResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	var from, to time.Time
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "from must be RFC3339"})
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "to must be RFC3339"})
		}
		to = t
	}

	summary, err := h.service.Summary(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
