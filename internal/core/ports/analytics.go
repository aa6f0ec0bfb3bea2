package ports

import (
	"context"
	"time"
)

// DailyCount is the number of orders placed on a single day.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// AnalyticsSummary aggregates order volume and revenue for the admin dashboard.
type AnalyticsSummary struct {
	TotalOrders    int64            `json:"total_orders"`
	TotalRevenue   float64          `json:"total_revenue"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	OrdersPerDay   []DailyCount     `json:"orders_per_day"`
}

// AnalyticsRepository runs aggregation queries over the orders collection.
type AnalyticsRepository interface {
	Summarize(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error)
}

// AnalyticsService exposes the admin analytics use case.
type AnalyticsService interface {
	Summary(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error)
}
