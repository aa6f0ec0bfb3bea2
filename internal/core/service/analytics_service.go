package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabrico/orders-api/internal/core/ports"
)

const defaultAnalyticsWindow = 30 * 24 * time.Hour

// AnalyticsService answers the admin dashboard summary. The heavy lifting is
// an aggregation pipeline in the repository; this layer only normalizes the
// time window.
type AnalyticsService struct {
	repo   ports.AnalyticsRepository
	logger zerolog.Logger
}

func NewAnalyticsService(repo ports.AnalyticsRepository, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

func (s *AnalyticsService) Summary(ctx context.Context, from, to time.Time) (*ports.AnalyticsSummary, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() || from.After(to) {
		from = to.Add(-defaultAnalyticsWindow)
	}

	summary, err := s.repo.Summarize(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("analytics aggregation failed")
		return nil, err
	}
	return summary, nil
}
