package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabrico/orders-api/internal/api/metrics"
	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, ticketNumber, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, ticketNumber, status string, ts time.Time) error
}

type eventService struct {
	orderRepo ports.OrderRepository
	eventRepo ports.EventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(
	orderRepo ports.OrderRepository,
	eventRepo ports.EventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process validates, deduplicates, and persists a single status event.
func (s *eventService) Process(ctx context.Context, in ports.StatusEventInput) error {
	start := time.Now()
	newStatus := domain.OrderStatus(in.Status)

	// 1. Idempotency check — silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.TicketNumber, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("ticket", in.TicketNumber).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("ticket", in.TicketNumber).Str("status", in.Status).Msg("duplicate event skipped")
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		return nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Find order (no customer filter — events come from operational sources).
	order, err := s.orderRepo.FindByTicketNumber(ctx, in.TicketNumber, "")
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("order_not_found").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	// 3. Validate state machine transition.
	if !order.Status.CanTransitionTo(newStatus) {
		metrics.EventsErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return fmt.Errorf("process event: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, newStatus)
	}

	// 4. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.TicketNumber, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("ticket", in.TicketNumber).Msg("failed to set dedup key")
	}

	// 5. Atomically update order status + history.
	if err := s.eventRepo.UpdateOrderStatus(ctx, in.TicketNumber, newStatus, in.Timestamp, in.Source, in.Notes); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("update_failed").Inc()
		metrics.EventProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("process event: update status: %w", err)
	}

	// 6. Insert into audit trail (non-fatal on failure).
	auditEvent := &domain.StatusEvent{
		TicketNumber: in.TicketNumber,
		Status:       newStatus,
		Timestamp:    in.Timestamp,
		Source:       in.Source,
		Notes:        in.Notes,
	}
	if err := s.eventRepo.InsertEvent(ctx, auditEvent); err != nil {
		s.log.Warn().Err(err).Str("ticket", in.TicketNumber).Msg("failed to insert audit event")
	}

	metrics.EventsProcessedTotal.WithLabelValues(in.Status, in.Source).Inc()
	metrics.EventProcessingDuration.WithLabelValues(in.Status).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("ticket", in.TicketNumber).
		Str("status", in.Status).
		Str("source", in.Source).
		Msg("event processed")

	return nil
}
