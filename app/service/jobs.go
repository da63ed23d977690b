package service

import (
	"context"
	"time"
)

// RunUnprocessedEventsBatch reports payment events whose effects were
// never applied. Such rows only appear when processing failed after
// the delivery was acked, so each one needs a human look; the job
// surfaces them without mutating anything.
func (s *PaymentService) RunUnprocessedEventsBatch(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.jobsCfg.EventStaleAfter)
	events, err := s.store.ListUnprocessedPaymentEvents(ctx, cutoff, s.jobsCfg.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		s.logger.
			WithField("event_id", event.EventID).
			WithField("event_type", event.Type).
			WithField("received_at", event.ReceivedAt.Format(time.RFC3339)).
			WithField("age", time.Since(event.ReceivedAt).Truncate(time.Second).String()).
			Warn("Payment event unprocessed")
	}
	if len(events) > 0 {
		s.logger.WithField("count", len(events)).Warn("Unprocessed payment events found")
	}
	return nil
}

// RunStaleOrdersBatch reports orders that have sat pending past the
// configured cutoff, typically abandoned checkouts or checkouts whose
// session creation failed. Order status is only ever advanced by
// payment application, so the job reports and leaves the rows alone.
func (s *PaymentService) RunStaleOrdersBatch(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.jobsCfg.OrderStaleAfter)
	orders, err := s.store.ListStalePendingOrders(ctx, cutoff, s.jobsCfg.BatchSize)
	if err != nil {
		return err
	}

	for _, order := range orders {
		s.logger.
			WithField("order_id", order.ID).
			WithField("user_id", order.UserID).
			WithField("provider_ref", order.ProviderRef).
			WithField("age", time.Since(order.CreatedAt).Truncate(time.Second).String()).
			Warn("Order stuck pending")
	}
	return nil
}
