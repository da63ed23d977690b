package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreatePaymentEvent(ctx context.Context, event *entity.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (id, provider, event_id, type, payload_json, received_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		event.ID,
		event.Provider,
		event.EventID,
		event.Type,
		event.PayloadJSON,
		event.ReceivedAt,
		nullableTimeValue(event.ProcessedAt),
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrPaymentEventExists
		}
		return err
	}
	return nil
}

func (q *queries) FindPaymentEventByEventID(ctx context.Context, eventID string) (*entity.PaymentEvent, error) {
	query := `
		SELECT id, provider, event_id, type, payload_json, received_at, processed_at
		FROM payment_events
		WHERE event_id = ?
	`

	event := &entity.PaymentEvent{}
	var processedAt sql.NullTime
	err := q.db.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.Provider,
		&event.EventID,
		&event.Type,
		&event.PayloadJSON,
		&event.ReceivedAt,
		&processedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	event.ProcessedAt = timePtrFromNull(processedAt)
	return event, nil
}

func (q *queries) MarkPaymentEventProcessed(ctx context.Context, id string, processedAt time.Time) error {
	query := `
		UPDATE payment_events SET processed_at = ?
		WHERE id = ? AND processed_at IS NULL
	`

	_, err := q.db.ExecContext(ctx, query, processedAt, id)
	return err
}

func (q *queries) ListUnprocessedPaymentEvents(ctx context.Context, olderThan time.Time, limit int32) ([]*entity.PaymentEvent, error) {
	query := `
		SELECT id, provider, event_id, type, payload_json, received_at, processed_at
		FROM payment_events
		WHERE processed_at IS NULL AND received_at < ?
		ORDER BY received_at ASC
		LIMIT ?
	`

	rows, err := q.db.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.PaymentEvent, 0)
	for rows.Next() {
		event := &entity.PaymentEvent{}
		var processedAt sql.NullTime
		if err := rows.Scan(
			&event.ID,
			&event.Provider,
			&event.EventID,
			&event.Type,
			&event.PayloadJSON,
			&event.ReceivedAt,
			&processedAt,
		); err != nil {
			return nil, err
		}
		event.ProcessedAt = timePtrFromNull(processedAt)
		items = append(items, event)
	}
	return items, rows.Err()
}
