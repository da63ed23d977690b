package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateSlot(ctx context.Context, slot *entity.Slot) error {
	query := `
		INSERT INTO slots (id, consultant_id, starts_at, duration_min, title, meeting_provider, meeting_url, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		slot.ID,
		slot.ConsultantID,
		slot.StartsAt,
		slot.DurationMin,
		slot.Title,
		slot.MeetingProvider,
		nullableStringValue(slot.MeetingURL),
		string(slot.Status),
		slot.CreatedAt,
	)
	return err
}

func (q *queries) FindSlotByID(ctx context.Context, id string) (*entity.Slot, error) {
	query := selectSlot + ` WHERE id = ?`

	slot := &entity.Slot{}
	if err := scanSlot(q.db.QueryRowContext(ctx, query, id), slot); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return slot, nil
}

// FindSlotByIDForUpdate locks the slot row for the duration of the
// enclosing transaction. Only valid inside ExecTx.
func (q *queries) FindSlotByIDForUpdate(ctx context.Context, id string) (*entity.Slot, error) {
	query := selectSlot + ` WHERE id = ? FOR UPDATE`

	slot := &entity.Slot{}
	if err := scanSlot(q.db.QueryRowContext(ctx, query, id), slot); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return slot, nil
}

func (q *queries) ListOpenSlots(ctx context.Context, from time.Time) ([]*entity.Slot, error) {
	query := selectSlot + `
		WHERE status = ? AND starts_at > ?
		ORDER BY starts_at ASC
	`

	rows, err := q.db.QueryContext(ctx, query, string(entity.SlotStatusOpen), from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Slot, 0)
	for rows.Next() {
		slot := &entity.Slot{}
		var status string
		var meetingURL sql.NullString
		if err := rows.Scan(
			&slot.ID,
			&slot.ConsultantID,
			&slot.StartsAt,
			&slot.DurationMin,
			&slot.Title,
			&slot.MeetingProvider,
			&meetingURL,
			&status,
			&slot.CreatedAt,
		); err != nil {
			return nil, err
		}
		slot.Status = entity.SlotStatus(status)
		slot.MeetingURL = stringPtrFromNull(meetingURL)
		items = append(items, slot)
	}
	return items, rows.Err()
}

func (q *queries) UpdateSlotStatus(ctx context.Context, id string, status entity.SlotStatus) error {
	query := `UPDATE slots SET status = ? WHERE id = ?`

	_, err := q.db.ExecContext(ctx, query, string(status), id)
	return err
}

const selectSlot = `
	SELECT id, consultant_id, starts_at, duration_min, title, meeting_provider, meeting_url, status, created_at
	FROM slots`

func scanSlot(row *sql.Row, slot *entity.Slot) error {
	var status string
	var meetingURL sql.NullString
	if err := row.Scan(
		&slot.ID,
		&slot.ConsultantID,
		&slot.StartsAt,
		&slot.DurationMin,
		&slot.Title,
		&slot.MeetingProvider,
		&meetingURL,
		&status,
		&slot.CreatedAt,
	); err != nil {
		return err
	}
	slot.Status = entity.SlotStatus(status)
	slot.MeetingURL = stringPtrFromNull(meetingURL)
	return nil
}
