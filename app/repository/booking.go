package repository

import (
	"context"
	"database/sql"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateBooking(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, slot_id, status, client_note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.SlotID,
		string(booking.Status),
		nullableStringValue(booking.ClientNote),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSlotAlreadyBooked
		}
		return err
	}
	return nil
}

func (q *queries) FindBookingByID(ctx context.Context, id string) (*entity.Booking, error) {
	query := `
		SELECT id, user_id, slot_id, status, client_note, created_at, updated_at
		FROM bookings
		WHERE id = ?
	`

	booking := &entity.Booking{}
	var status string
	var clientNote sql.NullString
	err := q.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&status,
		&clientNote,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	booking.Status = entity.BookingStatus(status)
	booking.ClientNote = stringPtrFromNull(clientNote)
	return booking, nil
}

func (q *queries) UpdateBooking(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings SET
			status = ?,
			client_note = ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := q.db.ExecContext(ctx, query,
		string(booking.Status),
		nullableStringValue(booking.ClientNote),
		booking.UpdatedAt,
		booking.ID,
	)
	return err
}

func (q *queries) ListBookingsByUser(ctx context.Context, userID string) ([]*BookingWithSlot, error) {
	query := `
		SELECT
			b.id, b.user_id, b.slot_id, b.status, b.client_note, b.created_at, b.updated_at,
			s.id, s.consultant_id, s.starts_at, s.duration_min, s.title, s.meeting_provider, s.meeting_url, s.status, s.created_at
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		WHERE b.user_id = ?
		ORDER BY s.starts_at ASC
	`

	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*BookingWithSlot, 0)
	for rows.Next() {
		booking := &entity.Booking{}
		slot := &entity.Slot{}
		var bookingStatus, slotStatus string
		var clientNote, meetingURL sql.NullString
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.SlotID,
			&bookingStatus,
			&clientNote,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&slot.ID,
			&slot.ConsultantID,
			&slot.StartsAt,
			&slot.DurationMin,
			&slot.Title,
			&slot.MeetingProvider,
			&meetingURL,
			&slotStatus,
			&slot.CreatedAt,
		); err != nil {
			return nil, err
		}
		booking.Status = entity.BookingStatus(bookingStatus)
		booking.ClientNote = stringPtrFromNull(clientNote)
		slot.Status = entity.SlotStatus(slotStatus)
		slot.MeetingURL = stringPtrFromNull(meetingURL)
		items = append(items, &BookingWithSlot{Booking: booking, Slot: slot})
	}
	return items, rows.Err()
}
