package entity

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking rows are unique per SlotID regardless of status, which backs
// up the slot row lock against double allocation.
type Booking struct {
	ID         string
	UserID     string
	SlotID     string
	Status     BookingStatus
	ClientNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
