package entity

import "time"

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "open"
	SlotStatusBooked SlotStatus = "booked"
)

type Slot struct {
	ID              string
	ConsultantID    string
	StartsAt        time.Time
	DurationMin     int32
	Title           string
	MeetingProvider string
	MeetingURL      *string
	Status          SlotStatus
	CreatedAt       time.Time
}
