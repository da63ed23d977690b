package entity

import "time"

type EntitlementKind string

const (
	EntitlementKindAICredits     EntitlementKind = "ai_credits"
	EntitlementKindBookingAccess EntitlementKind = "booking_access"
)

func (k EntitlementKind) Valid() bool {
	switch k {
	case EntitlementKindAICredits, EntitlementKindBookingAccess:
		return true
	}
	return false
}

// Entitlement is a consumable balance minted from a paid order. A nil
// ValidTo means no expiry. At most one entitlement exists per
// (SourceOrderID, Kind).
type Entitlement struct {
	ID            string
	UserID        string
	Kind          EntitlementKind
	QtyTotal      int32
	QtyUsed       int32
	ValidFrom     time.Time
	ValidTo       *time.Time
	SourceOrderID string
	CreatedAt     time.Time
}

func (e *Entitlement) Remaining() int32 {
	if e.QtyUsed >= e.QtyTotal {
		return 0
	}
	return e.QtyTotal - e.QtyUsed
}
