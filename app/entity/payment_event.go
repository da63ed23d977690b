package entity

import "time"

// PaymentEvent is the dedup ledger for provider webhooks. EventID is
// the provider-issued id and is unique; ProcessedAt is stamped only
// after business effects have been applied, so rows with a NULL
// ProcessedAt are the reconciliation surface after a crash.
type PaymentEvent struct {
	ID          string
	Provider    string
	EventID     string
	Type        string
	PayloadJSON string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}
