package provider

import "context"

// CheckoutInput describes one order to collect payment for. The order
// id travels in provider metadata and comes back on the webhook.
type CheckoutInput struct {
	OrderID       string
	ProductID     string
	ProductName   string
	AmountCents   int64
	Currency      string
	StripePriceID *string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is the provider-agnostic view of a verified webhook.
// OrderID comes from the metadata echoed back by the provider;
// SessionID is the provider's own object id, which matches the
// provider_ref stored on the order at checkout time.
type WebhookEvent struct {
	EventID       string
	Type          string
	PaymentStatus string
	OrderID       string
	SessionID     string
	Payload       []byte
}

type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, input *CheckoutInput) (*CheckoutSession, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
