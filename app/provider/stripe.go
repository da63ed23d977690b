package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBaseURL = "https://api.stripe.com"

type StripeConfig struct {
	SecretKey                 string
	WebhookSecret             string
	SignatureToleranceSeconds int64
	HTTPTimeout               time.Duration

	// APIBaseURL overrides the Stripe endpoint, used by tests.
	APIBaseURL string
}

type StripeProvider struct {
	cfg    StripeConfig
	client *http.Client
}

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.SignatureToleranceSeconds <= 0 {
		cfg.SignatureToleranceSeconds = 300
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = stripeAPIBaseURL
	}

	return &StripeProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *StripeProvider) Name() string {
	return "stripe"
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, input *CheckoutInput) (*CheckoutSession, error) {
	if !secretConfigured(p.cfg.SecretKey, "sk_") {
		return nil, errors.New("stripe secret key is not configured")
	}

	values := url.Values{}
	values.Set("mode", "payment")
	if input.StripePriceID != nil && strings.TrimSpace(*input.StripePriceID) != "" {
		values.Set("line_items[0][price]", strings.TrimSpace(*input.StripePriceID))
		values.Set("line_items[0][quantity]", "1")
	} else {
		values.Set("line_items[0][quantity]", "1")
		values.Set("line_items[0][price_data][currency]", strings.ToLower(input.Currency))
		values.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(input.AmountCents, 10))
		values.Set("line_items[0][price_data][product_data][name]", productDisplayName(input.ProductName))
	}

	values.Set("success_url", input.SuccessURL)
	values.Set("cancel_url", input.CancelURL)
	values.Set("client_reference_id", input.OrderID)
	values.Set("metadata[order_id]", input.OrderID)
	values.Set("metadata[product_id]", input.ProductID)
	if email := strings.TrimSpace(input.CustomerEmail); email != "" {
		values.Set("customer_email", email)
	}

	body, err := p.postForm(ctx, "/v1/checkout/sessions", values)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, errors.New("stripe checkout session id missing")
	}

	return &CheckoutSession{
		ID:  strings.TrimSpace(payload.ID),
		URL: strings.TrimSpace(payload.URL),
	}, nil
}

func (p *StripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	if !secretConfigured(p.cfg.WebhookSecret, "whsec_") {
		return nil, errors.New("stripe webhook secret is not configured")
	}
	if !verifyStripeSignature(payload, signatureHeader, p.cfg.WebhookSecret, p.cfg.SignatureToleranceSeconds) {
		return nil, errors.New("invalid stripe signature")
	}

	var event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID            string            `json:"id"`
				PaymentStatus string            `json:"payment_status"`
				Metadata      map[string]string `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, errors.New("stripe event id missing")
	}

	return &WebhookEvent{
		EventID:       strings.TrimSpace(event.ID),
		Type:          event.Type,
		PaymentStatus: event.Data.Object.PaymentStatus,
		OrderID:       strings.TrimSpace(event.Data.Object.Metadata["order_id"]),
		SessionID:     strings.TrimSpace(event.Data.Object.ID),
		Payload:       payload,
	}, nil
}

func (p *StripeProvider) postForm(ctx context.Context, path string, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIBaseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("stripe request failed: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}

	return body, nil
}

// secretConfigured rejects empty keys, keys with the wrong prefix, and
// the CHANGE_ME placeholders that ship in .env.example.
func secretConfigured(secret, prefix string) bool {
	secret = strings.TrimSpace(secret)
	if secret == "" || !strings.HasPrefix(secret, prefix) {
		return false
	}
	return !strings.Contains(secret, "CHANGE_ME")
}

func productDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "order"
	}
	return name
}

func verifyStripeSignature(payload []byte, signatureHeader string, webhookSecret string, toleranceSeconds int64) bool {
	signatureHeader = strings.TrimSpace(signatureHeader)
	if signatureHeader == "" || strings.TrimSpace(webhookSecret) == "" {
		return false
	}

	parts := strings.Split(signatureHeader, ",")
	var ts string
	v1 := make([]string, 0, 1)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "t=") {
			ts = strings.TrimSpace(strings.TrimPrefix(part, "t="))
		}
		if strings.HasPrefix(part, "v1=") {
			v1 = append(v1, strings.TrimSpace(strings.TrimPrefix(part, "v1=")))
		}
	}
	if ts == "" || len(v1) == 0 {
		return false
	}

	tsUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	now := time.Now().Unix()
	if now-tsUnix > toleranceSeconds || tsUnix-now > toleranceSeconds {
		return false
	}

	signedPayload := []byte(ts + "." + string(payload))
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	_, _ = mac.Write(signedPayload)
	expected := mac.Sum(nil)

	for _, sig := range v1 {
		candidate, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(candidate, expected) {
			return true
		}
	}

	return false
}
