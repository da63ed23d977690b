package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/provider"
	"github.com/klarkurs/mpu-platform/app/repository"
	"github.com/klarkurs/mpu-platform/app/types"
	"github.com/klarkurs/mpu-platform/config"
)

const (
	defaultAICredits  = int32(50)
	defaultBookingQty = int32(1)
)

type PaymentService struct {
	store       Store
	providerReg *provider.Registry
	stripeCfg   config.StripeConfig
	jobsCfg     config.JobsConfig
	logger      logrus.FieldLogger
}

func NewPaymentService(
	store Store,
	providerReg *provider.Registry,
	stripeCfg config.StripeConfig,
	jobsCfg config.JobsConfig,
) *PaymentService {
	return &PaymentService{
		store:       store,
		providerReg: providerReg,
		stripeCfg:   stripeCfg,
		jobsCfg:     jobsCfg,
		logger:      factory.NewModuleLogger("payment-service"),
	}
}

func (s *PaymentService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return s.store.ListActiveProducts(ctx)
}

// CreateCheckout opens a pending order and a provider checkout session
// for it. The provider call happens outside any transaction; if it
// fails the order stays pending with its placeholder reference and is
// eventually reported by the stale-orders job.
func (s *PaymentService) CreateCheckout(ctx context.Context, user *entity.User, productID string) (*types.CheckoutResponse, error) {
	product, err := s.store.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, ErrProductNotFound
	}

	prov, err := s.providerReg.Get("stripe")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		ProductID:   product.ID,
		AmountCents: product.PriceCents,
		Currency:    product.Currency,
		Status:      entity.OrderStatusPending,
		Provider:    prov.Name(),
		ProviderRef: "tmp_" + uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	session, err := prov.CreateCheckoutSession(ctx, &provider.CheckoutInput{
		OrderID:       order.ID,
		ProductID:     product.ID,
		ProductName:   product.Name(user.Locale),
		AmountCents:   product.PriceCents,
		Currency:      product.Currency,
		StripePriceID: stripePriceID(product.Metadata),
		CustomerEmail: user.Email,
		SuccessURL:    s.stripeCfg.SuccessURL,
		CancelURL:     s.stripeCfg.CancelURL,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("Checkout session creation failed")
		return nil, ErrCheckoutFailed
	}

	order.ProviderRef = session.ID
	order.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	return &types.CheckoutResponse{
		OrderID:     order.ID,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// HandleWebhook ingests one provider webhook delivery. Deliveries are
// at-least-once, so the event is recorded first (its own commit) and
// deduplicated by provider event id; effects and the processed stamp
// share a second transaction. A processing failure still acks the
// delivery so the provider stops retrying, and the unprocessed row is
// picked up by reconciliation.
func (s *PaymentService) HandleWebhook(ctx context.Context, providerName string, payload []byte, signature string) (*types.WebhookResponse, error) {
	prov, err := s.providerReg.Get(providerName)
	if err != nil {
		return nil, ErrNotFound
	}

	event, err := prov.VerifyWebhook(payload, signature)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	existing, err := s.store.FindPaymentEventByEventID(ctx, event.EventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &types.WebhookResponse{Received: true, Deduplicated: true, Processed: existing.ProcessedAt != nil}, nil
	}

	record := &entity.PaymentEvent{
		ID:          uuid.NewString(),
		Provider:    prov.Name(),
		EventID:     event.EventID,
		Type:        event.Type,
		PayloadJSON: string(event.Payload),
		ReceivedAt:  time.Now().UTC(),
	}
	if err := s.store.CreatePaymentEvent(ctx, record); err != nil {
		if errors.Is(err, repository.ErrPaymentEventExists) {
			// Lost the insert race; the concurrent delivery owns
			// processing.
			return &types.WebhookResponse{Received: true, Deduplicated: true}, nil
		}
		return nil, err
	}

	err = s.store.ExecTx(ctx, func(ledger repository.Ledger) error {
		if eventGrantsPayment(event) {
			orderID, err := s.resolveOrderID(ctx, ledger, prov.Name(), event)
			if err != nil {
				return err
			}
			if err := s.applyPaidOrder(ctx, ledger, orderID); err != nil {
				return err
			}
		}
		return ledger.MarkPaymentEventProcessed(ctx, record.ID, time.Now().UTC())
	})
	if err != nil {
		s.logger.WithError(err).
			WithField("event_id", event.EventID).
			WithField("event_type", event.Type).
			Error("Webhook processing failed, event left unprocessed")
		return &types.WebhookResponse{Received: true}, nil
	}

	return &types.WebhookResponse{Received: true, Processed: true}, nil
}

func eventGrantsPayment(event *provider.WebhookEvent) bool {
	if event.OrderID == "" && event.SessionID == "" {
		return false
	}
	if event.Type != "checkout.session.completed" {
		return false
	}
	return event.PaymentStatus == "paid" || event.PaymentStatus == "no_payment_required"
}

// resolveOrderID maps a webhook event back to an order. Metadata is
// the primary key; when the provider strips it, the session id joins
// against the provider_ref stored at checkout time.
func (s *PaymentService) resolveOrderID(ctx context.Context, ledger repository.Ledger, providerName string, event *provider.WebhookEvent) (string, error) {
	if event.OrderID != "" {
		return event.OrderID, nil
	}
	order, err := ledger.FindOrderByProviderRef(ctx, providerName, event.SessionID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", ErrOrderNotFound
	}
	return order.ID, nil
}

// applyPaidOrder marks the order paid and mints its entitlement. It is
// idempotent two ways: an already-paid order short-circuits, and an
// existing entitlement for (order, kind) is never minted twice even if
// the order row missed its status update.
func (s *PaymentService) applyPaidOrder(ctx context.Context, ledger repository.Ledger, orderID string) error {
	order, err := ledger.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status == entity.OrderStatusPaid {
		return nil
	}

	product, err := ledger.FindProductByID(ctx, order.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	grant, err := entitlementGrantForProduct(product)
	if err != nil {
		return err
	}

	existing, err := ledger.FindEntitlementByOrderAndKind(ctx, order.ID, grant.kind)
	if err != nil {
		return err
	}
	if existing == nil {
		now := time.Now().UTC()
		entitlement := &entity.Entitlement{
			ID:            uuid.NewString(),
			UserID:        order.UserID,
			Kind:          grant.kind,
			QtyTotal:      grant.qty,
			QtyUsed:       0,
			ValidFrom:     now,
			SourceOrderID: order.ID,
			CreatedAt:     now,
		}
		if grant.validDays > 0 {
			validTo := now.AddDate(0, 0, int(grant.validDays))
			entitlement.ValidTo = &validTo
		}
		if err := ledger.CreateEntitlement(ctx, entitlement); err != nil && !errors.Is(err, repository.ErrEntitlementExists) {
			return err
		}
	}

	order.Status = entity.OrderStatusPaid
	order.UpdatedAt = time.Now().UTC()
	return ledger.UpdateOrder(ctx, order)
}

type entitlementGrant struct {
	kind      entity.EntitlementKind
	qty       int32
	validDays int32
}

func entitlementGrantForProduct(product *entity.Product) (*entitlementGrant, error) {
	switch product.Type {
	case entity.ProductTypeAIPack:
		credits, err := intMetadata(product.Metadata, "credits", defaultAICredits)
		if err != nil || credits <= 0 {
			return nil, ErrBadProductMetadata
		}
		validDays, err := validDaysMetadata(product.Metadata)
		if err != nil {
			return nil, err
		}
		return &entitlementGrant{kind: entity.EntitlementKindAICredits, qty: credits, validDays: validDays}, nil
	case entity.ProductTypeBooking:
		qty, err := intMetadata(product.Metadata, "qty", defaultBookingQty)
		if err != nil || qty <= 0 {
			return nil, ErrBadProductMetadata
		}
		validDays, err := validDaysMetadata(product.Metadata)
		if err != nil {
			return nil, err
		}
		return &entitlementGrant{kind: entity.EntitlementKindBookingAccess, qty: qty, validDays: validDays}, nil
	default:
		return nil, ErrUnsupportedProductType
	}
}

// validDaysMetadata reads the grant window. Non-positive values mean
// "no expiry", same as an absent key; only an unparseable value is an
// error.
func validDaysMetadata(metadata map[string]interface{}) (int32, error) {
	validDays, err := intMetadata(metadata, "valid_days", 0)
	if err != nil {
		return 0, ErrBadProductMetadata
	}
	if validDays < 0 {
		return 0, nil
	}
	return validDays, nil
}

// intMetadata reads a numeric metadata value. JSON decoding yields
// float64, seeds may use int, and hand-edited rows sometimes carry
// numeric strings. A present but unparseable value is an error: a typo
// in the catalog must fail the grant, not silently mint the default.
func intMetadata(metadata map[string]interface{}, key string, defaultValue int32) (int32, error) {
	raw, ok := metadata[key]
	if !ok || raw == nil {
		return defaultValue, nil
	}
	switch v := raw.(type) {
	case float64:
		return int32(v), nil
	case int:
		return int32(v), nil
	case int32:
		return v, nil
	case int64:
		return int32(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrBadProductMetadata
		}
		return int32(n), nil
	default:
		return 0, ErrBadProductMetadata
	}
}

func stripePriceID(metadata map[string]interface{}) *string {
	raw, ok := metadata["stripe_price_id"]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}
