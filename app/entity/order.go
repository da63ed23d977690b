package entity

import "time"

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPending, OrderStatusPaid:
		return true
	}
	return false
}

// Order rows are unique per (provider, provider_ref). The provider_ref
// starts out as a placeholder and is swapped to the provider session id
// once checkout creation succeeds.
type Order struct {
	ID          string
	UserID      string
	ProductID   string
	AmountCents int64
	Currency    string
	Status      OrderStatus
	Provider    string
	ProviderRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
