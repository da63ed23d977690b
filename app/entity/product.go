package entity

import "time"

type ProductType string

const (
	ProductTypeAIPack  ProductType = "ai_pack"
	ProductTypeBooking ProductType = "booking"
	ProductTypeProgram ProductType = "program"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeAIPack, ProductTypeBooking, ProductTypeProgram:
		return true
	}
	return false
}

// Product metadata carries type-specific settings, e.g. {"credits": 50}
// for ai_pack or {"qty": 1} for booking products.
type Product struct {
	ID         string
	Code       string
	Type       ProductType
	NameDE     string
	NameEN     string
	PriceCents int64
	Currency   string
	Metadata   map[string]interface{}
	Active     bool
	CreatedAt  time.Time
}

func (p *Product) Name(locale string) string {
	if locale == "de" && p.NameDE != "" {
		return p.NameDE
	}
	if p.NameEN != "" {
		return p.NameEN
	}
	return p.NameDE
}
