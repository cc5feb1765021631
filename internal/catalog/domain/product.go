package domain

import "github.com/shopspring/decimal"

// Product is the canonical product shape. Server field variants are resolved
// in the httpapi client; nothing else parses raw catalog payloads.
type Product struct {
	ID            string
	Name          string
	Image         string
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	CountInStock  int
}

// HasDiscount reports whether the discount price is usable: strictly positive
// and strictly below the base price.
func (p Product) HasDiscount() bool {
	return p.DiscountPrice.IsPositive() && p.DiscountPrice.LessThan(p.Price)
}

// EffectivePrice is the discounted price when valid, else the base price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.HasDiscount() {
		return p.DiscountPrice
	}
	return p.Price
}
