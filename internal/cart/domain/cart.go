package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product/quantity pair as known to the client. All server
// shape variants are collapsed into this form at the store adapter boundary;
// nothing past that boundary sees raw wire shapes.
type LineItem struct {
	ProductID      string
	Name           string
	Image          string
	UnitPrice      decimal.Decimal
	DiscountPrice  decimal.Decimal
	Quantity       int
	AvailableStock int
}

// HasDiscount reports whether the discount price is usable: strictly positive
// and strictly below the unit price.
func (li LineItem) HasDiscount() bool {
	return li.DiscountPrice.IsPositive() && li.DiscountPrice.LessThan(li.UnitPrice)
}

// EffectiveUnitPrice is the discounted price when valid, else the base price.
// Derived, never stored.
func (li LineItem) EffectiveUnitPrice() decimal.Decimal {
	if li.HasDiscount() {
		return li.DiscountPrice
	}
	return li.UnitPrice
}

// LineTotal is quantity times effective unit price, unrounded.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is the full, server-confirmed cart state. It is replaced wholesale
// on every successful refetch and never patched locally.
type Snapshot struct {
	Items     []LineItem
	FetchedAt time.Time
}

// Item returns the line for productID, if present.
func (s Snapshot) Item(productID string) (LineItem, bool) {
	for _, li := range s.Items {
		if li.ProductID == productID {
			return li, true
		}
	}
	return LineItem{}, false
}
