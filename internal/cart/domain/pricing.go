package domain

import "github.com/shopspring/decimal"

// Rates are the configured pricing constants. Shipping is free only when the
// subtotal strictly exceeds the threshold.
type Rates struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingCost          decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		TaxRate:               decimal.RequireFromString("0.05"),
		FreeShippingThreshold: decimal.RequireFromString("100"),
		ShippingCost:          decimal.RequireFromString("10"),
	}
}

// Breakdown is derived from a snapshot on every read, never cached. Fields
// are rounded to 2 fractional digits for display.
type Breakdown struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Compute derives the monetary breakdown for a set of line items. Pure, no
// I/O. Accumulation is exact; rounding happens once per output field so many
// small lines cannot compound a rounding error. An empty cart falls out of
// the general formula (zero subtotal, shipping still charged).
func Compute(items []LineItem, rates Rates) Breakdown {
	subtotal := decimal.Zero
	for _, li := range items {
		subtotal = subtotal.Add(li.LineTotal())
	}

	tax := subtotal.Mul(rates.TaxRate)

	shipping := rates.ShippingCost
	if subtotal.GreaterThan(rates.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	total := subtotal.Add(tax).Add(shipping)

	return Breakdown{
		Subtotal: subtotal.Round(2),
		Tax:      tax.Round(2),
		Shipping: shipping.Round(2),
		Total:    total.Round(2),
	}
}
