package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Quote prices the current cart at checkout time, after revalidating each
// line against the catalog. Its totals use the same rates as the cart
// breakdown so the two screens can never disagree.
type Quote struct {
	Lines    []QuoteLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

type Order struct {
	ID        string
	Status    string
	Total     decimal.Decimal
	CreatedAt time.Time
}
