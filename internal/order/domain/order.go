package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string
	Status        string
	PaymentMethod string
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
	IsPaid        bool
	PaidAt        time.Time
	IsDelivered   bool
	DeliveredAt   time.Time
	Items         []OrderItem
	CreatedAt     time.Time
}

type OrderItem struct {
	ProductID string
	Name      string
	Image     string
	Quantity  int
	UnitPrice decimal.Decimal
}
