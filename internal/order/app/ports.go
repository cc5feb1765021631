package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/order/domain"
)

// OrderReader is the remote order history. Orders are created through
// checkout; this side only tracks them.
type OrderReader interface {
	ListMine(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, orderID string) (domain.Order, error)
}
