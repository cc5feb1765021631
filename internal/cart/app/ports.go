package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// CartStore is the remote cart collection. It owns line presence, prices and
// stock; the engine treats its responses as the authoritative cart.
type CartStore interface {
	GetCart(ctx context.Context, userID string) ([]domain.LineItem, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	SetItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
}
