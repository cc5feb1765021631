package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

// CartEngineReader exposes the cart engine to checkout as a reader and a
// clearer.
type CartEngineReader struct {
	engine *cartapp.Engine
}

func NewCartEngineReader(engine *cartapp.Engine) *CartEngineReader {
	return &CartEngineReader{engine: engine}
}

func (r *CartEngineReader) GetCart(ctx context.Context, userID string) ([]checkoutapp.CartItem, error) {
	snap, err := r.engine.Hydrate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]checkoutapp.CartItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return items, nil
}

func (r *CartEngineReader) Clear(ctx context.Context, userID string) error {
	return r.engine.Clear(ctx, userID)
}
