package app

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CartReader interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
}

type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

type CartItem struct {
	ProductID string
	Quantity  int
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	CountInStock  int
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (domain.Order, error)
}

type PlaceOrderRequest struct {
	Lines           []domain.QuoteLine
	ShippingAddress domain.Address
	PaymentMethod   string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
}

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	cart    CartReader
	clearer CartClearer
	catalog CatalogReader
	orders  OrderPlacer
	rates   cartdomain.Rates

	maxConcurrent int
}

func NewService(cart CartReader, clearer CartClearer, catalog CatalogReader, orders OrderPlacer, rates cartdomain.Rates, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		cart:          cart,
		clearer:       clearer,
		catalog:       catalog,
		orders:        orders,
		rates:         rates,
		maxConcurrent: maxConcurrent,
	}
}

// Quote re-reads the cart and revalidates every line against the catalog, so
// checkout prices reflect current catalog truth rather than the possibly
// stale snapshot.
func (s *Service) Quote(ctx context.Context, userID string) (domain.Quote, error) {
	items, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	priced := make([]cartdomain.LineItem, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Quantity)
			}

			product, err := s.catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}
			if it.Quantity > product.CountInStock {
				return fmt.Errorf("%w: product %s has %d left", ErrInsufficientStock, it.ProductID, product.CountInStock)
			}

			unit := product.Price
			if product.DiscountPrice.IsPositive() && product.DiscountPrice.LessThan(product.Price) {
				unit = product.DiscountPrice
			}

			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: unit,
				LineTotal: unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			priced[idx] = cartdomain.LineItem{
				ProductID: product.ID,
				UnitPrice: unit,
				Quantity:  it.Quantity,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	b := cartdomain.Compute(priced, s.rates)
	return domain.Quote{
		Lines:    lines,
		Subtotal: b.Subtotal,
		Tax:      b.Tax,
		Shipping: b.Shipping,
		Total:    b.Total,
	}, nil
}

// PlaceOrder quotes the cart, submits the order and clears the cart on
// success. A failed clear does not fail the order; the next refresh will
// reconcile against the server cart.
func (s *Service) PlaceOrder(ctx context.Context, userID string, addr domain.Address, paymentMethod string) (domain.Order, error) {
	quote, err := s.Quote(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.PlaceOrder(ctx, userID, PlaceOrderRequest{
		Lines:           quote.Lines,
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		Shipping:        quote.Shipping,
		Total:           quote.Total,
	})
	if err != nil {
		return domain.Order{}, err
	}

	_ = s.clearer.Clear(ctx, userID)
	return order, nil
}
