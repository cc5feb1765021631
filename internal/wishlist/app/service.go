package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one wishlisted product with enough detail to render it and move it
// into the cart.
type Item struct {
	ProductID     string
	Name          string
	Image         string
	Price         decimal.Decimal
	DiscountPrice decimal.Decimal
	CountInStock  int
}

// WishlistStore is the remote wishlist collection. Toggle flips membership
// and reports the resulting state.
type WishlistStore interface {
	GetWishlist(ctx context.Context, userID string) ([]Item, error)
	Toggle(ctx context.Context, userID, productID string) (added bool, err error)
}

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrAuthRequired  = errors.New("authentication required")
	ErrRemoteFailure = errors.New("wishlist store unavailable")
)

type Service struct {
	store WishlistStore
}

func NewService(store WishlistStore) *Service {
	return &Service{store: store}
}

func (s *Service) Fetch(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	items, err := s.store.GetWishlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	return items, nil
}

// Toggle requires a session; anonymous callers are rejected before any
// network call, mirroring cart adds.
func (s *Service) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, ErrAuthRequired
	}
	if productID == "" {
		return false, fmt.Errorf("%w: empty product id", ErrInvalidInput)
	}

	added, err := s.store.Toggle(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	return added, nil
}
