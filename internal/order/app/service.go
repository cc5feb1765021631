package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/storefront/internal/order/domain"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	reader OrderReader
}

func NewService(reader OrderReader) *Service {
	return &Service{reader: reader}
}

func (s *Service) ListMine(ctx context.Context) ([]domain.Order, error) {
	return s.reader.ListMine(ctx)
}

func (s *Service) Get(ctx context.Context, orderID string) (domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, ErrInvalidInput
	}
	return s.reader.Get(ctx, orderID)
}
