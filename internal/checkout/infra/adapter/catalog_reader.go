package adapter

import (
	"context"

	cataloghttp "github.com/dwikikusuma/storefront/internal/catalog/httpapi"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type CatalogAPIReader struct {
	client *cataloghttp.Client
}

func NewCatalogAPIReader(client *cataloghttp.Client) *CatalogAPIReader {
	return &CatalogAPIReader{client: client}
}

func (r *CatalogAPIReader) GetProduct(ctx context.Context, productID string) (checkoutapp.Product, error) {
	p, err := r.client.GetProduct(ctx, productID)
	if err != nil {
		return checkoutapp.Product{}, err
	}

	return checkoutapp.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CountInStock:  p.CountInStock,
	}, nil
}
