// Package httpapi reads product details from the remote catalog endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type rawProduct struct {
	ID               json.Number     `json:"id"`
	Name             string          `json:"name"`
	Image            string          `json:"image"`
	Price            decimal.Decimal `json:"price"`
	DiscountPrice    decimal.Decimal `json:"discount_price"`
	DiscountPriceAlt decimal.Decimal `json:"discountPrice"`
	CountInStock     *int            `json:"countInStock"`
	CountInStockAlt  *int            `json:"count_in_stock"`
}

func (c *Client) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	url := fmt.Sprintf("%s/api/products/%s/", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Product{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "get product")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Product{}, errors.Errorf("get product %s: status %d: %s", productID, resp.StatusCode, payload)
	}

	var raw rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.Product{}, errors.Wrap(err, "decode product")
	}

	discount := raw.DiscountPrice
	if discount.IsZero() {
		discount = raw.DiscountPriceAlt
	}

	stock := 0
	switch {
	case raw.CountInStock != nil:
		stock = *raw.CountInStock
	case raw.CountInStockAlt != nil:
		stock = *raw.CountInStockAlt
	}

	id := raw.ID.String()
	if id == "" {
		id = productID
	}

	return domain.Product{
		ID:            id,
		Name:          raw.Name,
		Image:         raw.Image,
		Price:         raw.Price,
		DiscountPrice: discount,
		CountInStock:  stock,
	}, nil
}
