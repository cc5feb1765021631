// Package storeapi talks to the remote wishlist endpoints and normalizes
// their item shapes the same way the cart boundary does.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/dwikikusuma/storefront/internal/wishlist/app"
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

type rawItem struct {
	Product        json.Number `json:"product"`
	ProductDetails struct {
		Name             string          `json:"name"`
		Image            string          `json:"image"`
		Price            decimal.Decimal `json:"price"`
		DiscountPrice    decimal.Decimal `json:"discount_price"`
		DiscountPriceAlt decimal.Decimal `json:"discountPrice"`
		CountInStock     *int            `json:"countInStock"`
		CountInStockAlt  *int            `json:"count_in_stock"`
	} `json:"product_details"`
}

func (r rawItem) normalize() app.Item {
	discount := r.ProductDetails.DiscountPrice
	if discount.IsZero() {
		discount = r.ProductDetails.DiscountPriceAlt
	}

	stock := 0
	switch {
	case r.ProductDetails.CountInStock != nil:
		stock = *r.ProductDetails.CountInStock
	case r.ProductDetails.CountInStockAlt != nil:
		stock = *r.ProductDetails.CountInStockAlt
	}

	return app.Item{
		ProductID:     r.Product.String(),
		Name:          r.ProductDetails.Name,
		Image:         r.ProductDetails.Image,
		Price:         r.ProductDetails.Price,
		DiscountPrice: discount,
		CountInStock:  stock,
	}
}

func (c *Client) GetWishlist(ctx context.Context, userID string) ([]app.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/wishlist/", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get wishlist")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("get wishlist: status %d: %s", resp.StatusCode, body)
	}

	var raw []rawItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode wishlist")
	}

	items := make([]app.Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, r.normalize())
	}
	return items, nil
}

func (c *Client) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	buf, err := json.Marshal(map[string]string{"product_id": productID})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/wishlist/toggle/", bytes.NewReader(buf))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "toggle wishlist")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, errors.Errorf("toggle wishlist: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, errors.Wrap(err, "decode toggle response")
	}
	return out.Status == "added", nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if sess, ok := session.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
}
