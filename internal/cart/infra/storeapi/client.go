// Package storeapi talks to the remote storefront API's cart endpoints and
// collapses every server shape variant into the canonical line item once, at
// this boundary.
package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/session"
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

func (c *Client) GetCart(ctx context.Context, userID string) ([]domain.LineItem, error) {
	var raw []rawCartItem
	if err := c.do(ctx, http.MethodGet, "/api/cart/", nil, &raw); err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	items := make([]domain.LineItem, 0, len(raw))
	for _, r := range raw {
		li, err := r.normalize()
		if err != nil {
			return nil, errors.Wrap(err, "normalize cart item")
		}
		items = append(items, li)
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	body := map[string]any{"product_id": productID, "qty": quantity}
	return errors.Wrap(c.do(ctx, http.MethodPost, "/api/cart/add/", body, nil), "add item")
}

func (c *Client) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	body := map[string]any{"product_id": productID, "qty": quantity}
	return errors.Wrap(c.do(ctx, http.MethodPut, "/api/cart/update/", body, nil), "set quantity")
}

func (c *Client) RemoveItem(ctx context.Context, userID, productID string) error {
	path := fmt.Sprintf("/api/cart/remove/%s/", productID)
	return errors.Wrap(c.do(ctx, http.MethodDelete, path, nil, nil), "remove item")
}

func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return errors.Wrap(c.do(ctx, http.MethodDelete, "/api/cart/clear/", nil, nil), "clear cart")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sess, ok := session.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// flexID accepts both string and numeric JSON identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// rawProduct mirrors the nested product details as the server sends them,
// including the field-name variants that exist in the wild.
type rawProduct struct {
	Name             string          `json:"name"`
	Image            string          `json:"image"`
	Price            decimal.Decimal `json:"price"`
	DiscountPrice    decimal.Decimal `json:"discount_price"`
	DiscountPriceAlt decimal.Decimal `json:"discountPrice"`
	CountInStock     *int            `json:"countInStock"`
	CountInStockAlt  *int            `json:"count_in_stock"`
}

type rawCartItem struct {
	ID        flexID     `json:"id"`
	MongoID   flexID     `json:"_id"`
	ProductID flexID     `json:"product"`
	Qty       int        `json:"qty"`
	Product   rawProduct `json:"product_details"`
}

func (r rawCartItem) normalize() (domain.LineItem, error) {
	productID := string(r.ProductID)
	if productID == "" {
		productID = string(r.ID)
	}
	if productID == "" {
		productID = string(r.MongoID)
	}
	if productID == "" {
		return domain.LineItem{}, errors.New("cart item without product id")
	}

	discount := r.Product.DiscountPrice
	if discount.IsZero() {
		discount = r.Product.DiscountPriceAlt
	}

	stock := 0
	switch {
	case r.Product.CountInStock != nil:
		stock = *r.Product.CountInStock
	case r.Product.CountInStockAlt != nil:
		stock = *r.Product.CountInStockAlt
	}

	if r.Product.Price.IsNegative() {
		return domain.LineItem{}, errors.Errorf("product %s: negative price %s", productID, r.Product.Price)
	}
	if r.Qty < 1 {
		return domain.LineItem{}, errors.Errorf("product %s: quantity %d below 1", productID, r.Qty)
	}

	return domain.LineItem{
		ProductID:      productID,
		Name:           r.Product.Name,
		Image:          r.Product.Image,
		UnitPrice:      r.Product.Price,
		DiscountPrice:  discount,
		Quantity:       r.Qty,
		AvailableStock: stock,
	}, nil
}
