// Package httpapi reads the user's order history from the remote orders
// endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/domain"
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

type rawOrderItem struct {
	Product json.Number     `json:"product"`
	Name    string          `json:"name"`
	Image   string          `json:"image"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
}

type rawOrder struct {
	ID            json.Number     `json:"id"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt"`
	IsDelivered   bool            `json:"isDelivered"`
	DeliveredAt   *time.Time      `json:"deliveredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	OrderItems    []rawOrderItem  `json:"orderItems"`
}

func (r rawOrder) normalize() domain.Order {
	items := make([]domain.OrderItem, 0, len(r.OrderItems))
	for _, it := range r.OrderItems {
		items = append(items, domain.OrderItem{
			ProductID: it.Product.String(),
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Qty,
			UnitPrice: it.Price,
		})
	}

	o := domain.Order{
		ID:            r.ID.String(),
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		ItemsPrice:    r.ItemsPrice,
		TaxPrice:      r.TaxPrice,
		ShippingPrice: r.ShippingPrice,
		TotalPrice:    r.TotalPrice,
		IsPaid:        r.IsPaid,
		IsDelivered:   r.IsDelivered,
		CreatedAt:     r.CreatedAt,
		Items:         items,
	}
	if r.PaidAt != nil {
		o.PaidAt = *r.PaidAt
	}
	if r.DeliveredAt != nil {
		o.DeliveredAt = *r.DeliveredAt
	}
	return o
}

func (c *Client) ListMine(ctx context.Context) ([]domain.Order, error) {
	var raw []rawOrder
	if err := c.get(ctx, "/api/orders/myorders/", &raw); err != nil {
		return nil, errors.Wrap(err, "list my orders")
	}

	orders := make([]domain.Order, 0, len(raw))
	for _, r := range raw {
		orders = append(orders, r.normalize())
	}
	return orders, nil
}

func (c *Client) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var raw rawOrder
	if err := c.get(ctx, fmt.Sprintf("/api/orders/%s/", orderID), &raw); err != nil {
		return domain.Order{}, errors.Wrap(err, "get order")
	}
	return raw.normalize(), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if sess, ok := session.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
