// Package orderapi submits orders to the remote orders endpoint.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
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

type orderItemPayload struct {
	Product string          `json:"product"`
	Name    string          `json:"name"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
}

type placeOrderPayload struct {
	OrderItems      []orderItemPayload `json:"orderItems"`
	ShippingAddress domain.Address     `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	ItemsPrice      decimal.Decimal    `json:"itemsPrice"`
	TaxPrice        decimal.Decimal    `json:"taxPrice"`
	ShippingPrice   decimal.Decimal    `json:"shippingPrice"`
	TotalPrice      decimal.Decimal    `json:"totalPrice"`
}

type orderResponse struct {
	ID        json.Number     `json:"id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"totalPrice"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (c *Client) PlaceOrder(ctx context.Context, userID string, req checkoutapp.PlaceOrderRequest) (domain.Order, error) {
	payload := placeOrderPayload{
		OrderItems:      make([]orderItemPayload, 0, len(req.Lines)),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.Subtotal,
		TaxPrice:        req.Tax,
		ShippingPrice:   req.Shipping,
		TotalPrice:      req.Total,
	}
	for _, line := range req.Lines {
		payload.OrderItems = append(payload.OrderItems, orderItemPayload{
			Product: line.ProductID,
			Name:    line.Name,
			Qty:     line.Quantity,
			Price:   line.UnitPrice,
		})
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return domain.Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders/add/", bytes.NewReader(buf))
	if err != nil {
		return domain.Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if sess, ok := session.FromContext(ctx); ok {
		httpReq.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "place order")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Order{}, errors.Errorf("place order: status %d: %s", resp.StatusCode, body)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Order{}, errors.Wrap(err, "decode order")
	}

	return domain.Order{
		ID:        out.ID.String(),
		Status:    out.Status,
		Total:     out.Total,
		CreatedAt: out.CreatedAt,
	}, nil
}
