package rest

import (
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/dwikikusuma/storefront/pkg/httpx"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Server struct {
	svc *app.Service
	log *slog.Logger
}

func NewServer(svc *app.Service, log *slog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/api/checkout/quote", s.handleQuote).Methods(http.MethodPost)
	r.HandleFunc("/api/orders", s.handlePlaceOrder).Methods(http.MethodPost)
}

type quoteLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type quoteResponse struct {
	Lines    []quoteLineResponse `json:"lines"`
	Subtotal decimal.Decimal     `json:"subtotal"`
	Tax      decimal.Decimal     `json:"tax"`
	Shipping decimal.Decimal     `json:"shipping"`
	Total    decimal.Decimal     `json:"total"`
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	lines := make([]quoteLineResponse, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, quoteLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return quoteResponse{
		Lines:    lines,
		Subtotal: q.Subtotal,
		Tax:      q.Tax,
		Shipping: q.Shipping,
		Total:    q.Total,
	}
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "login required for checkout")
		return
	}

	quote, err := s.svc.Quote(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toQuoteResponse(quote))
}

type placeOrderRequest struct {
	ShippingAddress domain.Address `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
}

type orderResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "login required for checkout")
		return
	}

	var req placeOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed body")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "PayPal"
	}

	order, err := s.svc.PlaceOrder(r.Context(), sess.UserID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		s.writeError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, orderResponse{
		ID:     order.ID,
		Status: order.Status,
		Total:  order.Total,
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrEmptyCart):
		httpx.WriteError(w, http.StatusBadRequest, "EMPTY_CART", err.Error())
	case errors.Is(err, app.ErrInsufficientStock):
		httpx.WriteError(w, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, cartapp.ErrAuthRequired):
		httpx.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
	case errors.Is(err, cartapp.ErrRemoteFailure):
		httpx.WriteError(w, http.StatusBadGateway, "REMOTE_FAILURE", err.Error())
	default:
		s.log.Error("checkout request failed", slog.Any("err", err))
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed")
	}
}
