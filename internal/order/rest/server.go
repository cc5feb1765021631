package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dwikikusuma/storefront/internal/order/app"
	"github.com/dwikikusuma/storefront/internal/order/domain"
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
	r.HandleFunc("/api/orders/mine", s.handleListMine).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{orderID}", s.handleGet).Methods(http.MethodGet)
}

type orderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	ItemsPrice    decimal.Decimal     `json:"items_price"`
	TaxPrice      decimal.Decimal     `json:"tax_price"`
	ShippingPrice decimal.Decimal     `json:"shipping_price"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	IsPaid        bool                `json:"is_paid"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	IsDelivered   bool                `json:"is_delivered"`
	DeliveredAt   *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

func toResponse(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Qty:       it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	resp := orderResponse{
		ID:            o.ID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice,
		TaxPrice:      o.TaxPrice,
		ShippingPrice: o.ShippingPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		IsDelivered:   o.IsDelivered,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
	if !o.PaidAt.IsZero() {
		t := o.PaidAt
		resp.PaidAt = &t
	}
	if !o.DeliveredAt.IsZero() {
		t := o.DeliveredAt
		resp.DeliveredAt = &t
	}
	return resp
}

func (s *Server) handleListMine(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "login required")
		return
	}

	orders, err := s.svc.ListMine(r.Context())
	if err != nil {
		s.log.Error("list orders failed", slog.Any("err", err))
		httpx.WriteError(w, http.StatusBadGateway, "REMOTE_FAILURE", "could not load orders")
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "login required")
		return
	}

	order, err := s.svc.Get(r.Context(), mux.Vars(r)["orderID"])
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		s.log.Error("get order failed", slog.Any("err", err))
		httpx.WriteError(w, http.StatusBadGateway, "REMOTE_FAILURE", "could not load order")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(order))
}
