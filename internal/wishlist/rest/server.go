package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/dwikikusuma/storefront/internal/wishlist/app"
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
	r.HandleFunc("/api/wishlist", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/wishlist/toggle", s.handleToggle).Methods(http.MethodPost)
}

type itemResponse struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	CountInStock  int             `json:"count_in_stock"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, []itemResponse{})
		return
	}

	items, err := s.svc.Fetch(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Image:         it.Image,
			Price:         it.Price,
			DiscountPrice: it.DiscountPrice,
			CountInStock:  it.CountInStock,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type toggleRequest struct {
	ProductID string `json:"product_id"`
}

type toggleResponse struct {
	Added bool `json:"added"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed body")
		return
	}

	userID := ""
	if sess, ok := session.FromContext(r.Context()); ok {
		userID = sess.UserID
	}

	added, err := s.svc.Toggle(r.Context(), userID, req.ProductID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toggleResponse{Added: added})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrAuthRequired):
		httpx.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
	case errors.Is(err, app.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, app.ErrRemoteFailure):
		httpx.WriteError(w, http.StatusBadGateway, "REMOTE_FAILURE", err.Error())
	default:
		s.log.Error("wishlist request failed", slog.Any("err", err))
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "wishlist request failed")
	}
}
