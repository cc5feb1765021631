package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/dwikikusuma/storefront/pkg/httpx"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Server struct {
	engine *app.Engine
	log    *slog.Logger
}

func NewServer(engine *app.Engine, log *slog.Logger) *Server {
	return &Server{engine: engine, log: log}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/api/cart", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/cart/add", s.handleAdd).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/update", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/api/cart/remove/{productID}", s.handleRemove).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/clear", s.handleClear).Methods(http.MethodDelete)
}

type lineItemResponse struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountPrice  decimal.Decimal `json:"discount_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Quantity       int             `json:"qty"`
	AvailableStock int             `json:"count_in_stock"`
	Updating       bool            `json:"updating"`
}

type breakdownResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type cartResponse struct {
	Items     []lineItemResponse `json:"items"`
	Breakdown breakdownResponse  `json:"breakdown"`
}

func (s *Server) cartPayload(userID string, snap domain.Snapshot) cartResponse {
	items := make([]lineItemResponse, 0, len(snap.Items))
	for _, li := range snap.Items {
		items = append(items, lineItemResponse{
			ProductID:      li.ProductID,
			Name:           li.Name,
			Image:          li.Image,
			UnitPrice:      li.UnitPrice,
			DiscountPrice:  li.DiscountPrice,
			EffectivePrice: li.EffectiveUnitPrice(),
			Quantity:       li.Quantity,
			AvailableStock: li.AvailableStock,
			Updating:       s.engine.Updating(userID, li.ProductID),
		})
	}

	b := s.engine.Breakdown(userID)
	return cartResponse{
		Items: items,
		Breakdown: breakdownResponse{
			Subtotal: b.Subtotal,
			Tax:      b.Tax,
			Shipping: b.Shipping,
			Total:    b.Total,
		},
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		// Anonymous visitors see an empty cart, they are not errored.
		httpx.WriteJSON(w, http.StatusOK, s.cartPayload("", domain.Snapshot{}))
		return
	}

	snap, err := s.engine.Hydrate(r.Context(), sess.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.cartPayload(sess.UserID, snap))
}

type addRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed body")
		return
	}

	userID := userIDFrom(r)
	if err := s.engine.RequestAdd(r.Context(), userID, req.ProductID, req.Qty); err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.cartPayload(userID, s.engine.Snapshot(userID)))
}

type updateRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed body")
		return
	}

	userID := userIDFrom(r)
	if err := s.engine.RequestQuantityChange(r.Context(), userID, req.ProductID, req.Qty); err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.cartPayload(userID, s.engine.Snapshot(userID)))
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	userID := userIDFrom(r)

	if err := s.engine.RequestRemoval(r.Context(), userID, productID); err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.cartPayload(userID, s.engine.Snapshot(userID)))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	if err := s.engine.Clear(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.cartPayload(userID, s.engine.Snapshot(userID)))
}

func userIDFrom(r *http.Request) string {
	if sess, ok := session.FromContext(r.Context()); ok {
		return sess.UserID
	}
	return ""
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFromErr(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("cart request failed", slog.Any("err", err))
	}
	httpx.WriteError(w, status, code, err.Error())
}

// statusFromErr maps the engine's error taxonomy onto HTTP statuses. All of
// them are non-fatal to the caller.
func statusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, app.ErrAuthRequired):
		return http.StatusUnauthorized, "AUTH_REQUIRED"
	case errors.Is(err, app.ErrMutationInProgress):
		return http.StatusConflict, "MUTATION_IN_PROGRESS"
	case errors.Is(err, app.ErrRemoteFailure):
		return http.StatusBadGateway, "REMOTE_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
