package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dwikikusuma/storefront/internal/auth/app"
	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/dwikikusuma/storefront/pkg/httpx"
	"github.com/gorilla/mux"
)

type Server struct {
	svc *app.Service
	log *slog.Logger
}

func NewServer(svc *app.Service, log *slog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodPost)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed body")
		return
	}

	sess, info, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		case errors.Is(err, app.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		default:
			s.log.Error("login failed", slog.Any("err", err))
			httpx.WriteError(w, http.StatusBadGateway, "REMOTE_FAILURE", "login unavailable")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		SessionID: sess.ID,
		UserID:    info.UserID,
		Name:      info.Name,
		Email:     info.Email,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := bearerToken(r)
	if sessionID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.svc.Logout(r.Context(), sessionID); err != nil {
		s.log.Error("logout failed", slog.Any("err", err))
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Middleware resolves the bearer session id and attaches the session to the
// request context. Requests without a valid session pass through anonymous;
// the handlers decide what anonymity means per operation.
func Middleware(store session.Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := bearerToken(r); id != "" {
				if sess, err := store.Get(r.Context(), id); err == nil {
					r = r.WithContext(session.WithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
