package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sess := session.Session{ID: "sid-1", UserID: "u1", Token: "tok", CreatedAt: time.Now()}
	require.NoError(t, store.Save(context.Background(), sess))

	var got session.Session
	var attached bool

	r := mux.NewRouter()
	r.Use(Middleware(store))
	r.HandleFunc("/probe", func(w http.ResponseWriter, req *http.Request) {
		got, attached = session.FromContext(req.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer session attaches", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer sid-1")
		r.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, attached)
		require.Equal(t, "u1", got.UserID)
	})

	t.Run("unknown session stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer nope")
		r.ServeHTTP(httptest.NewRecorder(), req)

		require.False(t, attached)
	})

	t.Run("no header stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)

		require.False(t, attached)
	})
}
