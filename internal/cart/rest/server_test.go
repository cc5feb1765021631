package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dwikikusuma/storefront/internal/cart/app"
)

func TestStatusFromErr(t *testing.T) {
	t.Run("InvalidQuantity -> 400", func(t *testing.T) {
		err := fmt.Errorf("%w: quantity 0 below 1", app.ErrInvalidQuantity)
		gotStatus, gotCode := statusFromErr(err)
		if gotStatus != http.StatusBadRequest || gotCode != "INVALID_QUANTITY" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("AuthRequired -> 401", func(t *testing.T) {
		gotStatus, gotCode := statusFromErr(app.ErrAuthRequired)
		if gotStatus != http.StatusUnauthorized || gotCode != "AUTH_REQUIRED" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("MutationInProgress -> 409", func(t *testing.T) {
		gotStatus, gotCode := statusFromErr(app.ErrMutationInProgress)
		if gotStatus != http.StatusConflict || gotCode != "MUTATION_IN_PROGRESS" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("RemoteFailure -> 502", func(t *testing.T) {
		err := fmt.Errorf("%w: connection refused", app.ErrRemoteFailure)
		gotStatus, gotCode := statusFromErr(err)
		if gotStatus != http.StatusBadGateway || gotCode != "REMOTE_FAILURE" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})

	t.Run("unknown error -> 500", func(t *testing.T) {
		gotStatus, gotCode := statusFromErr(errors.New("boom"))
		if gotStatus != http.StatusInternalServerError || gotCode != "INTERNAL" {
			t.Fatalf("got (%d,%s)", gotStatus, gotCode)
		}
	})
}
