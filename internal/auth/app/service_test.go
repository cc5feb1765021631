package app

import (
	"context"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/internal/session"
)

type fakeUsers struct {
	info  UserInfo
	err   error
	calls int
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (UserInfo, error) {
	f.calls++
	return f.info, f.err
}

type fakeCart struct {
	forgotten []string
}

func (f *fakeCart) Forget(userID string) {
	f.forgotten = append(f.forgotten, userID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("empty credentials -> invalid, no network call", func(t *testing.T) {
		users := &fakeUsers{}
		svc := NewService(users, session.NewMemoryStore(time.Hour), &fakeCart{})

		if _, _, err := svc.Login(ctx, "  ", "pw"); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if _, _, err := svc.Login(ctx, "a@b.c", ""); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if users.calls != 0 {
			t.Fatalf("expected no remote calls, got %d", users.calls)
		}
	})

	t.Run("mints a retrievable session", func(t *testing.T) {
		users := &fakeUsers{info: UserInfo{UserID: "u1", Name: "Dana", Token: "tok"}}
		store := session.NewMemoryStore(time.Hour)
		svc := NewService(users, store, &fakeCart{})

		sess, info, err := svc.Login(ctx, "dana@example.com", "pw")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if info.UserID != "u1" {
			t.Fatalf("user id: got %s", info.UserID)
		}

		got, err := store.Get(ctx, sess.ID)
		if err != nil {
			t.Fatalf("session not stored: %v", err)
		}
		if got.UserID != "u1" || got.Token != "tok" {
			t.Fatalf("stored session: %+v", got)
		}
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	users := &fakeUsers{info: UserInfo{UserID: "u1", Token: "tok"}}
	store := session.NewMemoryStore(time.Hour)
	cart := &fakeCart{}
	svc := NewService(users, store, cart)

	sess, _, err := svc.Login(ctx, "dana@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := store.Get(ctx, sess.ID); err != session.ErrNotFound {
		t.Fatalf("session must be deleted, got %v", err)
	}
	if len(cart.forgotten) != 1 || cart.forgotten[0] != "u1" {
		t.Fatalf("cart state not forgotten: %v", cart.forgotten)
	}

	t.Run("unknown session is a no-op", func(t *testing.T) {
		if err := svc.Logout(ctx, "missing"); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}
